package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body, ctype := multipartBody(t, "image", filename, content)
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", ctype)
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestStore_SaveSniffsContent(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, "/media/", 1<<20)

	img, err := store.Save(context.Background(), "gallery", fileHeader(t, "../../Evil Name.exe", pngBytes(t)))

	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f-]{36}_Evil_Name\.png$`, img.Name)
	assert.Equal(t, "/media/gallery/"+img.Name, img.URL)
	_, err = os.Stat(filepath.Join(root, "gallery", img.Name))
	assert.NoError(t, err)
}

func TestStore_SaveRejects(t *testing.T) {
	store := NewStore(t.TempDir(), "/media", 64)

	_, err := store.Save(context.Background(), "gallery", fileHeader(t, "note.png", []byte("just some text pretending to be an image")))
	assert.ErrorIs(t, err, ErrInvalidMimeType)

	_, err = store.Save(context.Background(), "gallery", fileHeader(t, "big.png", append(pngBytes(t), make([]byte, 128)...)))
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestStore_DeleteRejectsTraversal(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, "/media", 0)
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("x"), 0o600))

	for _, name := range []string{"", ".", "..", "../secret.txt", `..\secret.txt`, "a/b.png"} {
		assert.ErrorIs(t, store.Delete(context.Background(), "gallery", name), ErrInvalidName, name)
	}
	assert.ErrorIs(t, store.Delete(context.Background(), "gallery", "missing.png"), ErrNotFound)

	_, err := os.Stat(filepath.Join(root, "secret.txt"))
	assert.NoError(t, err)
}

func TestStore_ListNewestFirst(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root, "/media", 0)
	dir := filepath.Join(root, "gallery")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	base := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"old.jpg", "mid.png", "new.webp"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		ts := base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, os.Chtimes(p, ts, ts))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	images, err := store.List(context.Background(), "gallery")
	require.NoError(t, err)

	names := make([]string, 0, len(images))
	for _, img := range images {
		names = append(names, img.Name)
	}
	assert.Equal(t, []string{"new.webp", "mid.png", "old.jpg"}, names)
}

func TestStore_ListMissingDir(t *testing.T) {
	store := NewStore(t.TempDir(), "/media", 0)

	images, err := store.List(context.Background(), "gallery")
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestHandler_UploadAndList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewService(NewStore(t.TempDir(), "/media", 1<<20), nil)
	h := NewHandler(svc)

	router := gin.New()
	h.RegisterPublicRoutes(router.Group("/api/v1"))
	h.RegisterAdminRoutes(router.Group("/api/v1/admin"))

	body, ctype := multipartBody(t, "image", "dog.png", pngBytes(t))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/gallery", body)
	req.Header.Set("Content-Type", ctype)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/gallery?page=1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Items []Image `json:"items"`
			Total int64   `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.EqualValues(t, 1, resp.Data.Total)
	require.Len(t, resp.Data.Items, 1)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/gallery/"+resp.Data.Items[0].Name, nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_UploadMissingField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(NewStore(t.TempDir(), "/media", 0), nil))
	router := gin.New()
	h.RegisterAdminRoutes(router.Group("/admin"))

	body, ctype := multipartBody(t, "photo", "dog.png", pngBytes(t))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/gallery", body)
	req.Header.Set("Content-Type", ctype)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}
