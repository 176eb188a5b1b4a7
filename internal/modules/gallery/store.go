package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidMimeType = errors.New("file type not allowed")
	ErrInvalidName     = errors.New("invalid file name")
	ErrNotFound        = errors.New("file not found")
)

// AllowedMimeTypes are the image types accepted for upload.
var AllowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Image struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps uploaded images on local disk under root/<dir>/ and exposes
// them below urlPrefix.
type Store struct {
	root      string
	urlPrefix string
	maxBytes  int64
}

func NewStore(root, urlPrefix string, maxBytes int64) *Store {
	return &Store{
		root:      root,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxBytes:  maxBytes,
	}
}

// Save sniffs the content type, writes the file under dir and returns its
// metadata. The client-supplied extension is ignored.
func (s *Store) Save(_ context.Context, dir string, fh *multipart.FileHeader) (*Image, error) {
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, _ := io.ReadFull(file, buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	ext, ok := AllowedMimeTypes[mimeType]
	if !ok {
		return nil, ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	absDir := filepath.Join(s.root, dir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s%s", uuid.NewString(), sanitizeName(fh.Filename), ext)
	absPath := filepath.Join(absDir, name)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(file, s.limit()+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && s.maxBytes > 0 && written > s.maxBytes {
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(absPath)
		if errors.Is(err, ErrFileTooLarge) {
			return nil, err
		}
		return nil, fmt.Errorf("write file: %w", err)
	}

	return &Image{
		Name:      name,
		URL:       s.URL(dir, name),
		Size:      written,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Delete removes dir/name. Names carrying path elements are rejected.
func (s *Store) Delete(_ context.Context, dir, name string) error {
	if !validName(name) {
		return ErrInvalidName
	}
	err := os.Remove(filepath.Join(s.root, dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

// List returns the images in dir, newest first.
func (s *Store) List(_ context.Context, dir string) ([]Image, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, dir))
	if errors.Is(err, fs.ErrNotExist) {
		return []Image{}, nil
	}
	if err != nil {
		return nil, err
	}

	images := make([]Image, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, ok := AllowedMimeTypes[mimeFromExt(e.Name())]; !ok {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		images = append(images, Image{
			Name:      e.Name(),
			URL:       s.URL(dir, e.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime().UTC(),
		})
	}

	sort.SliceStable(images, func(i, j int) bool {
		if !images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].CreatedAt.After(images[j].CreatedAt)
		}
		return images[i].Name > images[j].Name
	})
	return images, nil
}

func (s *Store) URL(dir, name string) string {
	return s.urlPrefix + "/" + path.Join(dir, name)
}

func (s *Store) limit() int64 {
	if s.maxBytes > 0 {
		return s.maxBytes
	}
	return 1 << 62
}

func validName(name string) bool {
	return name != "" &&
		name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) &&
		filepath.Base(name) == name
}

func sanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return '_'
	}, name)
	if len(name) > 40 {
		name = name[:40]
	}
	if name == "" {
		return "image"
	}
	return name
}

func mimeFromExt(name string) string {
	for mime, ext := range AllowedMimeTypes {
		if strings.EqualFold(filepath.Ext(name), ext) {
			return mime
		}
	}
	if strings.EqualFold(filepath.Ext(name), ".jpeg") {
		return "image/jpeg"
	}
	return ""
}
