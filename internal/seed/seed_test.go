package seed

import (
	"context"
	"testing"

	"dogsalon/internal/database"
	"dogsalon/internal/domain"
	"dogsalon/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	return db
}

func TestDemo_IsRepeatable(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	first, err := Demo(ctx, db, "client123")
	require.NoError(t, err)
	assert.Equal(t, Result{Services: len(demoServices), Users: 2, Contact: true}, first)

	second, err := Demo(ctx, db, "client123")
	require.NoError(t, err)
	assert.Equal(t, Result{}, second)

	active, err := repository.NewServiceRepository(db).CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(len(demoServices)), active)

	c, err := repository.NewContactRepository(db).Get(ctx)
	require.NoError(t, err)
	assert.True(t, c.OpeningHours["sunday"].Closed())
}

func TestCreateAdmin(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	u, err := CreateAdmin(ctx, db, AdminInput{Username: " boss ", Email: "Boss@Salon.test", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, "boss@salon.test", u.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))

	_, err = CreateAdmin(ctx, db, AdminInput{Username: "boss", Email: "other@salon.test", Password: "s3cret-pass"})
	assert.ErrorContains(t, err, "already exists")

	_, err = CreateAdmin(ctx, db, AdminInput{Username: "x", Email: "x@salon.test", Password: "short"})
	assert.Error(t, err)
}
