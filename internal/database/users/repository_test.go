package users

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/legendarybooks/catalogue/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_users_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func testUser(username string) *entities.User {
	return &entities.User{
		FirstName:    "Test",
		LastName:     "Librarian",
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "$2a$12$fakehashfakehashfakehash",
		Permissions:  entities.PermissionsNormal,
	}
}

func TestRepository_Create(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := testUser("librarian")
	err := repo.Create(user)

	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, entities.PermissionsNormal, user.Permissions)
}

func TestRepository_Create_DuplicateUsername(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Create(testUser("librarian")))

	err := repo.Create(testUser("librarian"))

	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRepository_GetByUsername(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created := testUser("librarian")
	require.NoError(t, repo.Create(created))

	user, err := repo.GetByUsername("librarian")

	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestRepository_GetByUsername_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByUsername("nonexistent")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(999)

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRepository_Search(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	alice := testUser("alice")
	alice.FirstName = "Alice"
	alice.LastName = "Archer"
	require.NoError(t, repo.Create(alice))
	bob := testUser("bob")
	bob.FirstName = "Bob"
	bob.LastName = "Baker"
	require.NoError(t, repo.Create(bob))

	found, err := repo.Search("ARCH")

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice", found[0].Username)
}

func TestRepository_Update_ReplacesHash(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := testUser("librarian")
	require.NoError(t, repo.Create(user))

	user.PasswordHash = "$2a$12$anotherhashanotherhash"
	user.Permissions = entities.PermissionsAdmin
	require.NoError(t, repo.Update(user))

	found, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "$2a$12$anotherhashanotherhash", found.PasswordHash)
	assert.Equal(t, entities.PermissionsAdmin, found.Permissions)
}

func TestRepository_Update_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ghost := testUser("ghost")
	ghost.ID = 42

	assert.ErrorIs(t, repo.Update(ghost), ErrUserNotFound)
}

func TestRepository_Delete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := testUser("librarian")
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.Delete(user.ID))
	assert.ErrorIs(t, repo.Delete(user.ID), ErrUserNotFound)
}

func TestRepository_Count(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.Create(testUser("librarian")))

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
