package services

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/legendarybooks/catalogue/internal/covers"
	"github.com/legendarybooks/catalogue/internal/database/books"
	"github.com/legendarybooks/catalogue/internal/database/changelog"
	"github.com/legendarybooks/catalogue/internal/entities"
)

func setupService(t *testing.T) (*BookService, *covers.Store, *changelog.Repository, *gorm.DB, func()) {
	dbPath := "./test_bookservice_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Author{}, &entities.Book{}, &entities.ChangeLogEntry{}))

	store, err := covers.NewStore(t.TempDir())
	require.NoError(t, err)

	booksRepo := books.NewRepository(db)
	logRepo := changelog.NewRepository(db)
	service := NewBookService(db, booksRepo, store, logRepo)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return service, store, logRepo, db, cleanup
}

func seedAuthor(t *testing.T, db *gorm.DB) *entities.Author {
	t.Helper()
	author := &entities.Author{FirstName: "Frank", LastName: "Herbert"}
	require.NoError(t, db.Create(author).Error)
	return author
}

func stageCover(t *testing.T, store *covers.Store, filename string) {
	t.Helper()
	require.NoError(t, store.StagePending(filename, strings.NewReader("cover")))
}

func TestBookService_Add(t *testing.T) {
	service, store, logRepo, db, cleanup := setupService(t)
	defer cleanup()

	author := seedAuthor(t, db)
	stageCover(t, store, "1.jpg")

	book := &entities.Book{
		Title:          "Dune",
		AuthorID:       author.ID,
		Genre:          entities.GenreFantasyFiction,
		CoverImagePath: "cover-images/1.jpg",
	}
	result, err := service.Add(book, 5)

	require.NoError(t, err)
	assert.False(t, result.CoverDegraded)
	assert.NotZero(t, book.ID)
	assert.True(t, store.Exists("1.jpg"), "staged cover must be public after add")

	entries, err := logRepo.EntriesForSubject(entities.SubjectBook, book.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotNil(t, entries[0].CreatedAt)
	assert.Equal(t, uint(5), entries[0].ActingUserID)
}

func TestBookService_Add_NoStagedCoverIsDegraded(t *testing.T) {
	service, _, _, db, cleanup := setupService(t)
	defer cleanup()

	author := seedAuthor(t, db)
	book := &entities.Book{
		Title:          "Dune",
		AuthorID:       author.ID,
		CoverImagePath: "cover-images/99.jpg",
	}

	result, err := service.Add(book, 1)

	require.NoError(t, err)
	assert.True(t, result.CoverDegraded)

	// The row itself must still be there.
	var stored entities.Book
	require.NoError(t, db.First(&stored, book.ID).Error)
}

func TestBookService_Update_KeepsCoverWhenNoneSupplied(t *testing.T) {
	service, store, logRepo, db, cleanup := setupService(t)
	defer cleanup()

	author := seedAuthor(t, db)
	stageCover(t, store, "2.jpg")
	book := &entities.Book{Title: "Dune", AuthorID: author.ID, CoverImagePath: "cover-images/2.jpg"}
	_, err := service.Add(book, 1)
	require.NoError(t, err)

	update := &entities.Book{
		ID:       book.ID,
		Title:    "Dune Messiah",
		AuthorID: author.ID,
		// No cover path supplied: the stored one stays.
	}
	result, err := service.Update(update, 1)

	require.NoError(t, err)
	assert.False(t, result.CoverDegraded)

	var stored entities.Book
	require.NoError(t, db.First(&stored, book.ID).Error)
	assert.Equal(t, "Dune Messiah", stored.Title)
	assert.Equal(t, "cover-images/2.jpg", stored.CoverImagePath)
	assert.True(t, store.Exists("2.jpg"))

	entries, err := logRepo.EntriesForSubject(entities.SubjectBook, book.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.NotNil(t, entries[1].ChangedAt)
}

func TestBookService_Update_ReplacesCover(t *testing.T) {
	service, store, _, db, cleanup := setupService(t)
	defer cleanup()

	author := seedAuthor(t, db)
	stageCover(t, store, "3.jpg")
	book := &entities.Book{Title: "Dune", AuthorID: author.ID, CoverImagePath: "cover-images/3.jpg"}
	_, err := service.Add(book, 1)
	require.NoError(t, err)

	stageCover(t, store, "3.png")
	update := &entities.Book{
		ID:             book.ID,
		Title:          "Dune",
		AuthorID:       author.ID,
		CoverImagePath: "cover-images/3.png",
	}
	result, err := service.Update(update, 1)

	require.NoError(t, err)
	assert.False(t, result.CoverDegraded)
	assert.False(t, store.Exists("3.jpg"), "old cover file must be gone")
	assert.True(t, store.Exists("3.png"))

	var stored entities.Book
	require.NoError(t, db.First(&stored, book.ID).Error)
	assert.Equal(t, "cover-images/3.png", stored.CoverImagePath)
}

func TestBookService_Update_NotFound(t *testing.T) {
	service, _, _, _, cleanup := setupService(t)
	defer cleanup()

	_, err := service.Update(&entities.Book{ID: 42, Title: "Ghost"}, 1)

	assert.ErrorIs(t, err, books.ErrBookNotFound)
}

func TestBookService_Update_MissingStagedCoverIsDegradedSuccess(t *testing.T) {
	service, _, _, db, cleanup := setupService(t)
	defer cleanup()

	author := seedAuthor(t, db)
	book := &entities.Book{Title: "Dune", AuthorID: author.ID}
	_, err := service.Add(book, 1)
	require.NoError(t, err)

	update := &entities.Book{
		ID:             book.ID,
		Title:          "Dune",
		AuthorID:       author.ID,
		CoverImagePath: "cover-images/404.jpg",
	}
	result, err := service.Update(update, 1)

	require.NoError(t, err)
	assert.True(t, result.CoverDegraded)

	// The row keeps the new path; the degraded flag tells the caller the
	// file itself is missing.
	var stored entities.Book
	require.NoError(t, db.First(&stored, book.ID).Error)
	assert.Equal(t, "cover-images/404.jpg", stored.CoverImagePath)
}

func TestBookService_Delete(t *testing.T) {
	service, store, _, db, cleanup := setupService(t)
	defer cleanup()

	author := seedAuthor(t, db)
	stageCover(t, store, "4.jpg")
	book := &entities.Book{Title: "Dune", AuthorID: author.ID, CoverImagePath: "cover-images/4.jpg"}
	_, err := service.Add(book, 1)
	require.NoError(t, err)

	require.NoError(t, service.Delete(book.ID))

	assert.False(t, store.Exists("4.jpg"))
	err = db.First(&entities.Book{}, book.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBookService_Delete_NotFound(t *testing.T) {
	service, _, _, _, cleanup := setupService(t)
	defer cleanup()

	assert.ErrorIs(t, service.Delete(42), books.ErrBookNotFound)
}

func TestBookService_Delete_NoCoverFileIsFine(t *testing.T) {
	service, _, _, db, cleanup := setupService(t)
	defer cleanup()

	author := seedAuthor(t, db)
	book := &entities.Book{Title: "Dune", AuthorID: author.ID, CoverImagePath: "cover-images/5.jpg"}
	require.NoError(t, db.Create(book).Error)

	assert.NoError(t, service.Delete(book.ID))
}
