// Package books provides database operations for catalogue books,
// including the denormalized listing used by the overview page.
package books

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/legendarybooks/catalogue/internal/entities"
)

var ErrBookNotFound = errors.New("book not found")

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// GetAll returns every book ordered by title.
func (r *Repository) GetAll() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("title ASC").Find(&books).Error
	return books, err
}

// GetByID retrieves a single book.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// Search returns books whose title, original title or author name contains
// the input, case-insensitively.
func (r *Repository) Search(input string) ([]entities.Book, error) {
	var books []entities.Book
	pattern := "%" + input + "%"
	err := r.db.
		Joins("JOIN authors ON authors.id = books.author_id").
		Where("LOWER(books.title) LIKE LOWER(?) OR LOWER(books.original_title) LIKE LOWER(?)"+
			" OR LOWER(authors.first_name || ' ' || authors.last_name) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Order("books.title ASC").
		Find(&books).Error
	return books, err
}

// Create stores a new book.
func (r *Repository) Create(book *entities.Book) error {
	if err := r.db.Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// Update replaces all mutable fields of the book row and reports how many
// rows were touched. Zero rows means the book vanished between the caller's
// fetch and the update.
func (r *Repository) Update(book *entities.Book) (int64, error) {
	result := r.db.Model(&entities.Book{}).
		Where("id = ?", book.ID).
		Select("title", "original_title", "author_id", "year_published",
			"genre", "millions_sold", "original_language", "cover_image_path").
		Updates(book)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update book: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Delete removes a book row and reports how many rows were touched.
func (r *Repository) Delete(id uint) (int64, error) {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete book: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ListingRow is one row of the denormalized catalogue listing: the book, its
// author's display name, and the creation/last-change timestamps pulled from
// the change log.
type ListingRow struct {
	BookID           uint           `json:"bookID"`
	Title            string         `json:"bookTitle"`
	OriginalTitle    string         `json:"originalTitle"`
	AuthorID         uint           `json:"authorID"`
	AuthorName       string         `json:"authorName"`
	YearPublished    int            `json:"yearPublished"`
	Genre            entities.Genre `json:"genre"`
	MillionsSold     int            `json:"millionsSold"`
	OriginalLanguage string         `json:"originalLanguage"`
	CoverImagePath   string         `json:"coverImagePath"`
	DateCreated      *time.Time     `json:"dateCreated"`
	DateChanged      *time.Time     `json:"dateChanged"`
}

// List returns the full catalogue listing. The change log is consulted per
// book for the creation row and the most recent change row.
func (r *Repository) List() ([]ListingRow, error) {
	var rows []ListingRow
	err := r.db.Raw(`
		SELECT
			b.id                                  AS book_id,
			b.title                               AS title,
			b.original_title                      AS original_title,
			b.author_id                           AS author_id,
			a.first_name || ' ' || a.last_name    AS author_name,
			b.year_published                      AS year_published,
			b.genre                               AS genre,
			b.millions_sold                       AS millions_sold,
			b.original_language                   AS original_language,
			b.cover_image_path                    AS cover_image_path,
			(SELECT c.created_at FROM changelog c
			 WHERE c.subject_type = ? AND c.subject_id = b.id AND c.created_at IS NOT NULL
			 LIMIT 1)                             AS date_created,
			(SELECT c.changed_at FROM changelog c
			 WHERE c.subject_type = ? AND c.subject_id = b.id AND c.changed_at IS NOT NULL
			 ORDER BY c.changed_at DESC LIMIT 1)  AS date_changed
		FROM books b
		JOIN authors a ON a.id = b.author_id
		ORDER BY b.title ASC`,
		entities.SubjectBook, entities.SubjectBook,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build book listing: %w", err)
	}
	return rows, nil
}
