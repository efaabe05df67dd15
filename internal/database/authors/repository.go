// Package authors provides database operations for catalogue authors.
package authors

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/legendarybooks/catalogue/internal/entities"
)

var (
	ErrAuthorNotFound = errors.New("author not found")
	ErrAuthorHasBooks = errors.New("author still has books in the catalogue")
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetAll returns every author ordered by last name.
func (r *Repository) GetAll() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("last_name ASC, first_name ASC").Find(&authors).Error
	return authors, err
}

// GetByID retrieves a single author.
func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.First(&author, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	return &author, nil
}

// Search returns authors whose name or nationality contains the input,
// case-insensitively.
func (r *Repository) Search(input string) ([]entities.Author, error) {
	var authors []entities.Author
	pattern := "%" + input + "%"
	err := r.db.
		Where("LOWER(first_name) LIKE LOWER(?) OR LOWER(last_name) LIKE LOWER(?) OR LOWER(nationality) LIKE LOWER(?)",
			pattern, pattern, pattern).
		Order("last_name ASC, first_name ASC").
		Find(&authors).Error
	return authors, err
}

// Create stores a new author.
func (r *Repository) Create(author *entities.Author) error {
	if err := r.db.Create(author).Error; err != nil {
		return fmt.Errorf("failed to create author: %w", err)
	}
	return nil
}

// Update replaces all mutable fields of the author row.
func (r *Repository) Update(author *entities.Author) error {
	result := r.db.Model(&entities.Author{}).
		Where("id = ?", author.ID).
		Select("first_name", "last_name", "nationality", "birth_year", "death_year").
		Updates(author)
	if result.Error != nil {
		return fmt.Errorf("failed to update author: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAuthorNotFound
	}
	return nil
}

// Delete removes an author. Authors that still have books in the catalogue
// cannot be deleted.
func (r *Repository) Delete(id uint) error {
	var bookCount int64
	if err := r.db.Model(&entities.Book{}).Where("author_id = ?", id).Count(&bookCount).Error; err != nil {
		return fmt.Errorf("failed to count author books: %w", err)
	}
	if bookCount > 0 {
		return ErrAuthorHasBooks
	}

	result := r.db.Delete(&entities.Author{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete author: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAuthorNotFound
	}
	return nil
}
