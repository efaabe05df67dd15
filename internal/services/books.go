// Package services implements the multi-step book workflows that touch the
// database row, the cover image file and the change log together.
package services

import (
	"fmt"
	"log"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/legendarybooks/catalogue/internal/covers"
	"github.com/legendarybooks/catalogue/internal/database/books"
	"github.com/legendarybooks/catalogue/internal/database/changelog"
	"github.com/legendarybooks/catalogue/internal/entities"
)

// BookResult reports the outcome of an add or update workflow.
// CoverDegraded is set when the row was written but the staged cover image
// could not be moved into place; callers answer with a degraded success.
type BookResult struct {
	CoverDegraded bool
}

// BookService runs the book add/update/delete workflows.
type BookService struct {
	db     *gorm.DB
	books  *books.Repository
	covers *covers.Store
	log    *changelog.Repository
}

// NewBookService creates the book workflow service.
func NewBookService(db *gorm.DB, booksRepo *books.Repository, coverStore *covers.Store, changeLog *changelog.Repository) *BookService {
	return &BookService{
		db:     db,
		books:  booksRepo,
		covers: coverStore,
		log:    changeLog,
	}
}

// Add stores a new book, writes its creation row to the change log and
// promotes a staged cover upload if the book references one.
//
// The change log write and the cover promotion are non-fatal: the book row
// is the source of truth and is never rolled back for either.
func (s *BookService) Add(book *entities.Book, actingUserID uint) (*BookResult, error) {
	if err := s.books.Create(book); err != nil {
		return nil, err
	}

	if err := s.log.LogCreated(entities.SubjectBook, book.ID, actingUserID); err != nil {
		log.Printf("WARNING: change log write failed for new book %d: %v", book.ID, err)
	}

	result := &BookResult{}
	if book.CoverImagePath != "" {
		if err := s.covers.Promote(filepath.Base(book.CoverImagePath)); err != nil {
			log.Printf("WARNING: cover promotion failed for new book %d: %v", book.ID, err)
			result.CoverDegraded = true
		}
	}
	return result, nil
}

// Update rewrites a book row inside a transaction. The current row is
// fetched first so a vanished book aborts before anything is mutated, and
// the cover transition is resolved against the stored state:
//
//   - no new cover path: the stored path is re-asserted unchanged
//   - new path differing from the stored one: the old file is deleted
//     before the row is written (a missing old file is a no-op)
//
// After commit, one change row is logged and the staged upload is promoted;
// a failed promotion turns the response into a degraded success rather than
// an error, since the row is already committed.
func (s *BookService) Update(book *entities.Book, actingUserID uint) (*BookResult, error) {
	requestedCover := book.CoverImagePath

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.books.WithTx(tx)

		current, err := repo.GetByID(book.ID)
		if err != nil {
			return err
		}

		if requestedCover == "" {
			book.CoverImagePath = current.CoverImagePath
		} else if current.CoverImagePath != "" && current.CoverImagePath != requestedCover {
			if err := s.covers.Delete(filepath.Base(current.CoverImagePath)); err != nil {
				return fmt.Errorf("remove old cover: %w", err)
			}
		}

		rows, err := repo.Update(book)
		if err != nil {
			return err
		}
		if rows == 0 {
			return books.ErrBookNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.log.LogChanged(entities.SubjectBook, book.ID, actingUserID); err != nil {
		log.Printf("WARNING: change log write failed for book %d: %v", book.ID, err)
	}

	result := &BookResult{}
	if requestedCover != "" {
		if err := s.covers.Promote(filepath.Base(requestedCover)); err != nil {
			log.Printf("WARNING: cover promotion failed for book %d: %v", book.ID, err)
			result.CoverDegraded = true
		}
	}
	return result, nil
}

// Delete removes a book and its cover file. The file goes first; if the row
// then turns out to be gone the caller still gets ErrBookNotFound, and the
// file is never restored.
func (s *BookService) Delete(id uint) error {
	current, err := s.books.GetByID(id)
	if err != nil {
		return err
	}

	if current.CoverImagePath != "" {
		if err := s.covers.Delete(filepath.Base(current.CoverImagePath)); err != nil {
			return err
		}
	}

	rows, err := s.books.Delete(id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return books.ErrBookNotFound
	}
	return nil
}
