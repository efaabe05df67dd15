package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/legendarybooks/catalogue/internal/database/books"
	"github.com/legendarybooks/catalogue/internal/entities"
	"github.com/legendarybooks/catalogue/internal/services"
)

// bookRequest carries the validated book fields shared by add and update.
// Genre and coverpath are custom binding rules registered by the router.
type bookRequest struct {
	Title            string `json:"bookTitle" binding:"required,min=1,max=100"`
	OriginalTitle    string `json:"originalTitle" binding:"required,min=1,max=100"`
	AuthorID         uint   `json:"authorID" binding:"required"`
	YearPublished    int    `json:"yearPublished" binding:"required,min=1,max=9999"`
	Genre            string `json:"genre" binding:"required,genre"`
	MillionsSold     int    `json:"millionsSold" binding:"min=0"`
	OriginalLanguage string `json:"originalLanguage" binding:"required,min=2,max=50"`
}

type addBookRequest struct {
	bookRequest
	// A new book must reference an uploaded cover.
	CoverImagePath string `json:"coverImagePath" binding:"required,coverpath"`
}

type updateBookRequest struct {
	ID uint `json:"bookID" binding:"required"`
	bookRequest
	// Empty keeps the stored cover.
	CoverImagePath string `json:"coverImagePath" binding:"omitempty,coverpath"`
}

// BooksController serves the /api/books endpoints.
type BooksController struct {
	repo    *books.Repository
	service *services.BookService
}

// NewBooksController creates the books controller.
func NewBooksController(repo *books.Repository, service *services.BookService) *BooksController {
	return &BooksController{repo: repo, service: service}
}

// GetAll returns every book.
func (ctrl *BooksController) GetAll(c *gin.Context) {
	list, err := ctrl.repo.GetAll()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	if len(list) == 0 {
		respondNotFound(c, "no books found")
		return
	}
	respondSuccess(c, "", list)
}

// GetByID returns a single book.
func (ctrl *BooksController) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ctrl.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "no book found with that id")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	respondSuccess(c, "", book)
}

// List returns the denormalized catalogue listing with author names and
// change log timestamps.
func (ctrl *BooksController) List(c *gin.Context) {
	rows, err := ctrl.repo.List()
	if err != nil {
		respondInternalError(c, err, "book listing")
		return
	}
	respondSuccess(c, "", rows)
}

// Search returns books matching the input.
func (ctrl *BooksController) Search(c *gin.Context) {
	input, ok := parseSearchInput(c)
	if !ok {
		return
	}

	list, err := ctrl.repo.Search(input)
	if err != nil {
		respondInternalError(c, err, "search books")
		return
	}
	respondSuccess(c, "", list)
}

// Add stores a new book and promotes its staged cover.
func (ctrl *BooksController) Add(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book := &entities.Book{
		Title:            req.Title,
		OriginalTitle:    req.OriginalTitle,
		AuthorID:         req.AuthorID,
		YearPublished:    req.YearPublished,
		Genre:            entities.Genre(req.Genre),
		MillionsSold:     req.MillionsSold,
		OriginalLanguage: req.OriginalLanguage,
		CoverImagePath:   req.CoverImagePath,
	}
	result, err := ctrl.service.Add(book, GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "add book")
		return
	}

	message := "book added"
	if result.CoverDegraded {
		message = "book added, but cover image could not be saved"
	}
	respondSuccess(c, message, gin.H{"bookID": book.ID})
}

// Update rewrites an existing book, swapping cover files as needed.
func (ctrl *BooksController) Update(c *gin.Context) {
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	book := &entities.Book{
		ID:               req.ID,
		Title:            req.Title,
		OriginalTitle:    req.OriginalTitle,
		AuthorID:         req.AuthorID,
		YearPublished:    req.YearPublished,
		Genre:            entities.Genre(req.Genre),
		MillionsSold:     req.MillionsSold,
		OriginalLanguage: req.OriginalLanguage,
		CoverImagePath:   req.CoverImagePath,
	}
	result, err := ctrl.service.Update(book, GetUserID(c))
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "no book found with that id")
			return
		}
		respondInternalError(c, err, "update book")
		return
	}

	message := "book updated"
	if result.CoverDegraded {
		message = "book updated, but cover image could not be saved"
	}
	respondSuccess(c, message, nil)
}

// Delete removes a book and its cover file.
func (ctrl *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.service.Delete(id); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "no book found with that id")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}
	respondSuccess(c, "book deleted", nil)
}
