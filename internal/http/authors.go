package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/legendarybooks/catalogue/internal/database/authors"
	"github.com/legendarybooks/catalogue/internal/entities"
)

// authorRequest carries the validated author fields shared by add and update.
type authorRequest struct {
	FirstName   string `json:"firstName" binding:"required,min=2,max=100"`
	LastName    string `json:"lastName" binding:"required,min=2,max=100"`
	Nationality string `json:"nationality" binding:"required,min=2,max=100"`
	BirthYear   int    `json:"birthYear" binding:"required,min=1,max=9999"`
	DeathYear   *int   `json:"deathYear" binding:"omitempty,min=1,max=9999"`
}

type updateAuthorRequest struct {
	ID uint `json:"authorID" binding:"required"`
	authorRequest
}

// AuthorsController serves the /api/authors endpoints.
type AuthorsController struct {
	repo *authors.Repository
}

// NewAuthorsController creates the authors controller.
func NewAuthorsController(repo *authors.Repository) *AuthorsController {
	return &AuthorsController{repo: repo}
}

// GetAll returns every author.
func (ctrl *AuthorsController) GetAll(c *gin.Context) {
	list, err := ctrl.repo.GetAll()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	respondSuccess(c, "", list)
}

// GetByID returns a single author.
func (ctrl *AuthorsController) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	author, err := ctrl.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, authors.ErrAuthorNotFound) {
			respondNotFound(c, "no author found with that id")
			return
		}
		respondInternalError(c, err, "get author")
		return
	}
	respondSuccess(c, "", author)
}

// Search returns authors matching the input.
func (ctrl *AuthorsController) Search(c *gin.Context) {
	input, ok := parseSearchInput(c)
	if !ok {
		return
	}

	list, err := ctrl.repo.Search(input)
	if err != nil {
		respondInternalError(c, err, "search authors")
		return
	}
	respondSuccess(c, "", list)
}

// Add stores a new author.
func (ctrl *AuthorsController) Add(c *gin.Context) {
	var req authorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	author := &entities.Author{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Nationality: req.Nationality,
		BirthYear:   req.BirthYear,
		DeathYear:   req.DeathYear,
	}
	if err := ctrl.repo.Create(author); err != nil {
		respondInternalError(c, err, "add author")
		return
	}
	respondSuccess(c, "author added", gin.H{"authorID": author.ID})
}

// Update rewrites an existing author.
func (ctrl *AuthorsController) Update(c *gin.Context) {
	var req updateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	author := &entities.Author{
		ID:          req.ID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Nationality: req.Nationality,
		BirthYear:   req.BirthYear,
		DeathYear:   req.DeathYear,
	}
	if err := ctrl.repo.Update(author); err != nil {
		if errors.Is(err, authors.ErrAuthorNotFound) {
			respondNotFound(c, "no author found with that id")
			return
		}
		respondInternalError(c, err, "update author")
		return
	}
	respondSuccess(c, "author updated", nil)
}

// Delete removes an author without books.
func (ctrl *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.repo.Delete(id); err != nil {
		switch {
		case errors.Is(err, authors.ErrAuthorNotFound):
			respondNotFound(c, "no author found with that id")
		case errors.Is(err, authors.ErrAuthorHasBooks):
			respondBadRequest(c, "author still has books in the catalogue")
		default:
			respondInternalError(c, err, "delete author")
		}
		return
	}
	respondSuccess(c, "author deleted", nil)
}
