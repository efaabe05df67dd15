package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legendarybooks/catalogue/internal/database"
	"github.com/legendarybooks/catalogue/internal/database/authors"
	"github.com/legendarybooks/catalogue/internal/database/books"
	"github.com/legendarybooks/catalogue/internal/entities"
)

func setupAuthorsTest(t *testing.T) (*gin.Engine, *database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_authors_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	controller := NewAuthorsController(authors.NewRepository(db.DB))

	router := gin.New()
	router.GET("/api/authors", controller.GetAll)
	router.GET("/api/authors/:id", controller.GetByID)
	router.GET("/api/authors/search/:input", controller.Search)
	router.POST("/api/authors/add", controller.Add)
	router.PATCH("/api/authors/update", controller.Update)
	router.DELETE("/api/authors/:id", controller.Delete)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, db, cleanup
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestAuthorsController_Add(t *testing.T) {
	t.Run("stores a valid author", func(t *testing.T) {
		router, db, cleanup := setupAuthorsTest(t)
		defer cleanup()

		w := performJSON(t, router, "POST", "/api/authors/add", gin.H{
			"firstName":   "Gabriel",
			"lastName":    "Marquez",
			"nationality": "Colombian",
			"birthYear":   1927,
			"deathYear":   2014,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, StatusSuccess, resp.Status)
		assert.Equal(t, "author added", resp.Message)

		var count int64
		db.DB.Model(&entities.Author{}).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects a too short first name", func(t *testing.T) {
		router, _, cleanup := setupAuthorsTest(t)
		defer cleanup()

		w := performJSON(t, router, "POST", "/api/authors/add", gin.H{
			"firstName":   "G",
			"lastName":    "Marquez",
			"nationality": "Colombian",
			"birthYear":   1927,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, StatusFailed, resp.Status)
	})

	t.Run("rejects a missing birth year", func(t *testing.T) {
		router, _, cleanup := setupAuthorsTest(t)
		defer cleanup()

		w := performJSON(t, router, "POST", "/api/authors/add", gin.H{
			"firstName":   "Gabriel",
			"lastName":    "Marquez",
			"nationality": "Colombian",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthorsController_GetByID(t *testing.T) {
	t.Run("returns 404 for an unknown author", func(t *testing.T) {
		router, _, cleanup := setupAuthorsTest(t)
		defer cleanup()

		w := performJSON(t, router, "GET", "/api/authors/99", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, StatusFailed, resp.Status)
		assert.Equal(t, "no author found with that id", resp.Message)
	})

	t.Run("returns 400 for a non numeric id", func(t *testing.T) {
		router, _, cleanup := setupAuthorsTest(t)
		defer cleanup()

		w := performJSON(t, router, "GET", "/api/authors/abc", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns the stored author", func(t *testing.T) {
		router, db, cleanup := setupAuthorsTest(t)
		defer cleanup()

		author := entities.Author{FirstName: "Jane", LastName: "Austen", Nationality: "English", BirthYear: 1775}
		require.NoError(t, db.DB.Create(&author).Error)

		w := performJSON(t, router, "GET", "/api/authors/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Austen")
	})
}

func TestAuthorsController_Update(t *testing.T) {
	t.Run("rewrites an existing author", func(t *testing.T) {
		router, db, cleanup := setupAuthorsTest(t)
		defer cleanup()

		author := entities.Author{FirstName: "Jane", LastName: "Austen", Nationality: "English", BirthYear: 1775}
		require.NoError(t, db.DB.Create(&author).Error)

		w := performJSON(t, router, "PATCH", "/api/authors/update", gin.H{
			"authorID":    author.ID,
			"firstName":   "Jane",
			"lastName":    "Austen",
			"nationality": "British",
			"birthYear":   1775,
			"deathYear":   1817,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "author updated", resp.Message)

		var stored entities.Author
		require.NoError(t, db.DB.First(&stored, author.ID).Error)
		assert.Equal(t, "British", stored.Nationality)
		require.NotNil(t, stored.DeathYear)
		assert.Equal(t, 1817, *stored.DeathYear)
	})

	t.Run("returns 404 for an unknown author", func(t *testing.T) {
		router, _, cleanup := setupAuthorsTest(t)
		defer cleanup()

		w := performJSON(t, router, "PATCH", "/api/authors/update", gin.H{
			"authorID":    42,
			"firstName":   "Jane",
			"lastName":    "Austen",
			"nationality": "English",
			"birthYear":   1775,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuthorsController_Delete(t *testing.T) {
	t.Run("refuses to delete an author with books", func(t *testing.T) {
		router, db, cleanup := setupAuthorsTest(t)
		defer cleanup()

		author := entities.Author{FirstName: "Jane", LastName: "Austen", Nationality: "English", BirthYear: 1775}
		require.NoError(t, db.DB.Create(&author).Error)

		booksRepo := books.NewRepository(db.DB)
		require.NoError(t, booksRepo.Create(&entities.Book{
			Title:            "Persuasion",
			OriginalTitle:    "Persuasion",
			AuthorID:         author.ID,
			YearPublished:    1817,
			Genre:            entities.GenreNovel,
			OriginalLanguage: "English",
		}))

		w := performJSON(t, router, "DELETE", "/api/authors/1", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "author still has books in the catalogue", resp.Message)
	})

	t.Run("deletes an author without books", func(t *testing.T) {
		router, db, cleanup := setupAuthorsTest(t)
		defer cleanup()

		author := entities.Author{FirstName: "Jane", LastName: "Austen", Nationality: "English", BirthYear: 1775}
		require.NoError(t, db.DB.Create(&author).Error)

		w := performJSON(t, router, "DELETE", "/api/authors/1", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var count int64
		db.DB.Model(&entities.Author{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("returns 404 for an unknown author", func(t *testing.T) {
		router, _, cleanup := setupAuthorsTest(t)
		defer cleanup()

		w := performJSON(t, router, "DELETE", "/api/authors/7", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuthorsController_Search(t *testing.T) {
	t.Run("matches on nationality", func(t *testing.T) {
		router, db, cleanup := setupAuthorsTest(t)
		defer cleanup()

		require.NoError(t, db.DB.Create(&entities.Author{FirstName: "Jane", LastName: "Austen", Nationality: "English", BirthYear: 1775}).Error)
		require.NoError(t, db.DB.Create(&entities.Author{FirstName: "Jules", LastName: "Verne", Nationality: "French", BirthYear: 1828}).Error)

		w := performJSON(t, router, "GET", "/api/authors/search/french", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Verne")
		assert.NotContains(t, w.Body.String(), "Austen")
	})

	t.Run("rejects search input with forbidden characters", func(t *testing.T) {
		router, _, cleanup := setupAuthorsTest(t)
		defer cleanup()

		w := performJSON(t, router, "GET", "/api/authors/search/%3Bdrop", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, "invalid search input", resp.Message)
	})
}
