package http

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/legendarybooks/catalogue/internal/auth"
	"github.com/legendarybooks/catalogue/internal/entities"
)

// coverPathPattern matches the public path format of stored covers,
// e.g. "cover-images/12.jpg".
var coverPathPattern = regexp.MustCompile(`^cover-images/[0-9]+\.(png|jpg|jpeg)$`)

// registerValidations installs the custom binding rules used by the request
// DTOs: "genre" for the genre vocabulary and "coverpath" for cover paths.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
			return entities.Genre(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("coverpath", func(fl validator.FieldLevel) bool {
			return coverPathPattern.MatchString(fl.Field().String())
		})
	}
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	registerValidations()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	router.Use(cfg.SessionManager.SessionLoadSave())

	// Access gate: everything below is session-checked against the route
	// permission table
	router.Use(cfg.Gate.Handler())

	// Public cover images; the gate only lets digit-named image files
	// through without a session
	router.Static("/cover-images", cfg.CoverStore.Dir())

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Login/logout
	cfg.AuthController.RegisterRoutes(router)

	authorsController := NewAuthorsController(cfg.AuthorsRepo)
	booksController := NewBooksController(cfg.BooksRepo, cfg.BookService)
	usersController := NewUsersController(cfg.UsersRepo, cfg.ChangeLogRepo, cfg.BcryptCost)
	coversController := NewCoversController(cfg.CoverStore)

	api := router.Group("/api")
	{
		api.GET("/authors", authorsController.GetAll)
		api.GET("/authors/:id", authorsController.GetByID)
		api.GET("/authors/search/:input", authorsController.Search)
		api.POST("/authors/add", authorsController.Add)
		api.PATCH("/authors/update", authorsController.Update)
		api.DELETE("/authors/:id", authorsController.Delete)

		api.GET("/books", booksController.GetAll)
		api.GET("/books/list", booksController.List)
		api.GET("/books/:id", booksController.GetByID)
		api.GET("/books/search/:input", booksController.Search)
		api.POST("/books/add", booksController.Add)
		api.PATCH("/books/update", booksController.Update)
		api.DELETE("/books/:id", booksController.Delete)
		api.POST("/books/cover", coversController.Upload)

		api.GET("/users", usersController.GetAll)
		api.GET("/users/:id", usersController.GetByID)
		api.GET("/users/search/:input", usersController.Search)
		api.POST("/users/add", usersController.Add)
		api.PATCH("/users/update", usersController.Update)
		api.DELETE("/users/:id", usersController.Delete)
	}

	return router
}
