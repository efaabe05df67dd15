package http

import (
	"github.com/legendarybooks/catalogue/internal/auth"
	"github.com/legendarybooks/catalogue/internal/covers"
	"github.com/legendarybooks/catalogue/internal/database"
	"github.com/legendarybooks/catalogue/internal/database/authors"
	"github.com/legendarybooks/catalogue/internal/database/books"
	"github.com/legendarybooks/catalogue/internal/database/changelog"
	"github.com/legendarybooks/catalogue/internal/database/users"
	"github.com/legendarybooks/catalogue/internal/services"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Database      *database.Database
	AuthorsRepo   *authors.Repository
	BooksRepo     *books.Repository
	UsersRepo     *users.Repository
	ChangeLogRepo *changelog.Repository
	BookService   *services.BookService
	CoverStore    *covers.Store

	// Authentication
	AuthController *auth.Controller
	SessionManager *auth.SessionManager
	Gate           *auth.Gate
	CSRFSecret     []byte
	SecureCookies  bool
	BcryptCost     int

	// Application info
	Version string
}
