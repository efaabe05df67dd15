package auth

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/legendarybooks/catalogue/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUserID      = "auth_user_id"
	ContextKeyUsername    = "auth_username"
	ContextKeyPermissions = "auth_permissions"
)

// RoutePermission declares the permission level a path prefix requires.
// The gate consults this table before anything else, so protected prefixes
// cannot be forgotten on individual routes.
type RoutePermission struct {
	Prefix   string
	Required entities.Permissions
}

// coverImagePattern matches the public cover image files: digit-named
// png/jpg/jpeg under /cover-images/.
var coverImagePattern = regexp.MustCompile(`^/cover-images/[0-9]+\.(png|jpg|jpeg)$`)

// Gate authenticates every request against the session and enforces the
// route permission table.
type Gate struct {
	sessions    *SessionManager
	permissions []RoutePermission
	publicPaths map[string]bool
}

// NewGate creates the access gate middleware.
func NewGate(sessions *SessionManager) *Gate {
	return &Gate{
		sessions: sessions,
		permissions: []RoutePermission{
			{Prefix: "/api/users", Required: entities.PermissionsAdmin},
		},
		publicPaths: map[string]bool{
			"/":                 true,
			"/login":            true,
			"/health":           true,
			"/ping":             true,
			"/favicon.ico":      true,
			"/api/users/login":  true,
			"/api/users/logout": true,
		},
	}
}

// Handler returns the Gin middleware enforcing the gate.
func (g *Gate) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		// The exact public paths come first so that login/logout stay
		// reachable despite living under a protected prefix.
		if g.isPublicPath(path) {
			c.Next()
			return
		}

		userID := g.sessions.GetUserID(c.Request)
		authenticated := userID != 0

		if required, ok := g.requiredPermission(path); ok {
			if !authenticated {
				g.rejectUnauthenticated(c)
				return
			}
			if g.sessions.GetPermissions(c.Request) != required {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"status":  "failed",
					"message": "you do not have permission to access this resource",
				})
				return
			}
			g.setUserContext(c)
			c.Next()
			return
		}

		if authenticated {
			g.setUserContext(c)
			c.Next()
			return
		}

		g.rejectUnauthenticated(c)
	}
}

// rejectUnauthenticated answers a request that carries no valid session:
// JSON for API clients, a redirect to the login page for everything else.
func (g *Gate) rejectUnauthenticated(c *gin.Context) {
	if g.isAPIRequest(c) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"status":  "failed",
			"message": "authentication required",
		})
		return
	}
	c.Redirect(http.StatusFound, "/login?next="+c.Request.URL.Path)
	c.Abort()
}

// setUserContext stores session identity in the Gin context for handlers.
func (g *Gate) setUserContext(c *gin.Context) {
	c.Set(ContextKeyUserID, g.sessions.GetUserID(c.Request))
	c.Set(ContextKeyUsername, g.sessions.GetUsername(c.Request))
	c.Set(ContextKeyPermissions, g.sessions.GetPermissions(c.Request))
}

// requiredPermission looks the path up in the permission table.
func (g *Gate) requiredPermission(path string) (entities.Permissions, bool) {
	for _, rp := range g.permissions {
		if strings.HasPrefix(path, rp.Prefix) {
			return rp.Required, true
		}
	}
	return "", false
}

// isPublicPath checks if a path is accessible without authentication.
func (g *Gate) isPublicPath(path string) bool {
	if g.publicPaths[path] {
		return true
	}
	return coverImagePattern.MatchString(path)
}

// isAPIRequest determines if this is an API request vs web browser request.
func (g *Gate) isAPIRequest(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// Helper functions to extract auth data from the Gin context

// GetUserID retrieves the authenticated user's ID from the context.
// Returns 0 if not authenticated.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetUsername retrieves the authenticated user's username from the context.
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}

// GetPermissions retrieves the authenticated user's permission level.
func GetPermissions(c *gin.Context) entities.Permissions {
	if p, exists := c.Get(ContextKeyPermissions); exists {
		if perms, ok := p.(entities.Permissions); ok {
			return perms
		}
	}
	return ""
}
