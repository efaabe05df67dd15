package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"

	"github.com/legendarybooks/catalogue/internal/entities"
)

// newGateRouter builds a router with the session middleware, two login
// helper endpoints and the access gate, backed by an in-memory session store.
func newGateRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sm := &SessionManager{SessionManager: scs.New()}
	gate := NewGate(sm)

	router := gin.New()
	router.Use(sm.SessionLoadSave())

	// Session bootstrap endpoints, registered before the gate so the tests
	// can obtain cookies without a full login flow.
	router.POST("/test/session/normal", func(c *gin.Context) {
		user := &entities.User{ID: 1, Username: "reader", Permissions: entities.PermissionsNormal}
		if err := sm.CreateSession(c.Request, user); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})
	router.POST("/test/session/admin", func(c *gin.Context) {
		user := &entities.User{ID: 2, Username: "root", Permissions: entities.PermissionsAdmin}
		if err := sm.CreateSession(c.Request, user); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	router.Use(gate.Handler())

	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	router.GET("/health", ok)
	router.GET("/api/books", ok)
	router.GET("/api/users", ok)
	router.POST("/api/users/login", ok)
	router.GET("/cover-images/:file", ok)
	router.GET("/catalogue", ok)

	return router
}

func sessionCookie(t *testing.T, router *gin.Engine, path string) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("session bootstrap failed: status %d", w.Code)
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "session" {
			return cookie
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestGate_PublicPathsNeedNoSession(t *testing.T) {
	router := newGateRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for public path, got %d", w.Code)
	}
}

func TestGate_LoginEndpointIsPublic(t *testing.T) {
	router := newGateRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/users/login", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for login endpoint, got %d", w.Code)
	}
}

func TestGate_CoverImagesArePublic(t *testing.T) {
	router := newGateRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cover-images/12.jpg", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for digit-named cover image, got %d", w.Code)
	}
}

func TestGate_NonImageCoverPathIsNotPublic(t *testing.T) {
	router := newGateRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cover-images/evil.sh", nil))

	if w.Code != http.StatusFound {
		t.Errorf("expected 302 redirect for non-image cover path, got %d", w.Code)
	}
}

func TestGate_APIRequestWithoutSessionGets401(t *testing.T) {
	router := newGateRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated API request, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"failed"`) {
		t.Errorf("expected envelope body, got %s", w.Body.String())
	}
}

func TestGate_PageRequestWithoutSessionRedirects(t *testing.T) {
	router := newGateRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalogue", nil))

	if w.Code != http.StatusFound {
		t.Errorf("expected 302 for unauthenticated page request, got %d", w.Code)
	}
	location := w.Header().Get("Location")
	if !strings.HasPrefix(location, "/login") {
		t.Errorf("expected redirect to /login, got %s", location)
	}
}

func TestGate_SessionGrantsAccess(t *testing.T) {
	router := newGateRouter(t)
	cookie := sessionCookie(t, router, "/test/session/normal")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.AddCookie(cookie)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for authenticated request, got %d", w.Code)
	}
}

func TestGate_AdminRouteRejectsNormalUser(t *testing.T) {
	router := newGateRouter(t)
	cookie := sessionCookie(t, router, "/test/session/normal")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.AddCookie(cookie)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for non-admin on admin route, got %d", w.Code)
	}
}

func TestGate_AdminRouteAllowsAdmin(t *testing.T) {
	router := newGateRouter(t)
	cookie := sessionCookie(t, router, "/test/session/admin")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.AddCookie(cookie)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for admin on admin route, got %d", w.Code)
	}
}

func TestGate_AdminRouteWithoutSessionGets401(t *testing.T) {
	router := newGateRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated admin route request, got %d", w.Code)
	}
}
