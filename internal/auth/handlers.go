package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// loginRequest is the credential payload for POST /api/users/login.
type loginRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,max=72"`
}

// Controller serves the login and logout endpoints.
type Controller struct {
	service  *Service
	sessions *SessionManager
	limiter  *RateLimiter
}

// NewController creates the auth controller.
func NewController(service *Service, sessions *SessionManager, limiter *RateLimiter) *Controller {
	return &Controller{
		service:  service,
		sessions: sessions,
		limiter:  limiter,
	}
}

// Login authenticates credentials and establishes a session.
// Failures are answered with a deliberately generic message so the endpoint
// does not reveal which accounts exist.
func (ctrl *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "failed",
			"message": "username and password are required",
		})
		return
	}

	ip := c.ClientIP()
	if allowed, retryAfter := ctrl.limiter.Allow(ip, req.Username); !allowed {
		c.Header("Retry-After", retryAfter.String())
		c.JSON(http.StatusTooManyRequests, gin.H{
			"status":  "failed",
			"message": "too many login attempts, try again later",
		})
		return
	}

	user, err := ctrl.service.Authenticate(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountLocked):
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "failed",
				"message": "account is temporarily locked, try again later",
			})
		case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrInvalidPassword):
			ctrl.limiter.RecordFailure(ip, req.Username)
			c.JSON(http.StatusBadRequest, gin.H{
				"status":  "failed",
				"message": "The username or password are incorrect",
			})
		default:
			log.Printf("Internal error (login): %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "internal server error",
			})
		}
		return
	}

	ctrl.limiter.RecordSuccess(ip, req.Username)

	if err := ctrl.sessions.CreateSession(c.Request, user); err != nil {
		log.Printf("Internal error (create session): %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "login successful",
		"data": gin.H{
			"userID":      user.ID,
			"username":    user.Username,
			"permissions": user.Permissions,
		},
	})
}

// Logout destroys the current session. Logging out without a session is
// still a success.
func (ctrl *Controller) Logout(c *gin.Context) {
	if err := ctrl.sessions.DestroySession(c.Request); err != nil {
		log.Printf("Internal error (destroy session): %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "logout successful",
	})
}

// RegisterRoutes attaches the auth endpoints to the router.
func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/users/login", ctrl.Login)
	router.POST("/api/users/logout", ctrl.Logout)
}
