package http

import (
	"log"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/legendarybooks/catalogue/internal/auth"
)

// Response statuses used across every endpoint.
const (
	StatusSuccess = "success" // the operation completed
	StatusFailed  = "failed"  // the request was rejected (validation, not found)
	StatusError   = "error"   // something broke server-side
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// GetUserID extracts the authenticated user's ID from the Gin context.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}

// --- Response Helpers ---

// respondSuccess sends a 200 OK envelope.
func respondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Status: StatusSuccess, Message: message, Data: data})
}

// respondBadRequest sends a 400 Bad Request envelope.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Status: StatusFailed, Message: message})
}

// respondNotFound sends a 404 Not Found envelope.
func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{Status: StatusFailed, Message: message})
}

// respondInternalError logs the error and sends a 500 envelope.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, Response{Status: StatusError, Message: "internal server error"})
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with a 400 and returns false on bad input.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// searchInputPattern limits search input to names, titles and the
// punctuation that occurs in them.
var searchInputPattern = regexp.MustCompile(`^[a-zA-Z0-9 ',.\-]{1,100}$`)

// parseSearchInput validates the :input path parameter of the search
// endpoints. Responds with a 400 and returns false on bad input.
func parseSearchInput(c *gin.Context) (string, bool) {
	input := c.Param("input")
	if !searchInputPattern.MatchString(input) {
		respondBadRequest(c, "invalid search input")
		return "", false
	}
	return input, true
}
