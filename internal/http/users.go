package http

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/legendarybooks/catalogue/internal/auth"
	"github.com/legendarybooks/catalogue/internal/database/changelog"
	"github.com/legendarybooks/catalogue/internal/database/users"
	"github.com/legendarybooks/catalogue/internal/entities"
)

// userRequest carries the validated account fields shared by add and update.
type userRequest struct {
	FirstName   string `json:"firstName" binding:"required,min=2,max=100"`
	LastName    string `json:"lastName" binding:"required,min=2,max=100"`
	Email       string `json:"email" binding:"required,email,max=100"`
	Username    string `json:"username" binding:"required,alphanum,min=3,max=50"`
	Permissions string `json:"permissions" binding:"required,oneof=normal admin"`
}

type addUserRequest struct {
	userRequest
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type updateUserRequest struct {
	ID uint `json:"userID" binding:"required"`
	userRequest
	// Empty keeps the stored password.
	Password string `json:"password" binding:"omitempty,min=6,max=72"`
}

// UsersController serves the admin-only /api/users endpoints.
type UsersController struct {
	repo       *users.Repository
	changeLog  *changelog.Repository
	bcryptCost int
}

// NewUsersController creates the users controller.
func NewUsersController(repo *users.Repository, changeLog *changelog.Repository, bcryptCost int) *UsersController {
	return &UsersController{
		repo:       repo,
		changeLog:  changeLog,
		bcryptCost: bcryptCost,
	}
}

// GetAll returns every account. Password hashes never serialize.
func (ctrl *UsersController) GetAll(c *gin.Context) {
	list, err := ctrl.repo.GetAll()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	respondSuccess(c, "", list)
}

// GetByID returns a single account.
func (ctrl *UsersController) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "no user found with that id")
			return
		}
		respondInternalError(c, err, "get user")
		return
	}
	respondSuccess(c, "", user)
}

// Search returns accounts matching the input.
func (ctrl *UsersController) Search(c *gin.Context) {
	input, ok := parseSearchInput(c)
	if !ok {
		return
	}

	list, err := ctrl.repo.Search(input)
	if err != nil {
		respondInternalError(c, err, "search users")
		return
	}
	respondSuccess(c, "", list)
}

// Add creates an account with a freshly hashed password.
func (ctrl *UsersController) Add(c *gin.Context) {
	var req addUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password, ctrl.bcryptCost)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user := &entities.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Permissions:  entities.Permissions(req.Permissions),
	}
	if err := ctrl.repo.Create(user); err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			respondBadRequest(c, "username is already taken")
			return
		}
		respondInternalError(c, err, "add user")
		return
	}

	if err := ctrl.changeLog.LogCreated(entities.SubjectUser, user.ID, GetUserID(c)); err != nil {
		log.Printf("WARNING: change log write failed for new user %d: %v", user.ID, err)
	}

	respondSuccess(c, "user added", gin.H{"userID": user.ID})
}

// Update rewrites an account. An empty password keeps the stored hash.
func (ctrl *UsersController) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	existing, err := ctrl.repo.GetByID(req.ID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "no user found with that id")
			return
		}
		respondInternalError(c, err, "update user")
		return
	}

	hash := existing.PasswordHash
	if req.Password != "" {
		hash, err = auth.HashPassword(req.Password, ctrl.bcryptCost)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
	}

	user := &entities.User{
		ID:           req.ID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
		Permissions:  entities.Permissions(req.Permissions),
	}
	if err := ctrl.repo.Update(user); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "no user found with that id")
			return
		}
		respondInternalError(c, err, "update user")
		return
	}

	if err := ctrl.changeLog.LogChanged(entities.SubjectUser, user.ID, GetUserID(c)); err != nil {
		log.Printf("WARNING: change log write failed for user %d: %v", user.ID, err)
	}

	respondSuccess(c, "user updated", nil)
}

// Delete removes an account.
func (ctrl *UsersController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.repo.Delete(id); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			respondNotFound(c, "no user found with that id")
			return
		}
		respondInternalError(c, err, "delete user")
		return
	}
	respondSuccess(c, "user deleted", nil)
}
