package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/audit"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/entities"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/users"
)

// UserStore is the slice of the user repository the controller needs.
type UserStore interface {
	Create(userName, password string) (string, error)
	Get(userUID string) (*entities.User, error)
	UpdateProfile(userUID string, update users.ProfileUpdate) error
	UpdatePassword(userUID, oldPassword, newPassword string) error
}

type UsersController struct {
	store        UserStore
	auditService *audit.Service
}

func NewUsersController(store UserStore, auditService *audit.Service) *UsersController {
	return &UsersController{
		store:        store,
		auditService: auditService,
	}
}

type createUserRequest struct {
	UserName string `json:"user_name"`
	Password string `json:"user_pswd"`
}

type createUserResponse struct {
	Success bool   `json:"success"`
	UserUID string `json:"user_uid,omitempty"`
}

// CreateUser registers a new user.
// POST /api/users
func (controller *UsersController) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	uid, err := controller.store.Create(req.UserName, req.Password)
	controller.auditService.LogUserCreate(uid, err)
	if err != nil {
		respondRepositoryError(c, err, "create user")
		return
	}

	respondCreated(c, createUserResponse{Success: true, UserUID: uid})
}

// GetUser returns a user's profile. The response type carries no hash
// field, so the stored pswd value can never leak here.
// GET /api/users/:uid
func (controller *UsersController) GetUser(c *gin.Context) {
	user, err := controller.store.Get(c.Param("uid"))
	if err != nil {
		respondRepositoryError(c, err, "get user")
		return
	}
	c.IndentedJSON(http.StatusOK, user.Profile())
}

type updateProfileRequest struct {
	AvatarURL *string `json:"avatar_url"`
	Bio       *string `json:"bio"`
}

// UpdateProfile applies a partial profile update.
// PATCH /api/users/:uid/profile
func (controller *UsersController) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	if req.AvatarURL == nil && req.Bio == nil {
		respondBadRequest(c, "no profile fields provided")
		return
	}

	uid := c.Param("uid")
	err := controller.store.UpdateProfile(uid, users.ProfileUpdate{
		AvatarURL: req.AvatarURL,
		Bio:       req.Bio,
	})
	controller.auditService.LogUserUpdate(uid, "profile_update", err)
	if err != nil {
		respondRepositoryError(c, err, "update profile")
		return
	}

	respondSuccess(c, "profile updated")
}

type updatePasswordRequest struct {
	OldPassword string `json:"old_pswd"`
	NewPassword string `json:"new_pswd"`
}

// UpdatePassword changes a user's password after verifying the old one.
// PUT /api/users/:uid/password
func (controller *UsersController) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	uid := c.Param("uid")
	err := controller.store.UpdatePassword(uid, req.OldPassword, req.NewPassword)
	controller.auditService.LogUserUpdate(uid, "password_update", err)
	if err != nil {
		respondRepositoryError(c, err, "update password")
		return
	}

	respondSuccess(c, "password updated")
}
