package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/auth"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/books"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/users"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondRepositoryError maps a repository error to its transport status.
// Anything outside the known taxonomy is treated as a storage failure:
// logged in full, surfaced as an opaque 500.
func respondRepositoryError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, users.ErrUserNotFound),
		errors.Is(err, books.ErrBookNotFound),
		errors.Is(err, books.ErrCoverNotFound),
		errors.Is(err, books.ErrOwnerNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, users.ErrDuplicateUsername):
		respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, users.ErrUsernameRequired),
		errors.Is(err, users.ErrPasswordRequired),
		errors.Is(err, books.ErrNameRequired),
		errors.Is(err, books.ErrAuthorRequired),
		errors.Is(err, books.ErrOwnerRequired),
		errors.Is(err, auth.ErrPasswordTooLong):
		respondBadRequest(c, err.Error())
	case errors.Is(err, books.ErrUnsupportedCover):
		respondError(c, http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, books.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidPassword):
		respondError(c, http.StatusUnauthorized, "password verification failed")
	default:
		respondInternalError(c, err, context)
	}
}
