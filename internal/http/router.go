package http

import (
	"github.com/gin-gonic/gin"

	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/audit"
)

// RouterConfig carries every dependency the router needs, keeping the
// constructor signature stable as endpoints are added.
type RouterConfig struct {
	BookStore    BookStore
	UserStore    UserStore
	AuditService *audit.Service
	StorageRoot  string
	Version      string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	healthController := NewHealthController(cfg.StorageRoot, cfg.Version)
	booksController := NewBooksController(cfg.BookStore, cfg.AuditService)
	usersController := NewUsersController(cfg.UserStore, cfg.AuditService)

	api := router.Group("/api")
	{
		api.GET("/health", healthController.Status)

		api.GET("/books", booksController.GetAllBooks)
		api.POST("/books", booksController.CreateBook)
		api.GET("/books/:id", booksController.GetBook)
		api.GET("/books/:id/cover", booksController.GetCover)
		api.PATCH("/books/:id/progress", booksController.UpdateProgress)
		api.DELETE("/books/:id", booksController.DeleteBook)

		api.POST("/users", usersController.CreateUser)
		api.GET("/users/:uid", usersController.GetUser)
		api.PATCH("/users/:uid/profile", usersController.UpdateProfile)
		api.PUT("/users/:uid/password", usersController.UpdatePassword)
	}

	return router
}
