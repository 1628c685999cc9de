package http

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/audit"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/books"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/entities"
)

const (
	maxCoverFileSize = 5 * 1024 * 1024 // 5 MB
)

// BookStore is the slice of the book repository the controller needs.
type BookStore interface {
	Create(bookID, name, ownerUID string) error
	CreateWithUpload(req books.CreateRequest) (string, error)
	Delete(bookID, ownerUID, password string) error
	Get(bookID string) (*entities.Book, error)
	List() ([]entities.Book, error)
	UpdateProgress(bookID string, update books.ProgressUpdate) error
	CoverFile(bookID string) (string, error)
}

type BooksController struct {
	store        BookStore
	auditService *audit.Service
}

func NewBooksController(store BookStore, auditService *audit.Service) *BooksController {
	return &BooksController{
		store:        store,
		auditService: auditService,
	}
}

// GetAllBooks lists every book in the library.
// GET /api/books
func (controller *BooksController) GetAllBooks(c *gin.Context) {
	list, err := controller.store.List()
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}
	c.IndentedJSON(http.StatusOK, gin.H{"books": list, "count": len(list)})
}

// GetBook returns a single book's metadata.
// GET /api/books/:id
func (controller *BooksController) GetBook(c *gin.Context) {
	book, err := controller.store.Get(c.Param("id"))
	if err != nil {
		respondRepositoryError(c, err, "get book")
		return
	}
	c.IndentedJSON(http.StatusOK, book)
}

// GetCover serves a book's stored cover image.
// GET /api/books/:id/cover
func (controller *BooksController) GetCover(c *gin.Context) {
	path, err := controller.store.CoverFile(c.Param("id"))
	if err != nil {
		respondRepositoryError(c, err, "get cover")
		return
	}
	c.File(path)
}

type createBookRequest struct {
	BookName string `json:"book_name"`
	UserUID  string `json:"user_uid"`
}

type createBookResponse struct {
	Success bool   `json:"success"`
	BookID  string `json:"book_id,omitempty"`
}

// CreateBook creates a book. A multipart form is treated as the richer
// creation path (author, category, optional cover upload); a JSON body is
// the basic one.
// POST /api/books
func (controller *BooksController) CreateBook(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		controller.createWithUpload(c)
		return
	}

	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	bookID := uuid.NewString()
	err := controller.store.Create(bookID, req.BookName, req.UserUID)
	controller.auditService.LogBookCreate(bookID, req.UserUID, err)
	if err != nil {
		respondRepositoryError(c, err, "create book")
		return
	}

	respondCreated(c, createBookResponse{Success: true, BookID: bookID})
}

func (controller *BooksController) createWithUpload(c *gin.Context) {
	req := books.CreateRequest{
		Name:     c.PostForm("name"),
		Author:   c.PostForm("author"),
		Category: c.PostForm("category"),
		OwnerUID: c.PostForm("user_uid"),
	}

	file, header, err := c.Request.FormFile("cover")
	if err == nil {
		defer file.Close()

		if header.Size > maxCoverFileSize {
			respondError(c, http.StatusRequestEntityTooLarge, "cover image too large")
			return
		}

		data, err := io.ReadAll(io.LimitReader(file, maxCoverFileSize+1))
		if err != nil {
			respondInternalError(c, err, "read cover upload")
			return
		}
		req.Cover = data
		req.CoverFilename = header.Filename
	}

	bookID, err := controller.store.CreateWithUpload(req)
	controller.auditService.LogBookCreate(bookID, req.OwnerUID, err)
	if err != nil {
		respondRepositoryError(c, err, "create book with upload")
		return
	}

	respondCreated(c, createBookResponse{Success: true, BookID: bookID})
}

type deleteBookRequest struct {
	UserUID  string `json:"user_uid"`
	Password string `json:"pswd"`
}

// DeleteBook removes a book after re-verifying the owner's password.
// DELETE /api/books/:id
func (controller *BooksController) DeleteBook(c *gin.Context) {
	var req deleteBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}

	bookID := c.Param("id")
	err := controller.store.Delete(bookID, req.UserUID, req.Password)
	controller.auditService.LogBookDelete(bookID, req.UserUID, err)
	if err != nil {
		respondRepositoryError(c, err, "delete book")
		return
	}

	respondSuccess(c, "book deleted")
}

type updateProgressRequest struct {
	Progress     *float64 `json:"progress"`
	ChaptersRead *int     `json:"chaptersRead"`
}

// UpdateProgress updates a book's reading progress.
// PATCH /api/books/:id/progress
func (controller *BooksController) UpdateProgress(c *gin.Context) {
	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid JSON body")
		return
	}
	if req.Progress == nil && req.ChaptersRead == nil {
		respondBadRequest(c, "no progress fields provided")
		return
	}

	err := controller.store.UpdateProgress(c.Param("id"), books.ProgressUpdate{
		Progress:     req.Progress,
		ChaptersRead: req.ChaptersRead,
	})
	if err != nil {
		respondRepositoryError(c, err, "update progress")
		return
	}

	respondSuccess(c, "progress updated")
}
