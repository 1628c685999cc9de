// Package books implements the file-backed book repository. Each book
// owns one directory under books/ holding its info.json metadata document
// and, optionally, a cover image next to it.
package books

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/entities"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/storage"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrCoverNotFound    = errors.New("book has no cover")
	ErrOwnerNotFound    = errors.New("owner does not exist")
	ErrUnauthorized     = errors.New("password verification failed")
	ErrNameRequired     = errors.New("book name is required")
	ErrAuthorRequired   = errors.New("author is required")
	ErrOwnerRequired    = errors.New("owner uid is required")
	ErrUnsupportedCover = errors.New("unsupported cover image type")
)

// allowedCoverExts are the accepted cover file extensions, matched
// case-insensitively and without the leading dot.
var allowedCoverExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
}

// UserStore is the slice of the user repository the book repository
// needs: owner resolution at creation and password re-verification for
// deletion.
type UserStore interface {
	Get(userUID string) (*entities.User, error)
	VerifyPassword(userUID, password string) bool
}

// Repository provides create/read/delete operations over book documents.
type Repository struct {
	paths storage.Paths
	locks *storage.KeyedMutex
	users UserStore
}

func NewRepository(paths storage.Paths, locks *storage.KeyedMutex, users UserStore) *Repository {
	return &Repository{
		paths: paths,
		locks: locks,
		users: users,
	}
}

// Create writes a book directory and metadata document bound to an
// existing owner. Directory creation is idempotent; the metadata document
// is written only after the directory exists, so a failed mkdir leaves no
// partial record behind.
func (r *Repository) Create(bookID, name, ownerUID string) error {
	if name == "" {
		return ErrNameRequired
	}
	if ownerUID == "" {
		return ErrOwnerRequired
	}

	owner, err := r.users.Get(ownerUID)
	if err != nil {
		return ErrOwnerNotFound
	}

	r.locks.Lock("book:" + bookID)
	defer r.locks.Unlock("book:" + bookID)

	if err := os.MkdirAll(r.paths.BookDir(bookID), 0755); err != nil {
		return fmt.Errorf("create book directory: %w", err)
	}

	book := entities.Book{
		BookID:    bookID,
		Name:      name,
		OwnerUID:  ownerUID,
		OwnerName: owner.UserName,
		CreatedAt: time.Now().Format(time.RFC3339),
	}
	if err := storage.Store(r.paths.BookInfoPath(bookID), book); err != nil {
		return fmt.Errorf("write book metadata: %w", err)
	}

	log.Printf("Created book %q (id %s) for owner %s", name, bookID, owner.UserName)
	return nil
}

// CreateRequest carries the fields of the richer creation path. Cover is
// optional; when present, CoverFilename supplies the original filename
// whose extension decides the stored cover name.
type CreateRequest struct {
	Name          string
	Author        string
	Category      string
	OwnerUID      string
	Cover         []byte
	CoverFilename string
}

// CreateWithUpload creates a book with author/category metadata and an
// optional cover image, returning the generated book ID. Cover validation
// happens before any directory is created, so a rejected upload leaves
// nothing on disk.
func (r *Repository) CreateWithUpload(req CreateRequest) (string, error) {
	if req.Name == "" {
		return "", ErrNameRequired
	}
	if req.Author == "" {
		return "", ErrAuthorRequired
	}
	if req.OwnerUID == "" {
		return "", ErrOwnerRequired
	}

	var coverExt string
	if len(req.Cover) > 0 {
		coverExt = strings.ToLower(strings.TrimPrefix(filepath.Ext(req.CoverFilename), "."))
		if !allowedCoverExts[coverExt] {
			return "", ErrUnsupportedCover
		}
	}

	owner, err := r.users.Get(req.OwnerUID)
	if err != nil {
		return "", ErrOwnerNotFound
	}

	category := req.Category
	if category == "" {
		category = entities.DefaultCategory
	}

	bookID := uuid.NewString()

	r.locks.Lock("book:" + bookID)
	defer r.locks.Unlock("book:" + bookID)

	if err := os.MkdirAll(r.paths.BookDir(bookID), 0755); err != nil {
		return "", fmt.Errorf("create book directory: %w", err)
	}

	book := entities.Book{
		BookID:    bookID,
		Name:      req.Name,
		Author:    req.Author,
		Category:  category,
		OwnerUID:  req.OwnerUID,
		OwnerName: owner.UserName,
		CreatedAt: time.Now().Format(time.RFC3339),
	}

	if coverExt != "" {
		coverName := "cover." + coverExt
		if err := os.WriteFile(r.paths.CoverPath(bookID, coverExt), req.Cover, 0644); err != nil {
			return "", fmt.Errorf("write cover image: %w", err)
		}
		book.HasCover = true
		book.CoverImage = &coverName
	}

	if err := storage.Store(r.paths.BookInfoPath(bookID), book); err != nil {
		return "", fmt.Errorf("write book metadata: %w", err)
	}

	log.Printf("Created book %q (id %s) for owner %s, cover: %v", req.Name, bookID, owner.UserName, book.HasCover)
	return bookID, nil
}

// Delete removes a book directory after re-verifying the owner's
// password. A wrong password fails without touching the filesystem, and
// deleting a book that is already absent is an error, not a no-op.
func (r *Repository) Delete(bookID, ownerUID, password string) error {
	if !r.users.VerifyPassword(ownerUID, password) {
		return ErrUnauthorized
	}

	r.locks.Lock("book:" + bookID)
	defer r.locks.Unlock("book:" + bookID)

	dir := r.paths.BookDir(bookID)
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return ErrBookNotFound
		}
		return fmt.Errorf("stat book directory: %w", err)
	}

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove book directory: %w", err)
	}

	log.Printf("Deleted book %s", bookID)
	return nil
}

// Get returns a single book's metadata document.
func (r *Repository) Get(bookID string) (*entities.Book, error) {
	path := r.paths.BookInfoPath(bookID)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("stat book metadata: %w", err)
	}

	var book entities.Book
	storage.Load(path, &book)
	if book.BookID == "" {
		return nil, ErrBookNotFound
	}
	return &book, nil
}

// List scans the books root and returns every metadata document that
// loads cleanly. Entries that fail to load are skipped with a warning;
// iteration order follows the directory listing and is not guaranteed
// stable across filesystems.
func (r *Repository) List() ([]entities.Book, error) {
	entries, err := os.ReadDir(r.paths.BooksRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.Book{}, nil
		}
		return nil, fmt.Errorf("scan books directory: %w", err)
	}

	result := make([]entities.Book, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var book entities.Book
		storage.Load(r.paths.BookInfoPath(entry.Name()), &book)
		if book.BookID == "" {
			log.Printf("Skipping book entry %s: metadata missing or malformed", entry.Name())
			continue
		}
		result = append(result, book)
	}
	return result, nil
}

// ProgressUpdate carries the optional reading-progress fields. Only
// non-nil fields are applied.
type ProgressUpdate struct {
	Progress     *float64
	ChaptersRead *int
}

// UpdateProgress applies a partial reading-progress update via a
// whole-document read-modify-write. A book is marked completed once its
// progress reaches 100.
func (r *Repository) UpdateProgress(bookID string, update ProgressUpdate) error {
	r.locks.Lock("book:" + bookID)
	defer r.locks.Unlock("book:" + bookID)

	book, err := r.Get(bookID)
	if err != nil {
		return err
	}

	if update.Progress != nil {
		book.ReadProgress = *update.Progress
		book.IsCompleted = *update.Progress >= 100
	}
	if update.ChaptersRead != nil {
		book.ChaptersRead = *update.ChaptersRead
	}

	if err := storage.Store(r.paths.BookInfoPath(bookID), book); err != nil {
		return fmt.Errorf("write book metadata: %w", err)
	}
	return nil
}

// CoverFile resolves the on-disk path of a book's stored cover image.
func (r *Repository) CoverFile(bookID string) (string, error) {
	book, err := r.Get(bookID)
	if err != nil {
		return "", err
	}
	if !book.HasCover || book.CoverImage == nil {
		return "", ErrCoverNotFound
	}
	return filepath.Join(r.paths.BookDir(bookID), *book.CoverImage), nil
}
