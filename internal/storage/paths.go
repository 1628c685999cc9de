// Package storage implements the file-backed document store: path
// resolution, the JSON document codec, and per-identifier locking.
package storage

import "path/filepath"

// Paths resolves canonical on-disk locations for book and user documents
// under a single storage root. All methods are pure: given the same
// identifier they always return the same path and never touch the
// filesystem.
type Paths struct {
	root string
}

func NewPaths(root string) Paths {
	return Paths{root: root}
}

// Root returns the configured storage root.
func (p Paths) Root() string {
	return p.root
}

// BooksRoot returns the directory under which all book directories live.
func (p Paths) BooksRoot() string {
	return filepath.Join(p.root, "books")
}

// UsersRoot returns the directory under which all user documents live.
func (p Paths) UsersRoot() string {
	return filepath.Join(p.root, "users")
}

// BookDir returns the directory holding a book's metadata and cover.
func (p Paths) BookDir(bookID string) string {
	return filepath.Join(p.BooksRoot(), bookID)
}

// BookInfoPath returns the path of a book's metadata document.
func (p Paths) BookInfoPath(bookID string) string {
	return filepath.Join(p.BookDir(bookID), "info.json")
}

// CoverPath returns the path of a book's cover image for the given
// extension (without the leading dot).
func (p Paths) CoverPath(bookID, ext string) string {
	return filepath.Join(p.BookDir(bookID), "cover."+ext)
}

// UserPath returns the path of a user's document.
func (p Paths) UserPath(userUID string) string {
	return filepath.Join(p.UsersRoot(), userUID+".json")
}
