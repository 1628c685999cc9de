package books

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/storage"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/users"
)

func newTestRepositories(t *testing.T) (*Repository, *users.Repository) {
	t.Helper()
	paths := storage.NewPaths(t.TempDir())
	locks := storage.NewKeyedMutex()
	userRepo := users.NewRepository(paths, locks, 4)
	return NewRepository(paths, locks, userRepo), userRepo
}

func createOwner(t *testing.T, userRepo *users.Repository) string {
	t.Helper()
	uid, err := userRepo.Create("alice", "secret")
	require.NoError(t, err)
	return uid
}

func TestCreateBook(t *testing.T) {
	repo, userRepo := newTestRepositories(t)
	owner := createOwner(t, userRepo)

	require.NoError(t, repo.Create("b1", "图书馆", owner))

	book, err := repo.Get("b1")
	require.NoError(t, err)
	assert.Equal(t, "b1", book.BookID)
	assert.Equal(t, "图书馆", book.Name)
	assert.Equal(t, owner, book.OwnerUID)
	assert.Equal(t, "alice", book.OwnerName, "owner name is snapshotted at creation")
	assert.NotEmpty(t, book.CreatedAt)
	assert.False(t, book.HasCover)
}

func TestCreateBookIsIdempotentOnDirectory(t *testing.T) {
	repo, userRepo := newTestRepositories(t)
	owner := createOwner(t, userRepo)

	require.NoError(t, repo.Create("b1", "first", owner))
	require.NoError(t, repo.Create("b1", "second", owner))

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 1, "recreating the same book ID must not duplicate the record")
	assert.Equal(t, "second", list[0].Name)
}

func TestCreateBookOwnerMissing(t *testing.T) {
	repo, _ := newTestRepositories(t)

	err := repo.Create("b1", "book", "no-such-owner")
	assert.ErrorIs(t, err, ErrOwnerNotFound)

	// Nothing may exist on disk after a failed creation
	_, err = repo.Get("b1")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestCreateBookValidation(t *testing.T) {
	repo, userRepo := newTestRepositories(t)
	owner := createOwner(t, userRepo)

	assert.ErrorIs(t, repo.Create("b1", "", owner), ErrNameRequired)
	assert.ErrorIs(t, repo.Create("b1", "book", ""), ErrOwnerRequired)
}

func TestCreateWithUpload(t *testing.T) {
	repo, userRepo := newTestRepositories(t)
	owner := createOwner(t, userRepo)

	cover := []byte{0x89, 0x50, 0x4e, 0x47}
	bookID, err := repo.CreateWithUpload(CreateRequest{
		Name:          "Dune",
		Author:        "Frank Herbert",
		OwnerUID:      owner,
		Cover:         cover,
		CoverFilename: "photo.PNG",
	})
	require.NoError(t, err)

	book, err := repo.Get(bookID)
	require.NoError(t, err)
	assert.Equal(t, "other", book.Category, "missing category falls back to the default")
	assert.True(t, book.HasCover)
	require.NotNil(t, book.CoverImage)
	assert.Equal(t, "cover.png", *book.CoverImage)

	path, err := repo.CoverFile(bookID)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cover, data)
}

func TestCreateWithUploadValidation(t *testing.T) {
	repo, userRepo := newTestRepositories(t)
	owner := createOwner(t, userRepo)

	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{
			name:    "missing name",
			req:     CreateRequest{Author: "a", OwnerUID: owner},
			wantErr: ErrNameRequired,
		},
		{
			name:    "missing author",
			req:     CreateRequest{Name: "n", OwnerUID: owner},
			wantErr: ErrAuthorRequired,
		},
		{
			name:    "missing owner",
			req:     CreateRequest{Name: "n", Author: "a"},
			wantErr: ErrOwnerRequired,
		},
		{
			name: "unsupported cover extension",
			req: CreateRequest{
				Name: "n", Author: "a", OwnerUID: owner,
				Cover: []byte{1}, CoverFilename: "cover.bmp",
			},
			wantErr: ErrUnsupportedCover,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.CreateWithUpload(tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// A rejected upload must leave the books root empty
	list, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteBookRequiresCorrectPassword(t *testing.T) {
	repo, userRepo := newTestRepositories(t)
	owner := createOwner(t, userRepo)
	require.NoError(t, repo.Create("b1", "book", owner))

	err := repo.Delete("b1", owner, "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// The book must still exist after a rejected deletion
	_, err = repo.Get("b1")
	require.NoError(t, err)

	require.NoError(t, repo.Delete("b1", owner, "secret"))
	_, err = repo.Get("b1")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestDeleteBookRemovesCover(t *testing.T) {
	repo, userRepo := newTestRepositories(t)
	owner := createOwner(t, userRepo)

	bookID, err := repo.CreateWithUpload(CreateRequest{
		Name: "n", Author: "a", OwnerUID: owner,
		Cover: []byte{1, 2, 3}, CoverFilename: "c.jpg",
	})
	require.NoError(t, err)

	coverPath, err := repo.CoverFile(bookID)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(bookID, owner, "secret"))
	_, err = os.Stat(coverPath)
	assert.True(t, os.IsNotExist(err), "cover must be removed with the book directory")
}

func TestDeleteMissingBookIsAnError(t *testing.T) {
	repo, userRepo := newTestRepositories(t)
	owner := createOwner(t, userRepo)

	err := repo.Delete("no-such-book", owner, "secret")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestListSkipsMalformedEntries(t *testing.T) {
	repo, userRepo := newTestRepositories(t)
	owner := createOwner(t, userRepo)
	require.NoError(t, repo.Create("good", "book", owner))

	// A directory without readable metadata is skipped, not fatal
	brokenDir := repo.paths.BookDir("broken")
	require.NoError(t, os.MkdirAll(brokenDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(brokenDir, "info.json"), []byte("{not json"), 0644))

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "good", list[0].BookID)
}

func TestUpdateProgress(t *testing.T) {
	repo, userRepo := newTestRepositories(t)
	owner := createOwner(t, userRepo)
	require.NoError(t, repo.Create("b1", "book", owner))

	progress := 42.5
	chapters := 5
	require.NoError(t, repo.UpdateProgress("b1", ProgressUpdate{Progress: &progress, ChaptersRead: &chapters}))

	book, err := repo.Get("b1")
	require.NoError(t, err)
	assert.Equal(t, 42.5, book.ReadProgress)
	assert.Equal(t, 5, book.ChaptersRead)
	assert.False(t, book.IsCompleted)

	done := 100.0
	require.NoError(t, repo.UpdateProgress("b1", ProgressUpdate{Progress: &done}))

	book, err = repo.Get("b1")
	require.NoError(t, err)
	assert.True(t, book.IsCompleted)
	assert.Equal(t, 5, book.ChaptersRead, "chapters survive a progress-only update")
}

func TestCoverFileWithoutCover(t *testing.T) {
	repo, userRepo := newTestRepositories(t)
	owner := createOwner(t, userRepo)
	require.NoError(t, repo.Create("b1", "book", owner))

	_, err := repo.CoverFile("b1")
	assert.ErrorIs(t, err, ErrCoverNotFound)
}
