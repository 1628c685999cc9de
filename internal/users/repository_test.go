package users

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/auth"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/storage"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	paths := storage.NewPaths(t.TempDir())
	return NewRepository(paths, storage.NewKeyedMutex(), 4)
}

func TestCreateUser(t *testing.T) {
	repo := newTestRepository(t)

	uid, err := repo.Create("alice", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	user, err := repo.Get(uid)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.UserName)
	assert.Equal(t, uid, user.UserUID)
	assert.NotEmpty(t, user.CreatedAt)
	assert.Empty(t, user.AvatarURL)
	assert.Empty(t, user.Bio)

	// The stored document must never hold the plaintext
	assert.NotEqual(t, "secret", user.PasswordHash)
	assert.NoError(t, auth.CheckPassword("secret", user.PasswordHash))
}

func TestCreateUserValidation(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Create("", "secret")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = repo.Create("alice", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestCreateUserEnforcesUniqueness(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Create("alice", "x")
	require.NoError(t, err)

	_, err = repo.Create("alice", "x")
	assert.ErrorIs(t, err, ErrDuplicateUsername)

	// A different name is fine
	_, err = repo.Create("alice2", "x")
	assert.NoError(t, err)
}

func TestGetUserNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get("no-such-uid")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetUserMalformedDocument(t *testing.T) {
	repo := newTestRepository(t)

	require.NoError(t, os.MkdirAll(repo.paths.UsersRoot(), 0755))
	path := filepath.Join(repo.paths.UsersRoot(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	// A present but unreadable document counts as missing
	_, err := repo.Get("broken")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfilePartial(t *testing.T) {
	repo := newTestRepository(t)

	uid, err := repo.Create("alice", "secret")
	require.NoError(t, err)

	bio := "old"
	require.NoError(t, repo.UpdateProfile(uid, ProfileUpdate{Bio: &bio}))

	avatar := "http://example.com/a.png"
	require.NoError(t, repo.UpdateProfile(uid, ProfileUpdate{AvatarURL: &avatar}))

	user, err := repo.Get(uid)
	require.NoError(t, err)
	assert.Equal(t, "old", user.Bio, "bio must survive an avatar-only update")
	assert.Equal(t, avatar, user.AvatarURL)
	assert.NotEmpty(t, user.UpdatedAt)
}

func TestUpdateProfileMissingUser(t *testing.T) {
	repo := newTestRepository(t)

	bio := "bio"
	err := repo.UpdateProfile("no-such-uid", ProfileUpdate{Bio: &bio})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdatePassword(t *testing.T) {
	repo := newTestRepository(t)

	uid, err := repo.Create("alice", "old-password")
	require.NoError(t, err)

	err = repo.UpdatePassword(uid, "wrong", "new-password")
	assert.ErrorIs(t, err, auth.ErrInvalidPassword)
	assert.True(t, repo.VerifyPassword(uid, "old-password"), "failed update must not change the password")

	require.NoError(t, repo.UpdatePassword(uid, "old-password", "new-password"))
	assert.True(t, repo.VerifyPassword(uid, "new-password"))
	assert.False(t, repo.VerifyPassword(uid, "old-password"))
}

func TestVerifyPassword(t *testing.T) {
	repo := newTestRepository(t)

	uid, err := repo.Create("alice", "secret")
	require.NoError(t, err)

	assert.True(t, repo.VerifyPassword(uid, "secret"))
	assert.False(t, repo.VerifyPassword(uid, "wrong"))
	// Missing users verify false rather than erroring
	assert.False(t, repo.VerifyPassword("no-such-uid", "secret"))
}
