// Package users implements the file-backed user repository. Each user is
// a single JSON document at users/<user_uid>.json, rewritten whole on
// every mutation.
package users

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/auth"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/entities"
	"github.com/Nanaloveyuki/LiteShelf-Backend/internal/storage"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrUsernameRequired  = errors.New("username is required")
	ErrPasswordRequired  = errors.New("password is required")
)

// collectionKey guards the uniqueness scan + write in Create, so two
// concurrent creations with the same name cannot both pass the check.
const collectionKey = "users"

// Repository provides create/read/update operations over user documents.
type Repository struct {
	paths      storage.Paths
	locks      *storage.KeyedMutex
	bcryptCost int
}

func NewRepository(paths storage.Paths, locks *storage.KeyedMutex, bcryptCost int) *Repository {
	return &Repository{
		paths:      paths,
		locks:      locks,
		bcryptCost: bcryptCost,
	}
}

// Create registers a new user and returns the generated UID. The username
// must be unique (case-sensitive exact match) across all existing user
// documents.
func (r *Repository) Create(userName, password string) (string, error) {
	if userName == "" {
		return "", ErrUsernameRequired
	}
	if password == "" {
		return "", ErrPasswordRequired
	}

	r.locks.Lock(collectionKey)
	defer r.locks.Unlock(collectionKey)

	taken, err := r.usernameTaken(userName)
	if err != nil {
		return "", err
	}
	if taken {
		return "", ErrDuplicateUsername
	}

	hash, err := auth.HashPassword(password, r.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	if err := os.MkdirAll(r.paths.UsersRoot(), 0755); err != nil {
		return "", fmt.Errorf("create users directory: %w", err)
	}

	uid := uuid.NewString()
	user := entities.User{
		UserUID:      uid,
		UserName:     userName,
		PasswordHash: hash,
		CreatedAt:    time.Now().Format(time.RFC3339),
		AvatarURL:    "",
		Bio:          "",
	}

	if err := storage.Store(r.paths.UserPath(uid), user); err != nil {
		return "", fmt.Errorf("write user document: %w", err)
	}

	log.Printf("Created user %s (uid %s)", userName, uid)
	return uid, nil
}

// usernameTaken scans every user document for an exact name match.
// Entries that fail to load are skipped; the codec already logged why.
func (r *Repository) usernameTaken(userName string) (bool, error) {
	entries, err := os.ReadDir(r.paths.UsersRoot())
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("scan users directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		var user entities.User
		storage.Load(filepath.Join(r.paths.UsersRoot(), entry.Name()), &user)
		if user.UserName == userName {
			return true, nil
		}
	}
	return false, nil
}

// Get returns the full user record. A document that is missing, or
// present but unreadable as a user (the codec's empty-record downgrade),
// both surface as ErrUserNotFound.
func (r *Repository) Get(userUID string) (*entities.User, error) {
	path := r.paths.UserPath(userUID)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("stat user document: %w", err)
	}

	var user entities.User
	storage.Load(path, &user)
	if user.UserUID == "" {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// ProfileUpdate carries the optional profile fields. Only non-nil fields
// are applied.
type ProfileUpdate struct {
	AvatarURL *string
	Bio       *string
}

// UpdateProfile applies a partial profile update via a whole-document
// read-modify-write. Fields not present in the update are retained.
func (r *Repository) UpdateProfile(userUID string, update ProfileUpdate) error {
	r.locks.Lock("user:" + userUID)
	defer r.locks.Unlock("user:" + userUID)

	user, err := r.Get(userUID)
	if err != nil {
		return err
	}

	if update.AvatarURL != nil {
		user.AvatarURL = *update.AvatarURL
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	user.UpdatedAt = time.Now().Format(time.RFC3339)

	if err := storage.Store(r.paths.UserPath(userUID), user); err != nil {
		return fmt.Errorf("write user document: %w", err)
	}
	return nil
}

// UpdatePassword replaces the stored hash after verifying the old
// password. The new password is hashed with a fresh salt.
func (r *Repository) UpdatePassword(userUID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}

	r.locks.Lock("user:" + userUID)
	defer r.locks.Unlock("user:" + userUID)

	if !r.VerifyPassword(userUID, oldPassword) {
		return auth.ErrInvalidPassword
	}

	user, err := r.Get(userUID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword, r.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().Format(time.RFC3339)

	if err := storage.Store(r.paths.UserPath(userUID), user); err != nil {
		return fmt.Errorf("write user document: %w", err)
	}

	log.Printf("Updated password for user %s", userUID)
	return nil
}

// VerifyPassword reports whether plaintext matches the user's stored
// hash. A missing user, a malformed document, and a wrong password all
// return false: callers cannot tell the cases apart, which keeps username
// enumeration out of the API surface.
func (r *Repository) VerifyPassword(userUID, password string) bool {
	user, err := r.Get(userUID)
	if err != nil {
		return false
	}
	return auth.CheckPassword(password, user.PasswordHash) == nil
}
