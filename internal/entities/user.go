package entities

// User is the document stored at users/<user_uid>.json. The pswd field
// holds a bcrypt hash, never the plaintext, and must be stripped before a
// record leaves the API (see Profile).
type User struct {
	UserUID      string `json:"user_uid"`
	UserName     string `json:"user_name"`
	PasswordHash string `json:"pswd"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at,omitempty"`
	AvatarURL    string `json:"avatar_url"`
	Bio          string `json:"bio"`
}

// Profile is the externally visible projection of a User. It has no hash
// field at all, so a handler cannot leak credentials by accident.
type Profile struct {
	UserUID   string `json:"user_uid"`
	UserName  string `json:"user_name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at,omitempty"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

// Profile returns the credential-free projection of u.
func (u User) Profile() Profile {
	return Profile{
		UserUID:   u.UserUID,
		UserName:  u.UserName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
	}
}
