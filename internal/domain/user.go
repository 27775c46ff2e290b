package domain

// User represents an authenticated account in the directory.
type User struct {
	Record
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	IsAdmin      bool   `json:"is_admin"`
	PicturePath  string `json:"picture_path,omitempty"`
	BlurHash     string `json:"blur_hash,omitempty"`
}

// CanDelete reports whether u may delete target. Self-deletion is always
// allowed. Admins may delete non-admin users but not other admins.
func (u *User) CanDelete(target *User) bool {
	if u.ID == target.ID {
		return true
	}
	return u.IsAdmin && !target.IsAdmin
}
