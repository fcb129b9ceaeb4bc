package models

// User defines the user model based on the 'users' table
type User struct {
	ID       int64   `json:"id" db:"id" example:"1"`                      // Unique identifier for the user
	Username string  `json:"username" db:"username" example:"alice"`      // Unique login name
	Email    string  `json:"email" db:"email" example:"alice@example.com"` // User's email address
	Password string  `json:"-" db:"password"`                             // Bcrypt hash (excluded from JSON)
	Token    *string `json:"-" db:"token"`                                // Current access token, nil when logged out
}

// HasToken reports whether the user currently holds the given token
func (u *User) HasToken(token string) bool {
	return u.Token != nil && *u.Token != "" && *u.Token == token
}
