package models

import "time"

// User is a directory record. Password holds the bcrypt hash and is
// never serialized.
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Username  string    `db:"username" json:"username"`
	Email     string    `db:"email" json:"email"`
	Mobile    string    `db:"mobile" json:"mobile"`
	Password  string    `db:"password" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserSummary is the canonical non-sensitive projection returned by the
// user listing.
type UserSummary struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}

// Summary projects a user onto its public fields.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Username: u.Username, Email: u.Email}
}
