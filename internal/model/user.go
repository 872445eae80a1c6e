package model

import "time"

// User represents an account record as stored in the `users` table.
// PasswordHash is excluded from JSON.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Username     – unique login name; also the `sub` claim of issued tokens.
//	PasswordHash – bcrypt hashed password.
//	Email        – unique email address.
//	Nickname     – optional display name.
//	DateCreated  – timestamp of registration.
type User struct {
	ID           int64     `json:"id"`           // users.id
	Username     string    `json:"username"`     // users.username
	PasswordHash string    `json:"-"`            // users.password_hash
	Email        string    `json:"email"`        // users.email
	Nickname     string    `json:"nickname"`     // users.nickname
	DateCreated  time.Time `json:"date_created"` // users.date_created
}
