package auth

import "time"

// User represents an authenticated account. LecturerID links lecturer
// accounts to their register entry; zero for staff users.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	LecturerID   int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
