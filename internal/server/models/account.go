// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered credential holder.
type Account struct {
	// ID is assigned by the store on creation.
	ID string
	// Login is the identifier exactly as the user submitted it.
	Login string
	// LoginNormalized is the case-folded Login; unique across accounts.
	LoginNormalized string
	// PasswordHash is an encoded hash produced by the password hasher.
	PasswordHash string
	CreatedAt    time.Time
}
