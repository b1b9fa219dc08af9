package model

import "time"

// Admin is a back-office account allowed to mutate requests.
type Admin struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
