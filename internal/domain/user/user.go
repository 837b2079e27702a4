package user

import "time"

type User struct {
	ID           string
	GoogleID     string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
