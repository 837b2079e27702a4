package user

import "errors"

var ErrNotFound = errors.New("user not found")

type Repository interface {
	Save(*User) error
	FindByID(string) (*User, error)
	FindByEmail(string) (*User, error)
	FindByGoogleID(string) (*User, error)
}
