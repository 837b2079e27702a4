package sqlite

import (
	"database/sql"
	"errors"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(u *user.User) error {
	_, err := r.db.Exec(
		`INSERT INTO users (id, google_id, name, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.GoogleID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.CreatedAt,
	)
	return err
}

func (r *UserRepository) FindByID(id string) (*user.User, error) {
	return r.findBy(`id = ?`, id)
}

func (r *UserRepository) FindByEmail(email string) (*user.User, error) {
	return r.findBy(`email = ?`, email)
}

func (r *UserRepository) FindByGoogleID(googleID string) (*user.User, error) {
	return r.findBy(`google_id = ?`, googleID)
}

func (r *UserRepository) findBy(where string, arg any) (*user.User, error) {
	row := r.db.QueryRow(
		`SELECT id, google_id, name, email, password_hash, created_at
		 FROM users
		 WHERE `+where,
		arg,
	)

	var u user.User
	if err := row.Scan(
		&u.ID,
		&u.GoogleID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}

	return &u, nil
}
