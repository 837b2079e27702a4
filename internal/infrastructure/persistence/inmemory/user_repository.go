package inmemory

import (
	"sync"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[string]user.User),
	}
}

func (r *UserRepository) Save(u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) FindByID(id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(email string) (*user.User, error) {
	return r.findBy(func(u user.User) bool { return u.Email == email })
}

func (r *UserRepository) FindByGoogleID(googleID string) (*user.User, error) {
	return r.findBy(func(u user.User) bool { return u.GoogleID == googleID && googleID != "" })
}

func (r *UserRepository) findBy(match func(user.User) bool) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, user.ErrNotFound
}
