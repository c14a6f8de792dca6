package memory

import (
	"time"

	"github.com/jportela/estoque-api/internal/domain"
	"github.com/jportela/estoque-api/internal/domain/entity"
	"github.com/jportela/estoque-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo usuários em memória.
type UserRepo struct {
	store *Store
}

// NewUserRepository devolve o repositório de usuários.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) Create(u *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, existing := range r.store.users {
		if existing.AccountID == u.AccountID && existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.store.nextUserID++
	u.ID = r.store.nextUserID
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	c := *u
	r.store.users[u.ID] = &c
	return nil
}

func (r *UserRepo) FindByEmail(email string) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmailAndAccount(email string, accountID int64) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.AccountID == accountID && u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByID(id int64) (*entity.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}
