package memory

import (
	"context"
	"strings"

	"clubhub-backend/internal/domain"
)

type userRepo struct {
	acc accessor
}

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.users.get(u.ID); ok {
			return domain.ErrAlreadyExists
		}
		if _, taken := d.users.find(sameEmail(u.Email, "")); taken {
			return domain.ErrEmailTaken
		}
		d.users.put(u.ID, *u)
		return nil
	})
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var out domain.User
	err := r.acc.read(func(d *dataset) error {
		u, ok := d.users.get(id)
		if !ok {
			return domain.ErrUserNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out domain.User
	err := r.acc.read(func(d *dataset) error {
		u, ok := d.users.find(sameEmail(email, ""))
		if !ok {
			return domain.ErrUserNotFound
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *userRepo) Update(ctx context.Context, u *domain.User) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.users.get(u.ID); !ok {
			return domain.ErrUserNotFound
		}
		if _, taken := d.users.find(sameEmail(u.Email, u.ID)); taken {
			return domain.ErrEmailTaken
		}
		d.users.put(u.ID, *u)
		return nil
	})
}

func (r *userRepo) List(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	err := r.acc.read(func(d *dataset) error {
		out = d.users.filter(nil)
		return nil
	})
	return out, err
}

func (r *userRepo) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	var out []domain.User
	err := r.acc.read(func(d *dataset) error {
		out = d.users.filter(func(u domain.User) bool { return u.Role == role })
		return nil
	})
	return out, err
}

// sameEmail matches users by case-insensitive email, ignoring the user with exceptID.
func sameEmail(email, exceptID string) func(domain.User) bool {
	return func(u domain.User) bool {
		return u.ID != exceptID && strings.EqualFold(u.Email, email)
	}
}
