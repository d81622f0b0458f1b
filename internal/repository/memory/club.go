package memory

import (
	"context"
	"fmt"
	"time"

	"clubhub-backend/internal/domain"
)

type clubRepo struct {
	acc accessor
}

func (r *clubRepo) Create(ctx context.Context, c *domain.Club) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.clubs.get(c.ID); ok {
			return domain.ErrAlreadyExists
		}
		d.clubs.put(c.ID, *c)
		return nil
	})
}

func (r *clubRepo) GetByID(ctx context.Context, id string) (*domain.Club, error) {
	var out domain.Club
	err := r.acc.read(func(d *dataset) error {
		c, ok := d.clubs.get(id)
		if !ok {
			return domain.ErrClubNotFound
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *clubRepo) Update(ctx context.Context, c *domain.Club) error {
	return r.acc.write(func(d *dataset) error {
		cur, ok := d.clubs.get(c.ID)
		if !ok {
			return domain.ErrClubNotFound
		}
		next := *c
		next.Status = cur.Status
		d.clubs.put(c.ID, next)
		return nil
	})
}

func (r *clubRepo) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	return r.acc.write(func(d *dataset) error {
		c, ok := d.clubs.get(id)
		if !ok {
			return domain.ErrClubNotFound
		}
		if c.Status != from {
			return fmt.Errorf("club %s is %s: %w", id, c.Status, domain.ErrInvalidTransition)
		}
		c.Status = to
		c.UpdatedAt = time.Now().UTC()
		d.clubs.put(id, c)
		return nil
	})
}

func (r *clubRepo) List(ctx context.Context) ([]domain.Club, error) {
	return r.where(nil)
}

func (r *clubRepo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Club, error) {
	return r.where(func(c domain.Club) bool { return c.Status == status })
}

func (r *clubRepo) ListByLeader(ctx context.Context, leaderID string) ([]domain.Club, error) {
	return r.where(func(c domain.Club) bool { return c.LeaderID == leaderID })
}

func (r *clubRepo) where(keep func(domain.Club) bool) ([]domain.Club, error) {
	var out []domain.Club
	err := r.acc.read(func(d *dataset) error {
		out = d.clubs.filter(keep)
		return nil
	})
	return out, err
}

type membershipRepo struct {
	acc accessor
}

func (r *membershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	return r.acc.write(func(d *dataset) error {
		key := pairKey(m.UserID, m.ClubID)
		if _, ok := d.memberships.get(key); ok {
			return domain.ErrAlreadyMember
		}
		d.memberships.put(key, *m)
		return nil
	})
}

func (r *membershipRepo) Get(ctx context.Context, userID, clubID string) (*domain.Membership, error) {
	var out domain.Membership
	err := r.acc.read(func(d *dataset) error {
		m, ok := d.memberships.get(pairKey(userID, clubID))
		if !ok {
			return domain.ErrNotMember
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *membershipRepo) Delete(ctx context.Context, userID, clubID string) error {
	return r.acc.write(func(d *dataset) error {
		if !d.memberships.remove(pairKey(userID, clubID)) {
			return domain.ErrNotMember
		}
		return nil
	})
}

func (r *membershipRepo) ListByClub(ctx context.Context, clubID string) ([]domain.Membership, error) {
	return r.where(func(m domain.Membership) bool { return m.ClubID == clubID })
}

func (r *membershipRepo) ListByUser(ctx context.Context, userID string) ([]domain.Membership, error) {
	return r.where(func(m domain.Membership) bool { return m.UserID == userID })
}

func (r *membershipRepo) where(keep func(domain.Membership) bool) ([]domain.Membership, error) {
	var out []domain.Membership
	err := r.acc.read(func(d *dataset) error {
		out = d.memberships.filter(keep)
		return nil
	})
	return out, err
}

type joinRequestRepo struct {
	acc accessor
}

func (r *joinRequestRepo) Create(ctx context.Context, req *domain.JoinRequest) error {
	return r.acc.write(func(d *dataset) error {
		dup := func(j domain.JoinRequest) bool { return j.UserID == req.UserID && j.ClubID == req.ClubID }
		if _, ok := d.joinRequests.find(dup); ok {
			return domain.ErrAlreadyRequested
		}
		d.joinRequests.put(req.ID, *req)
		return nil
	})
}

func (r *joinRequestRepo) GetByID(ctx context.Context, id string) (*domain.JoinRequest, error) {
	var out domain.JoinRequest
	err := r.acc.read(func(d *dataset) error {
		j, ok := d.joinRequests.get(id)
		if !ok {
			return domain.ErrJoinRequestNotFound
		}
		out = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *joinRequestRepo) Find(ctx context.Context, userID, clubID string) (*domain.JoinRequest, error) {
	var out domain.JoinRequest
	err := r.acc.read(func(d *dataset) error {
		j, ok := d.joinRequests.find(func(j domain.JoinRequest) bool { return j.UserID == userID && j.ClubID == clubID })
		if !ok {
			return domain.ErrJoinRequestNotFound
		}
		out = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *joinRequestRepo) Delete(ctx context.Context, id string) error {
	return r.acc.write(func(d *dataset) error {
		if !d.joinRequests.remove(id) {
			return domain.ErrJoinRequestNotFound
		}
		return nil
	})
}

func (r *joinRequestRepo) ListByClub(ctx context.Context, clubID string) ([]domain.JoinRequest, error) {
	var out []domain.JoinRequest
	err := r.acc.read(func(d *dataset) error {
		out = d.joinRequests.filter(func(j domain.JoinRequest) bool { return j.ClubID == clubID })
		return nil
	})
	return out, err
}

func (r *joinRequestRepo) List(ctx context.Context) ([]domain.JoinRequest, error) {
	var out []domain.JoinRequest
	err := r.acc.read(func(d *dataset) error {
		out = d.joinRequests.filter(nil)
		return nil
	})
	return out, err
}
