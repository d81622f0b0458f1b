package memory

import (
	"context"
	"fmt"
	"maps"
	"time"

	"clubhub-backend/internal/domain"
)

type eventRepo struct {
	acc accessor
}

// detach copies the capacity so callers never share the stored pointer.
func detach(e domain.Event) domain.Event {
	if e.Capacity != nil {
		c := *e.Capacity
		e.Capacity = &c
	}
	return e
}

func (r *eventRepo) Create(ctx context.Context, e *domain.Event) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.events.get(e.ID); ok {
			return domain.ErrAlreadyExists
		}
		d.events.put(e.ID, detach(*e))
		return nil
	})
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var out domain.Event
	err := r.acc.read(func(d *dataset) error {
		e, ok := d.events.get(id)
		if !ok {
			return domain.ErrEventNotFound
		}
		out = detach(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *eventRepo) Update(ctx context.Context, e *domain.Event) error {
	return r.acc.write(func(d *dataset) error {
		cur, ok := d.events.get(e.ID)
		if !ok {
			return domain.ErrEventNotFound
		}
		next := detach(*e)
		next.Status = cur.Status
		d.events.put(e.ID, next)
		return nil
	})
}

func (r *eventRepo) UpdateStatus(ctx context.Context, id string, from, to domain.Status) error {
	return r.acc.write(func(d *dataset) error {
		e, ok := d.events.get(id)
		if !ok {
			return domain.ErrEventNotFound
		}
		if e.Status != from {
			return fmt.Errorf("event %s is %s: %w", id, e.Status, domain.ErrInvalidTransition)
		}
		e.Status = to
		e.UpdatedAt = time.Now().UTC()
		d.events.put(id, detach(e))
		return nil
	})
}

func (r *eventRepo) List(ctx context.Context) ([]domain.Event, error) {
	return r.where(nil)
}

func (r *eventRepo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Event, error) {
	return r.where(func(e domain.Event) bool { return e.Status == status })
}

func (r *eventRepo) ListByClub(ctx context.Context, clubID string) ([]domain.Event, error) {
	return r.where(func(e domain.Event) bool { return e.ClubID == clubID })
}

func (r *eventRepo) where(keep func(domain.Event) bool) ([]domain.Event, error) {
	var out []domain.Event
	err := r.acc.read(func(d *dataset) error {
		out = d.events.filter(keep)
		for i := range out {
			out[i] = detach(out[i])
		}
		return nil
	})
	return out, err
}

type registrationRepo struct {
	acc accessor
}

func (r *registrationRepo) Create(ctx context.Context, reg *domain.EventRegistration) error {
	return r.acc.write(func(d *dataset) error {
		key := pairKey(reg.UserID, reg.EventID)
		if _, ok := d.registrations.get(key); ok {
			return domain.ErrAlreadyRegistered
		}
		d.registrations.put(key, *reg)
		return nil
	})
}

func (r *registrationRepo) Get(ctx context.Context, userID, eventID string) (*domain.EventRegistration, error) {
	var out domain.EventRegistration
	err := r.acc.read(func(d *dataset) error {
		reg, ok := d.registrations.get(pairKey(userID, eventID))
		if !ok {
			return domain.ErrNotRegistered
		}
		out = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *registrationRepo) Delete(ctx context.Context, userID, eventID string) error {
	return r.acc.write(func(d *dataset) error {
		if !d.registrations.remove(pairKey(userID, eventID)) {
			return domain.ErrNotRegistered
		}
		return nil
	})
}

func (r *registrationRepo) ListByEvent(ctx context.Context, eventID string) ([]domain.EventRegistration, error) {
	return r.where(func(reg domain.EventRegistration) bool { return reg.EventID == eventID })
}

func (r *registrationRepo) ListByUser(ctx context.Context, userID string) ([]domain.EventRegistration, error) {
	return r.where(func(reg domain.EventRegistration) bool { return reg.UserID == userID })
}

func (r *registrationRepo) CountByEvent(ctx context.Context, eventID string) (int32, error) {
	regs, err := r.ListByEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	return int32(len(regs)), nil
}

func (r *registrationRepo) where(keep func(domain.EventRegistration) bool) ([]domain.EventRegistration, error) {
	var out []domain.EventRegistration
	err := r.acc.read(func(d *dataset) error {
		out = d.registrations.filter(keep)
		return nil
	})
	return out, err
}

type approvalRepo struct {
	acc accessor
}

func (r *approvalRepo) Create(ctx context.Context, a *domain.Approval) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.approvals.get(a.EventID); ok {
			return domain.ErrAlreadyExists
		}
		d.approvals.put(a.EventID, *a)
		return nil
	})
}

func (r *approvalRepo) GetByEventID(ctx context.Context, eventID string) (*domain.Approval, error) {
	var out domain.Approval
	err := r.acc.read(func(d *dataset) error {
		a, ok := d.approvals.get(eventID)
		if !ok {
			return domain.ErrApprovalNotFound
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *approvalRepo) Update(ctx context.Context, a *domain.Approval) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.approvals.get(a.EventID); !ok {
			return domain.ErrApprovalNotFound
		}
		d.approvals.put(a.EventID, *a)
		return nil
	})
}

type reportRepo struct {
	acc accessor
}

func (r *reportRepo) Create(ctx context.Context, rep *domain.Report) error {
	return r.acc.write(func(d *dataset) error {
		if _, ok := d.reports.get(rep.ID); ok {
			return domain.ErrAlreadyExists
		}
		stored := *rep
		stored.Data = maps.Clone(rep.Data)
		d.reports.put(rep.ID, stored)
		return nil
	})
}

func (r *reportRepo) ListByClub(ctx context.Context, clubID string) ([]domain.Report, error) {
	var out []domain.Report
	err := r.acc.read(func(d *dataset) error {
		out = d.reports.filter(func(rep domain.Report) bool { return rep.ClubID == clubID })
		for i := range out {
			out[i].Data = maps.Clone(out[i].Data)
		}
		return nil
	})
	return out, err
}
