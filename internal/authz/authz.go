// Package authz holds every role and ownership rule of the workflow in one
// place. Services call Authorize before mutating anything.
package authz

import (
	"fmt"

	"clubhub-backend/internal/domain"
)

type Action string

const (
	CreateClub         Action = "create_club"
	JoinClub           Action = "join_club"
	UpdateClub         Action = "update_club"
	ManageLogo         Action = "manage_logo"
	DecideClub         Action = "decide_club"
	CreateEvent        Action = "create_event"
	UpdateEvent        Action = "update_event"
	DecideEvent        Action = "decide_event"
	ResolveJoinRequest Action = "resolve_join_request"
	ViewJoinRequests   Action = "view_join_requests"
	GenerateReport     Action = "generate_report"
	ViewReports        Action = "view_reports"
	NotifyUser         Action = "notify_user"
)

// Resource is what the action targets. Only the fields an action needs are read.
type Resource struct {
	Club         *domain.Club
	Event        *domain.Event
	TargetUserID string
}

// Authorize returns nil when actor may perform action on res. Role failures
// wrap domain.ErrNotAllowed and ownership failures wrap domain.ErrNotAuthorized.
func Authorize(actor *domain.User, action Action, res Resource) error {
	if actor == nil {
		return fmt.Errorf("%s: %w", action, domain.ErrNotAuthorized)
	}

	var ok bool
	switch action {
	case CreateClub, JoinClub:
		if actor.IsAdministrator() {
			return denyRole(action, actor)
		}
		return nil

	case DecideClub, DecideEvent, GenerateReport:
		if !actor.IsAdministrator() {
			return denyRole(action, actor)
		}
		return nil

	case UpdateClub, ViewJoinRequests, ViewReports:
		ok = leads(actor, res.Club) || actor.IsAdministrator()

	case ManageLogo, ResolveJoinRequest:
		ok = leads(actor, res.Club)

	case CreateEvent:
		ok = leads(actor, res.Club) && res.Club.Status == domain.StatusApproved

	case UpdateEvent:
		ok = actor.IsAdministrator() || leads(actor, res.Club) ||
			(res.Event != nil && res.Event.CreatedBy == actor.ID)

	case NotifyUser:
		ok = res.TargetUserID == actor.ID || actor.IsAdministrator()

	default:
		return fmt.Errorf("unknown action %q: %w", action, domain.ErrNotAuthorized)
	}

	if !ok {
		return fmt.Errorf("%s: %w", action, domain.ErrNotAuthorized)
	}
	return nil
}

func leads(actor *domain.User, club *domain.Club) bool {
	return club != nil && club.LeaderID == actor.ID
}

func denyRole(action Action, actor *domain.User) error {
	return fmt.Errorf("%s as %s: %w", action, actor.Role, domain.ErrNotAllowed)
}
