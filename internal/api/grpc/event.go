package grpc

import (
	"context"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/service"

	"google.golang.org/grpc"
)

const eventServiceName = servicePackage + "EventService"

type CreateEventRequest struct {
	ClubID string `json:"club_id"`
	service.EventInput
}

type UpdateEventRequest struct {
	EventID string `json:"event_id"`
	service.EventInput
}

type EventIDRequest struct {
	EventID string `json:"event_id"`
}

type DecideEventRequest struct {
	EventID string `json:"event_id"`
	Comment string `json:"comment,omitempty"`
}

type EventResponse struct {
	Event *domain.Event `json:"event"`
}

type ListEventsResponse struct {
	Events []domain.Event `json:"events"`
}

type ApprovalResponse struct {
	Approval *domain.Approval `json:"approval"`
}

type RegistrationResponse struct {
	Registration *domain.EventRegistration `json:"registration"`
}

type ListAttendeesResponse struct {
	Attendees []domain.EventRegistration `json:"attendees"`
	Count     int32                      `json:"count"`
}

type IsRegisteredResponse struct {
	IsRegistered bool `json:"is_registered"`
}

type EventHandler struct {
	eventSvc service.EventService
	regSvc   service.RegistrationService
}

func NewEventHandler(eventSvc service.EventService, regSvc service.RegistrationService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc, regSvc: regSvc}
}

func RegisterEventServiceServer(s grpc.ServiceRegistrar, h *EventHandler) {
	s.RegisterService(serviceDesc(eventServiceName,
		unary(eventServiceName, "CreateEvent", h.CreateEvent),
		unary(eventServiceName, "UpdateEvent", h.UpdateEvent),
		unary(eventServiceName, "GetEvent", h.GetEvent),
		unary(eventServiceName, "ListEvents", h.ListEvents),
		unary(eventServiceName, "ListClubEvents", h.ListClubEvents),
		unary(eventServiceName, "ListPendingEvents", h.ListPendingEvents),
		unary(eventServiceName, "ApproveEvent", h.ApproveEvent),
		unary(eventServiceName, "RejectEvent", h.RejectEvent),
		unary(eventServiceName, "GetApproval", h.GetApproval),
		unary(eventServiceName, "RegisterForEvent", h.RegisterForEvent),
		unary(eventServiceName, "UnregisterFromEvent", h.UnregisterFromEvent),
		unary(eventServiceName, "ListAttendees", h.ListAttendees),
		unary(eventServiceName, "ListMyEvents", h.ListMyEvents),
		unary(eventServiceName, "IsRegistered", h.IsRegistered),
	), h)
}

func (h *EventHandler) CreateEvent(ctx context.Context, req *CreateEventRequest) (*EventResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	event, err := h.eventSvc.CreateEvent(ctx, userID, req.ClubID, req.EventInput)
	if err != nil {
		return nil, err
	}
	return &EventResponse{Event: event}, nil
}

func (h *EventHandler) UpdateEvent(ctx context.Context, req *UpdateEventRequest) (*EventResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	event, err := h.eventSvc.UpdateEvent(ctx, userID, req.EventID, req.EventInput)
	if err != nil {
		return nil, err
	}
	return &EventResponse{Event: event}, nil
}

func (h *EventHandler) GetEvent(ctx context.Context, req *EventIDRequest) (*EventResponse, error) {
	event, err := h.eventSvc.GetEvent(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	return &EventResponse{Event: event}, nil
}

func (h *EventHandler) ListEvents(ctx context.Context, _ *Empty) (*ListEventsResponse, error) {
	events, err := h.eventSvc.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	return &ListEventsResponse{Events: events}, nil
}

func (h *EventHandler) ListClubEvents(ctx context.Context, req *ClubIDRequest) (*ListEventsResponse, error) {
	events, err := h.eventSvc.ListClubEvents(ctx, req.ClubID)
	if err != nil {
		return nil, err
	}
	return &ListEventsResponse{Events: events}, nil
}

func (h *EventHandler) ListPendingEvents(ctx context.Context, _ *Empty) (*ListEventsResponse, error) {
	events, err := h.eventSvc.ListPendingEvents(ctx)
	if err != nil {
		return nil, err
	}
	return &ListEventsResponse{Events: events}, nil
}

func (h *EventHandler) ApproveEvent(ctx context.Context, req *DecideEventRequest) (*EventResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	event, err := h.eventSvc.ApproveEvent(ctx, userID, req.EventID, req.Comment)
	if err != nil {
		return nil, err
	}
	return &EventResponse{Event: event}, nil
}

func (h *EventHandler) RejectEvent(ctx context.Context, req *DecideEventRequest) (*EventResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	event, err := h.eventSvc.RejectEvent(ctx, userID, req.EventID, req.Comment)
	if err != nil {
		return nil, err
	}
	return &EventResponse{Event: event}, nil
}

func (h *EventHandler) GetApproval(ctx context.Context, req *EventIDRequest) (*ApprovalResponse, error) {
	approval, err := h.eventSvc.GetApproval(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	return &ApprovalResponse{Approval: approval}, nil
}

func (h *EventHandler) RegisterForEvent(ctx context.Context, req *EventIDRequest) (*RegistrationResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	reg, err := h.regSvc.Register(ctx, userID, req.EventID)
	if err != nil {
		return nil, err
	}
	return &RegistrationResponse{Registration: reg}, nil
}

func (h *EventHandler) UnregisterFromEvent(ctx context.Context, req *EventIDRequest) (*SuccessResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.regSvc.Unregister(ctx, userID, req.EventID); err != nil {
		return nil, err
	}
	return &SuccessResponse{Success: true}, nil
}

func (h *EventHandler) ListAttendees(ctx context.Context, req *EventIDRequest) (*ListAttendeesResponse, error) {
	regs, err := h.regSvc.AttendeesOf(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	return &ListAttendeesResponse{Attendees: regs, Count: int32(len(regs))}, nil
}

func (h *EventHandler) ListMyEvents(ctx context.Context, _ *Empty) (*ListEventsResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	events, err := h.regSvc.EventsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListEventsResponse{Events: events}, nil
}

func (h *EventHandler) IsRegistered(ctx context.Context, req *EventIDRequest) (*IsRegisteredResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := h.regSvc.IsRegistered(ctx, userID, req.EventID)
	if err != nil {
		return nil, err
	}
	return &IsRegisteredResponse{IsRegistered: ok}, nil
}
