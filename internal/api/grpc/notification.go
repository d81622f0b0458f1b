package grpc

import (
	"context"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/service"

	"google.golang.org/grpc"
)

const notificationServiceName = servicePackage + "NotificationService"

type ListNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int32                 `json:"unread_count"`
}

type UnreadCountResponse struct {
	Count int32 `json:"count"`
}

type MarkNotificationReadRequest struct {
	NotificationID string `json:"notification_id"`
}

type CreateNotificationRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

type NotificationResponse struct {
	Notification *domain.Notification `json:"notification"`
}

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func RegisterNotificationServiceServer(s grpc.ServiceRegistrar, h *NotificationHandler) {
	s.RegisterService(serviceDesc(notificationServiceName,
		unary(notificationServiceName, "ListNotifications", h.ListNotifications),
		unary(notificationServiceName, "GetUnreadCount", h.GetUnreadCount),
		unary(notificationServiceName, "MarkNotificationRead", h.MarkNotificationRead),
		unary(notificationServiceName, "CreateNotification", h.CreateNotification),
	), h)
}

// ListNotifications returns the caller's inbox, newest first.
func (h *NotificationHandler) ListNotifications(ctx context.Context, _ *Empty) (*ListNotificationsResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := h.noteSvc.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var unread int32
	for _, n := range notes {
		if !n.Read {
			unread++
		}
	}
	return &ListNotificationsResponse{Notifications: notes, UnreadCount: unread}, nil
}

func (h *NotificationHandler) GetUnreadCount(ctx context.Context, _ *Empty) (*UnreadCountResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	n, err := h.noteSvc.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Count: n}, nil
}

func (h *NotificationHandler) MarkNotificationRead(ctx context.Context, req *MarkNotificationReadRequest) (*SuccessResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.noteSvc.MarkAsRead(ctx, userID, req.NotificationID); err != nil {
		return nil, err
	}
	return &SuccessResponse{Success: true}, nil
}

func (h *NotificationHandler) CreateNotification(ctx context.Context, req *CreateNotificationRequest) (*NotificationResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	n, err := h.noteSvc.CreateNotification(ctx, userID, req.UserID, req.Message)
	if err != nil {
		return nil, err
	}
	return &NotificationResponse{Notification: n}, nil
}
