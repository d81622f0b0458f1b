package grpc

import (
	"context"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/service"

	"google.golang.org/grpc"
)

const userServiceName = servicePackage + "UserService"

type GetUserRequest struct {
	UserID string `json:"user_id"`
}

type RegisterDeviceRequest struct {
	DeviceToken string `json:"device_token"`
}

type UserResponse struct {
	User *domain.User `json:"user"`
}

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func RegisterUserServiceServer(s grpc.ServiceRegistrar, h *UserHandler) {
	s.RegisterService(serviceDesc(userServiceName,
		unary(userServiceName, "GetMe", h.GetMe),
		unary(userServiceName, "GetUser", h.GetUser),
		unary(userServiceName, "RegisterDevice", h.RegisterDevice),
	), h)
}

func (h *UserHandler) GetMe(ctx context.Context, _ *Empty) (*UserResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := h.userSvc.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResponse{User: user}, nil
}

func (h *UserHandler) GetUser(ctx context.Context, req *GetUserRequest) (*UserResponse, error) {
	user, err := h.userSvc.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return &UserResponse{User: user}, nil
}

func (h *UserHandler) RegisterDevice(ctx context.Context, req *RegisterDeviceRequest) (*SuccessResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.userSvc.RegisterDevice(ctx, userID, req.DeviceToken); err != nil {
		return nil, err
	}
	return &SuccessResponse{Success: true}, nil
}
