package grpc

import (
	"context"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/service"

	"google.golang.org/grpc"
)

const authServiceName = servicePackage + "AuthService"

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest may leave RefreshToken empty; the token from the
// authorization header is used instead.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type AuthResponse struct {
	User         *domain.User `json:"user,omitempty"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

func RegisterAuthServiceServer(s grpc.ServiceRegistrar, h *AuthHandler) {
	s.RegisterService(serviceDesc(authServiceName,
		unary(authServiceName, "Register", h.Register),
		unary(authServiceName, "Login", h.Login),
		unary(authServiceName, "RefreshToken", h.RefreshToken),
	), h)
}

func (h *AuthHandler) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	user, pair, err := h.authSvc.Register(ctx, service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (h *AuthHandler) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, pair, err := h.authSvc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (h *AuthHandler) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*AuthResponse, error) {
	token := req.RefreshToken
	if token == "" {
		token = bearerToken(ctx)
	}
	pair, err := h.authSvc.RefreshToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}
