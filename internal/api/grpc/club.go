package grpc

import (
	"context"
	"time"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/service"

	"google.golang.org/grpc"
)

const clubServiceName = servicePackage + "ClubService"

type ClubFields struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Logo        string `json:"logo,omitempty"`
}

func (f ClubFields) input() service.ClubInput {
	return service.ClubInput{Name: f.Name, Description: f.Description, Category: f.Category, Logo: f.Logo}
}

type CreateClubRequest struct {
	ClubFields
}

type UpdateClubRequest struct {
	ClubID string `json:"club_id"`
	ClubFields
}

type ClubIDRequest struct {
	ClubID string `json:"club_id"`
}

type DecideClubRequest struct {
	ClubID  string `json:"club_id"`
	Comment string `json:"comment,omitempty"`
}

type ClubResponse struct {
	Club *domain.Club `json:"club"`
}

type ListClubsResponse struct {
	Clubs []domain.Club `json:"clubs"`
}

type JoinClubResponse struct {
	Membership *domain.Membership  `json:"membership,omitempty"`
	Request    *domain.JoinRequest `json:"request,omitempty"`
}

type ListMembersResponse struct {
	Members []domain.Membership `json:"members"`
}

type IsMemberResponse struct {
	IsMember bool `json:"is_member"`
}

type ListJoinRequestsResponse struct {
	Requests []domain.JoinRequest `json:"requests"`
}

type ResolveJoinRequestRequest struct {
	RequestID string `json:"request_id"`
	Approved  bool   `json:"approved"`
}

type ResolveJoinRequestResponse struct {
	Membership *domain.Membership `json:"membership,omitempty"`
}

type RequestLogoUploadRequest struct {
	ClubID      string `json:"club_id"`
	ContentType string `json:"content_type"`
}

type LogoUploadResponse struct {
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ConfirmLogoUploadRequest struct {
	ClubID string `json:"club_id"`
	Key    string `json:"key"`
}

type ClubHandler struct {
	clubSvc     service.ClubService
	memberSvc   service.MembershipService
	requestsSvc service.JoinRequestService
	logoSvc     service.LogoService
}

func NewClubHandler(clubSvc service.ClubService, memberSvc service.MembershipService, requestsSvc service.JoinRequestService, logoSvc service.LogoService) *ClubHandler {
	return &ClubHandler{
		clubSvc:     clubSvc,
		memberSvc:   memberSvc,
		requestsSvc: requestsSvc,
		logoSvc:     logoSvc,
	}
}

func RegisterClubServiceServer(s grpc.ServiceRegistrar, h *ClubHandler) {
	s.RegisterService(serviceDesc(clubServiceName,
		unary(clubServiceName, "CreateClub", h.CreateClub),
		unary(clubServiceName, "UpdateClub", h.UpdateClub),
		unary(clubServiceName, "GetClub", h.GetClub),
		unary(clubServiceName, "ListClubs", h.ListClubs),
		unary(clubServiceName, "ListPendingClubs", h.ListPendingClubs),
		unary(clubServiceName, "ListMyClubs", h.ListMyClubs),
		unary(clubServiceName, "ApproveClub", h.ApproveClub),
		unary(clubServiceName, "RejectClub", h.RejectClub),
		unary(clubServiceName, "JoinClub", h.JoinClub),
		unary(clubServiceName, "LeaveClub", h.LeaveClub),
		unary(clubServiceName, "ListClubMembers", h.ListClubMembers),
		unary(clubServiceName, "IsMember", h.IsMember),
		unary(clubServiceName, "ListJoinRequests", h.ListJoinRequests),
		unary(clubServiceName, "ResolveJoinRequest", h.ResolveJoinRequest),
		unary(clubServiceName, "RequestLogoUpload", h.RequestLogoUpload),
		unary(clubServiceName, "ConfirmLogoUpload", h.ConfirmLogoUpload),
		unary(clubServiceName, "RemoveLogo", h.RemoveLogo),
	), h)
}

func (h *ClubHandler) CreateClub(ctx context.Context, req *CreateClubRequest) (*ClubResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	club, err := h.clubSvc.CreateClub(ctx, userID, req.input())
	if err != nil {
		return nil, err
	}
	return &ClubResponse{Club: club}, nil
}

func (h *ClubHandler) UpdateClub(ctx context.Context, req *UpdateClubRequest) (*ClubResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	club, err := h.clubSvc.UpdateClub(ctx, userID, req.ClubID, req.input())
	if err != nil {
		return nil, err
	}
	return &ClubResponse{Club: club}, nil
}

func (h *ClubHandler) GetClub(ctx context.Context, req *ClubIDRequest) (*ClubResponse, error) {
	club, err := h.clubSvc.GetClub(ctx, req.ClubID)
	if err != nil {
		return nil, err
	}
	return &ClubResponse{Club: club}, nil
}

func (h *ClubHandler) ListClubs(ctx context.Context, _ *Empty) (*ListClubsResponse, error) {
	clubs, err := h.clubSvc.ListClubs(ctx)
	if err != nil {
		return nil, err
	}
	return &ListClubsResponse{Clubs: clubs}, nil
}

func (h *ClubHandler) ListPendingClubs(ctx context.Context, _ *Empty) (*ListClubsResponse, error) {
	clubs, err := h.clubSvc.ListPendingClubs(ctx)
	if err != nil {
		return nil, err
	}
	return &ListClubsResponse{Clubs: clubs}, nil
}

func (h *ClubHandler) ListMyClubs(ctx context.Context, _ *Empty) (*ListClubsResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	clubs, err := h.clubSvc.ListClubsOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ListClubsResponse{Clubs: clubs}, nil
}

func (h *ClubHandler) ApproveClub(ctx context.Context, req *DecideClubRequest) (*ClubResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	club, err := h.clubSvc.ApproveClub(ctx, userID, req.ClubID, req.Comment)
	if err != nil {
		return nil, err
	}
	return &ClubResponse{Club: club}, nil
}

func (h *ClubHandler) RejectClub(ctx context.Context, req *DecideClubRequest) (*ClubResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	club, err := h.clubSvc.RejectClub(ctx, userID, req.ClubID, req.Comment)
	if err != nil {
		return nil, err
	}
	return &ClubResponse{Club: club}, nil
}

func (h *ClubHandler) JoinClub(ctx context.Context, req *ClubIDRequest) (*JoinClubResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	res, err := h.memberSvc.Join(ctx, userID, req.ClubID)
	if err != nil {
		return nil, err
	}
	return &JoinClubResponse{Membership: res.Membership, Request: res.Request}, nil
}

func (h *ClubHandler) LeaveClub(ctx context.Context, req *ClubIDRequest) (*SuccessResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.memberSvc.Leave(ctx, userID, req.ClubID); err != nil {
		return nil, err
	}
	return &SuccessResponse{Success: true}, nil
}

func (h *ClubHandler) ListClubMembers(ctx context.Context, req *ClubIDRequest) (*ListMembersResponse, error) {
	members, err := h.memberSvc.MembersOf(ctx, req.ClubID)
	if err != nil {
		return nil, err
	}
	return &ListMembersResponse{Members: members}, nil
}

func (h *ClubHandler) IsMember(ctx context.Context, req *ClubIDRequest) (*IsMemberResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := h.memberSvc.IsMember(ctx, userID, req.ClubID)
	if err != nil {
		return nil, err
	}
	return &IsMemberResponse{IsMember: ok}, nil
}

func (h *ClubHandler) ListJoinRequests(ctx context.Context, req *ClubIDRequest) (*ListJoinRequestsResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	reqs, err := h.requestsSvc.ListForClub(ctx, userID, req.ClubID)
	if err != nil {
		return nil, err
	}
	return &ListJoinRequestsResponse{Requests: reqs}, nil
}

func (h *ClubHandler) ResolveJoinRequest(ctx context.Context, req *ResolveJoinRequestRequest) (*ResolveJoinRequestResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	m, err := h.requestsSvc.Resolve(ctx, userID, req.RequestID, req.Approved)
	if err != nil {
		return nil, err
	}
	return &ResolveJoinRequestResponse{Membership: m}, nil
}

func (h *ClubHandler) RequestLogoUpload(ctx context.Context, req *RequestLogoUploadRequest) (*LogoUploadResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	up, err := h.logoSvc.RequestLogoUpload(ctx, userID, req.ClubID, req.ContentType)
	if err != nil {
		return nil, err
	}
	return &LogoUploadResponse{UploadURL: up.UploadURL, Key: up.Key, ExpiresAt: up.ExpiresAt}, nil
}

func (h *ClubHandler) ConfirmLogoUpload(ctx context.Context, req *ConfirmLogoUploadRequest) (*ClubResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	club, err := h.logoSvc.ConfirmLogoUpload(ctx, userID, req.ClubID, req.Key)
	if err != nil {
		return nil, err
	}
	return &ClubResponse{Club: club}, nil
}

func (h *ClubHandler) RemoveLogo(ctx context.Context, req *ClubIDRequest) (*ClubResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	club, err := h.logoSvc.RemoveLogo(ctx, userID, req.ClubID)
	if err != nil {
		return nil, err
	}
	return &ClubResponse{Club: club}, nil
}
