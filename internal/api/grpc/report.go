package grpc

import (
	"context"

	"clubhub-backend/internal/domain"
	"clubhub-backend/internal/service"

	"google.golang.org/grpc"
)

const reportServiceName = servicePackage + "ReportService"

type GenerateReportRequest struct {
	ClubID string            `json:"club_id"`
	Type   domain.ReportType `json:"type"`
}

type ReportResponse struct {
	Report *domain.Report `json:"report"`
}

type ListReportsResponse struct {
	Reports []domain.Report `json:"reports"`
}

type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

func RegisterReportServiceServer(s grpc.ServiceRegistrar, h *ReportHandler) {
	s.RegisterService(serviceDesc(reportServiceName,
		unary(reportServiceName, "GenerateReport", h.GenerateReport),
		unary(reportServiceName, "ListClubReports", h.ListClubReports),
	), h)
}

func (h *ReportHandler) GenerateReport(ctx context.Context, req *GenerateReportRequest) (*ReportResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	report, err := h.reportSvc.GenerateReport(ctx, userID, req.ClubID, req.Type)
	if err != nil {
		return nil, err
	}
	return &ReportResponse{Report: report}, nil
}

func (h *ReportHandler) ListClubReports(ctx context.Context, req *ClubIDRequest) (*ListReportsResponse, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	reports, err := h.reportSvc.ListClubReports(ctx, userID, req.ClubID)
	if err != nil {
		return nil, err
	}
	return &ListReportsResponse{Reports: reports}, nil
}
