package grpc

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"clubhub-backend/internal/api/grpc/interceptor"
	"clubhub-backend/internal/metrics"
	"clubhub-backend/internal/security"
	"clubhub-backend/internal/service"
)

// Services bundles everything the RPC surface calls into.
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Clubs         service.ClubService
	Memberships   service.MembershipService
	JoinRequests  service.JoinRequestService
	Logos         service.LogoService
	Events        service.EventService
	Registrations service.RegistrationService
	Notifications service.NotificationService
	Reports       service.ReportService
}

type ServerOptions struct {
	Tokens  security.TokenManager
	Metrics *metrics.Metrics
	// RequestsPerSecond of zero turns rate limiting off.
	RequestsPerSecond float64
	Burst             int
}

// NewServer builds a gRPC server with every clubhub service and the standard
// health service registered. The returned health server starts out SERVING.
func NewServer(svcs Services, opts ServerOptions, extra ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	chain := []grpc.UnaryServerInterceptor{interceptor.Observability(opts.Metrics)}
	if opts.RequestsPerSecond > 0 {
		chain = append(chain, interceptor.NewRateLimiter(opts.RequestsPerSecond, opts.Burst).Unary())
	}
	chain = append(chain, interceptor.NewAuthInterceptor(opts.Tokens).Unary())

	s := grpc.NewServer(append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(chain...)}, extra...)...)

	RegisterAuthServiceServer(s, NewAuthHandler(svcs.Auth))
	RegisterUserServiceServer(s, NewUserHandler(svcs.Users))
	RegisterClubServiceServer(s, NewClubHandler(svcs.Clubs, svcs.Memberships, svcs.JoinRequests, svcs.Logos))
	RegisterEventServiceServer(s, NewEventHandler(svcs.Events, svcs.Registrations))
	RegisterNotificationServiceServer(s, NewNotificationHandler(svcs.Notifications))
	RegisterReportServiceServer(s, NewReportHandler(svcs.Reports))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(s, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// Register reflection service for grpcurl
	reflection.Register(s)

	return s, healthSrv
}
