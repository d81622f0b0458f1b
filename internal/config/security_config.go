package config

type SecurityLevel int

const (
	SecurityPublic  SecurityLevel = iota // No authentication
	SecurityRefresh                      // Refresh token required
	SecurityAccess                       // Access token required
)

// EndpointSecurityConfig maps methods to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// AuthService - Public
	"/clubhub.v1.AuthService/Register": SecurityPublic,
	"/clubhub.v1.AuthService/Login":    SecurityPublic,

	// AuthService - Refresh Protected
	"/clubhub.v1.AuthService/RefreshToken": SecurityRefresh,

	// Health - Public
	"/grpc.health.v1.Health/Check": SecurityPublic,
	"/grpc.health.v1.Health/Watch": SecurityPublic,
	"/grpc.health.v1.Health/List":  SecurityPublic,

	// UserService - All Access Protected
	"/clubhub.v1.UserService/GetMe":          SecurityAccess,
	"/clubhub.v1.UserService/GetUser":        SecurityAccess,
	"/clubhub.v1.UserService/RegisterDevice": SecurityAccess,

	// ClubService - Public browsing
	"/clubhub.v1.ClubService/GetClub":   SecurityPublic,
	"/clubhub.v1.ClubService/ListClubs": SecurityPublic,

	// ClubService - Access Protected
	"/clubhub.v1.ClubService/CreateClub":         SecurityAccess,
	"/clubhub.v1.ClubService/UpdateClub":         SecurityAccess,
	"/clubhub.v1.ClubService/ListPendingClubs":   SecurityAccess,
	"/clubhub.v1.ClubService/ListMyClubs":        SecurityAccess,
	"/clubhub.v1.ClubService/ApproveClub":        SecurityAccess,
	"/clubhub.v1.ClubService/RejectClub":         SecurityAccess,
	"/clubhub.v1.ClubService/JoinClub":           SecurityAccess,
	"/clubhub.v1.ClubService/LeaveClub":          SecurityAccess,
	"/clubhub.v1.ClubService/ListClubMembers":    SecurityAccess,
	"/clubhub.v1.ClubService/IsMember":           SecurityAccess,
	"/clubhub.v1.ClubService/ListJoinRequests":   SecurityAccess,
	"/clubhub.v1.ClubService/ResolveJoinRequest": SecurityAccess,
	"/clubhub.v1.ClubService/RequestLogoUpload":  SecurityAccess,
	"/clubhub.v1.ClubService/ConfirmLogoUpload":  SecurityAccess,

	// EventService - Public browsing
	"/clubhub.v1.EventService/GetEvent":       SecurityPublic,
	"/clubhub.v1.EventService/ListEvents":     SecurityPublic,
	"/clubhub.v1.EventService/ListClubEvents": SecurityPublic,

	// EventService - Access Protected
	"/clubhub.v1.EventService/CreateEvent":         SecurityAccess,
	"/clubhub.v1.EventService/UpdateEvent":         SecurityAccess,
	"/clubhub.v1.EventService/ListPendingEvents":   SecurityAccess,
	"/clubhub.v1.EventService/ApproveEvent":        SecurityAccess,
	"/clubhub.v1.EventService/RejectEvent":         SecurityAccess,
	"/clubhub.v1.EventService/GetApproval":         SecurityAccess,
	"/clubhub.v1.EventService/RegisterForEvent":    SecurityAccess,
	"/clubhub.v1.EventService/UnregisterFromEvent": SecurityAccess,
	"/clubhub.v1.EventService/ListAttendees":       SecurityAccess,
	"/clubhub.v1.EventService/ListMyEvents":        SecurityAccess,
	"/clubhub.v1.EventService/IsRegistered":        SecurityAccess,

	// NotificationService - Access Protected
	"/clubhub.v1.NotificationService/ListNotifications":    SecurityAccess,
	"/clubhub.v1.NotificationService/GetUnreadCount":       SecurityAccess,
	"/clubhub.v1.NotificationService/MarkNotificationRead": SecurityAccess,
	"/clubhub.v1.NotificationService/CreateNotification":   SecurityAccess,

	// ReportService - Access Protected
	"/clubhub.v1.ReportService/GenerateReport":  SecurityAccess,
	"/clubhub.v1.ReportService/ListClubReports": SecurityAccess,
}

// GetSecurityLevel returns the security level for a given method
func GetSecurityLevel(method string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[method]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
