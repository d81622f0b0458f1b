package domain

import "time"

type UserRole string

const (
	UserRoleStudent       UserRole = "student"
	UserRoleClubLeader    UserRole = "club_leader"
	UserRoleAdministrator UserRole = "administrator"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleStudent, UserRoleClubLeader, UserRoleAdministrator:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	DeviceToken  string    `json:"-"` // FCM registration token, empty when the user has no device
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdministrator() bool {
	return u != nil && u.Role == UserRoleAdministrator
}
