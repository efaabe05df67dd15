package entities

import "time"

// Permissions is the access level of a user account.
type Permissions string

const (
	PermissionsNormal Permissions = "normal"
	PermissionsAdmin  Permissions = "admin"
)

// Valid reports whether p is a known permissions value.
func (p Permissions) Valid() bool {
	return p == PermissionsNormal || p == PermissionsAdmin
}

// User is a catalogue account. The password hash never leaves the server.
// FailedLoginCount and LockedUntil back the account lockout mechanism.
type User struct {
	ID               uint        `gorm:"primaryKey" json:"userID"`
	FirstName        string      `gorm:"size:100;not null" json:"firstName"`
	LastName         string      `gorm:"size:100;not null" json:"lastName"`
	Email            string      `gorm:"size:100;not null" json:"email"`
	Username         string      `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash     string      `gorm:"size:100;not null" json:"-"`
	Permissions      Permissions `gorm:"size:10;not null;default:normal" json:"permissions"`
	FailedLoginCount int         `json:"-"`
	LockedUntil      *time.Time  `json:"-"`
	LastLoginAt      *time.Time  `json:"-"`
	CreatedAt        time.Time   `json:"-"`
	UpdatedAt        time.Time   `json:"-"`
}

// IsAdmin reports whether the user holds the admin permission level.
func (u *User) IsAdmin() bool {
	return u.Permissions == PermissionsAdmin
}
