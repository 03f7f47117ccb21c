package model

import "time"

// Clinic staff roles. Admins manage knowledge, cache and transcripts;
// staff can only read.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a clinic staff account for the demo UI and admin API. Customers
// never get accounts; they are identified by their LINE user id.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:128;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:16;not null;default:staff" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
