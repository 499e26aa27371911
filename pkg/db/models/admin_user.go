package models

import "time"

// Admin roles. Authorization elsewhere is binary (authenticated or not); the
// role is stored for the back-office UI only.
const (
	RoleSuperadmin = "superadmin"
	RoleEditor     = "editor"
)

// DefaultAdminID is the distinguished admin record that always exists and can
// never be deleted.
const DefaultAdminID = "default-admin"

// AdminUser is a back-office account. PasswordHash is the hex SHA-256 digest
// of the trimmed password.
type AdminUser struct {
	ID           string    `gorm:"column:id;primaryKey" json:"id"`
	Username     string    `gorm:"column:username;not null;uniqueIndex" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"passwordHash"`
	Role         string    `gorm:"column:role;not null" json:"role"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (AdminUser) TableName() string { return "admin_users" }
