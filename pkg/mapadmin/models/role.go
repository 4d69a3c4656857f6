package models

// Role names understood by the access checks
const (
	RoleUser       = "ROLE_USER"
	RoleAdmin      = "ROLE_ADMIN"
	RoleSuperAdmin = "ROLE_SUPERADMIN"
)

// Role is a named permission set assigned to users
type Role struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// GetID returns the primary key
func (r Role) GetID() uint { return r.ID }

// DefaultRoles lists the roles seeded on migration
func DefaultRoles() []string {
	return []string{RoleUser, RoleAdmin, RoleSuperAdmin}
}
