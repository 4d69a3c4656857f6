package auth

import (
	"context"
	"slices"

	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
)

// Principal is the authenticated caller of a request
type Principal struct {
	UserID   uint     `json:"user_id"`
	Name     string   `json:"name"`
	Roles    []string `json:"roles"`
	GroupIDs []uint   `json:"group_ids"`
}

// PrincipalLoader resolves a user id into a Principal. It returns an error
// if the user does not exist or is inactive.
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, userID uint) (*Principal, error)
}

// HasRole reports whether the principal holds the named role
func (p *Principal) HasRole(name string) bool {
	return p != nil && slices.Contains(p.Roles, name)
}

// HasAnyRole reports whether the principal holds at least one of names
func (p *Principal) HasAnyRole(names ...string) bool {
	for _, name := range names {
		if p.HasRole(name) {
			return true
		}
	}
	return false
}

// IsSuperAdmin reports whether the principal holds ROLE_SUPERADMIN
func (p *Principal) IsSuperAdmin() bool {
	return p.HasRole(models.RoleSuperAdmin)
}

// InGroup reports whether the principal is a member of the group
func (p *Principal) InGroup(groupID uint) bool {
	return p != nil && slices.Contains(p.GroupIDs, groupID)
}

// PrincipalFromUser builds a Principal from a user with Roles and Groups loaded
func PrincipalFromUser(u *models.User) *Principal {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = r.Name
	}
	return &Principal{
		UserID:   u.ID,
		Name:     u.Name,
		Roles:    roles,
		GroupIDs: u.GroupIDs(),
	}
}
