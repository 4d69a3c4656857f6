package groups

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/mikepea/mapadmin/pkg/mapadmin/apierror"
	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
)

// MemberResponse represents a group member in API responses
type MemberResponse struct {
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

// ListMembers returns the members of a group, ordered by name
func (h *Handler) ListMembers(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	principal, _ := auth.GetPrincipal(c)
	group, err := h.svc.GetGroup(c.Request.Context(), principal, id)
	if err != nil {
		apierror.Write(c, h.logger, err)
		return
	}

	members := make([]MemberResponse, len(group.Users))
	for i, u := range group.Users {
		members[i] = MemberResponse{UserID: u.ID, Name: u.Name, Email: u.Email, Active: u.Active}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].Name < members[j].Name })
	c.JSON(http.StatusOK, members)
}
