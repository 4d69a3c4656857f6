// Package groups serves the group administration API
package groups

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mikepea/mapadmin/pkg/mapadmin/apierror"
	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
	"github.com/mikepea/mapadmin/pkg/mapadmin/lean"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/service"
)

// Handler handles group-related requests
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

// NewHandler creates a new groups handler
func NewHandler(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With(slog.String("component", "groups"))}
}

// GroupRequest represents a group in create and update requests
type GroupRequest struct {
	ID         uint   `json:"id"`
	Number     string `json:"number" binding:"required,max=64"`
	Name       string `json:"name" binding:"required,max=255"`
	Street     string `json:"street"`
	Zip        string `json:"zip"`
	City       string `json:"city"`
	Country    string `json:"country"`
	Language   string `json:"language" binding:"max=8"`
	Mail       string `json:"mail" binding:"omitempty,email"`
	AppUser    string `json:"app_user"`
	ModuleList string `json:"module_list"`
}

func (r GroupRequest) input() service.GroupInput {
	return service.GroupInput{
		ID:         r.ID,
		Number:     r.Number,
		Name:       r.Name,
		Street:     r.Street,
		Zip:        r.Zip,
		City:       r.City,
		Country:    r.Country,
		Language:   r.Language,
		Mail:       r.Mail,
		AppUser:    r.AppUser,
		ModuleList: r.ModuleList,
	}
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID         uint        `json:"id"`
	Number     string      `json:"number"`
	Name       string      `json:"name"`
	Street     string      `json:"street"`
	Zip        string      `json:"zip"`
	City       string      `json:"city"`
	Country    string      `json:"country"`
	Language   string      `json:"language"`
	Mail       string      `json:"mail"`
	AppUser    string      `json:"app_user"`
	ModuleList string      `json:"module_list"`
	Users      lean.IDList `json:"users"`
	Modules    lean.IDList `json:"modules"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// NewGroupResponse renders a group loaded with its relations
func NewGroupResponse(g models.Group) GroupResponse {
	return GroupResponse{
		ID:         g.ID,
		Number:     g.Number,
		Name:       g.Name,
		Street:     g.Street,
		Zip:        g.Zip,
		City:       g.City,
		Country:    g.Country,
		Language:   g.Language,
		Mail:       g.Mail,
		AppUser:    g.AppUser,
		ModuleList: g.ModuleList,
		Users:      lean.IDs(g.Users),
		Modules:    lean.IDs(g.Modules),
		CreatedAt:  g.CreatedAt,
		UpdatedAt:  g.UpdatedAt,
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return 0, false
	}
	return uint(id), true
}

// List returns the groups visible to the caller
func (h *Handler) List(c *gin.Context) {
	principal, _ := auth.GetPrincipal(c)
	groups, err := h.svc.ListGroups(c.Request.Context(), principal)
	if err != nil {
		apierror.Write(c, h.logger, err)
		return
	}
	out := make([]GroupResponse, len(groups))
	for i, g := range groups {
		out[i] = NewGroupResponse(g)
	}
	c.JSON(http.StatusOK, out)
}

// Create creates a group together with its leader
func (h *Handler) Create(c *gin.Context) {
	var req GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal, _ := auth.GetPrincipal(c)
	group, err := h.svc.CreateGroup(c.Request.Context(), principal, req.input())
	if err != nil {
		apierror.Write(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, NewGroupResponse(*group))
}

// Get returns a single group
func (h *Handler) Get(c *gin.Context) {
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
	c.JSON(http.StatusOK, NewGroupResponse(*group))
}

// Update updates the groups of a JSON array
func (h *Handler) Update(c *gin.Context) {
	var req []GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one group is required"})
		return
	}
	inputs := make([]service.GroupInput, len(req))
	for i, r := range req {
		inputs[i] = r.input()
	}

	principal, _ := auth.GetPrincipal(c)
	groups, err := h.svc.UpdateGroups(c.Request.Context(), principal, inputs)
	if err != nil {
		apierror.Write(c, h.logger, err)
		return
	}
	out := make([]GroupResponse, len(groups))
	for i, g := range groups {
		out[i] = NewGroupResponse(g)
	}
	c.JSON(http.StatusOK, out)
}

// Delete deletes a group. Its members are kept.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	principal, _ := auth.GetPrincipal(c)
	if err := h.svc.DeleteGroup(c.Request.Context(), principal, id); err != nil {
		apierror.Write(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Group deleted"})
}

// RegisterRoutes registers group routes. The group must be protected by
// authentication and an admin role check; updates and deletes additionally
// require ROLE_SUPERADMIN.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/groups", h.List)
	rg.POST("/groups", h.Create)
	rg.GET("/groups/:id", h.Get)
	rg.GET("/groups/:id/members", h.ListMembers)

	super := rg.Group("", auth.RequireRole(models.RoleSuperAdmin))
	super.PUT("/groups", h.Update)
	super.DELETE("/groups/:id", h.Delete)
}
