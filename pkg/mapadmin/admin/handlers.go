// Package admin serves the user administration API
package admin

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

// Handler handles user administration requests
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

// NewHandler creates a new admin handler
func NewHandler(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With(slog.String("component", "admin"))}
}

// UserRequest is one user in a create or update request. On update, a
// missing email, password, config reference, map layer list or role list
// keeps the stored value.
type UserRequest struct {
	Name             string   `json:"name" binding:"required,max=255"`
	Email            string   `json:"email" binding:"omitempty,email"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Street           string   `json:"street"`
	Zip              string   `json:"zip"`
	City             string   `json:"city"`
	Country          string   `json:"country"`
	Language         string   `json:"language" binding:"max=8"`
	AppUser          string   `json:"app_user"`
	Active           *bool    `json:"active"`
	ModuleList       string   `json:"module_list"`
	Password         string   `json:"password"`
	MapConfigID      *uint    `json:"map_config"`
	WmsProxyConfigID *uint    `json:"wms_proxy_config"`
	WfsProxyConfigID *uint    `json:"wfs_proxy_config"`
	MapLayers        []uint   `json:"map_layers"`
	Roles            []string `json:"roles"`
}

func (r UserRequest) input() service.UserInput {
	return service.UserInput{
		Name:             r.Name,
		Email:            r.Email,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Street:           r.Street,
		Zip:              r.Zip,
		City:             r.City,
		Country:          r.Country,
		Language:         r.Language,
		AppUser:          r.AppUser,
		Active:           r.Active,
		ModuleList:       r.ModuleList,
		Password:         r.Password,
		MapConfigID:      r.MapConfigID,
		WmsProxyConfigID: r.WmsProxyConfigID,
		WfsProxyConfigID: r.WfsProxyConfigID,
		MapLayerIDs:      r.MapLayers,
		Roles:            r.Roles,
	}
}

// UserResponse represents a user in responses. Relations are rendered as
// identifier lists.
type UserResponse struct {
	ID             uint        `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	FirstName      string      `json:"first_name"`
	LastName       string      `json:"last_name"`
	Street         string      `json:"street"`
	Zip            string      `json:"zip"`
	City           string      `json:"city"`
	Country        string      `json:"country"`
	Language       string      `json:"language"`
	AppUser        string      `json:"app_user"`
	Active         bool        `json:"active"`
	ModuleList     string      `json:"module_list"`
	MapConfig      *uint       `json:"map_config"`
	WmsProxyConfig *uint       `json:"wms_proxy_config"`
	WfsProxyConfig *uint       `json:"wfs_proxy_config"`
	Roles          lean.IDList `json:"roles"`
	Groups         lean.IDList `json:"groups"`
	Modules        lean.IDList `json:"modules"`
	MapLayers      lean.IDList `json:"map_layers"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewUserResponse renders a user loaded with its relations
func NewUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Street:         u.Street,
		Zip:            u.Zip,
		City:           u.City,
		Country:        u.Country,
		Language:       u.Language,
		AppUser:        u.AppUser,
		Active:         u.Active,
		ModuleList:     u.ModuleList,
		MapConfig:      u.MapConfigID,
		WmsProxyConfig: u.WmsProxyConfigID,
		WfsProxyConfig: u.WfsProxyConfigID,
		Roles:          lean.IDs(u.Roles),
		Groups:         lean.IDs(u.Groups),
		Modules:        lean.IDs(u.Modules),
		MapLayers:      lean.IDs(u.MapLayers),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func newUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = NewUserResponse(u)
	}
	return out
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return 0, false
	}
	return uint(id), true
}

func bindUsers(c *gin.Context) ([]service.UserInput, bool) {
	var req []UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one user is required"})
		return nil, false
	}
	inputs := make([]service.UserInput, len(req))
	for i, r := range req {
		inputs[i] = r.input()
	}
	return inputs, true
}

// ListUsers returns the users visible to the caller, optionally filtered by
// a search term (q) and a role name (role)
func (h *Handler) ListUsers(c *gin.Context) {
	principal, _ := auth.GetPrincipal(c)
	users, err := h.svc.ListUsers(c.Request.Context(), principal, service.UserFilter{
		Query: c.Query("q"),
		Role:  c.Query("role"),
	})
	if err != nil {
		apierror.Write(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponses(users))
}

// GetUser returns a single user
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	principal, _ := auth.GetPrincipal(c)
	user, err := h.svc.GetUser(c.Request.Context(), principal, id)
	if err != nil {
		apierror.Write(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(*user))
}

// CreateUsers creates the users of a JSON array
func (h *Handler) CreateUsers(c *gin.Context) {
	inputs, ok := bindUsers(c)
	if !ok {
		return
	}
	principal, _ := auth.GetPrincipal(c)
	users, err := h.svc.CreateUsers(c.Request.Context(), principal, inputs)
	if err != nil {
		apierror.Write(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, newUserResponses(users))
}

// UpdateUsers updates the users of a JSON array, matched by name
func (h *Handler) UpdateUsers(c *gin.Context) {
	inputs, ok := bindUsers(c)
	if !ok {
		return
	}
	principal, _ := auth.GetPrincipal(c)
	users, err := h.svc.UpdateUsers(c.Request.Context(), principal, inputs)
	if err != nil {
		apierror.Write(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponses(users))
}

// DeleteUser deletes a user
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	principal, _ := auth.GetPrincipal(c)
	if err := h.svc.DeleteUser(c.Request.Context(), principal, id); err != nil {
		apierror.Write(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// ResetPassword sets a new random password and mails it to the user
func (h *Handler) ResetPassword(c *gin.Context) {
	principal, _ := auth.GetPrincipal(c)
	if err := h.svc.ResetUserPassword(c.Request.Context(), principal, c.Param("id")); err != nil {
		apierror.Write(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset, the new password has been mailed to the user"})
}

// RegisterRoutes registers user administration routes. The group must be
// protected by authentication and an admin role check.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users", h.ListUsers)
	rg.GET("/users/:id", h.GetUser)
	rg.POST("/users", h.CreateUsers)
	rg.PUT("/users", h.UpdateUsers)
	rg.DELETE("/users/:id", h.DeleteUser)
	rg.POST("/users/:id/password", h.ResetPassword)
}
