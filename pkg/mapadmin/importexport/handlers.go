// Package importexport exports the users and groups visible to the caller
// as JSON or CSV.
package importexport

import (
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mikepea/mapadmin/pkg/mapadmin/apierror"
	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/service"
)

// Handler handles export requests
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

// NewHandler creates a new export handler
func NewHandler(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger.With(slog.String("component", "export"))}
}

// ExportUser is a user row of an export. Relations are flattened to names.
type ExportUser struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	City      string   `json:"city"`
	Country   string   `json:"country"`
	Language  string   `json:"language"`
	Active    bool     `json:"active"`
	Roles     []string `json:"roles"`
	Groups    []string `json:"groups"`
	Created   string   `json:"created"`
}

// ExportGroup is a group row of an export
type ExportGroup struct {
	ID      uint     `json:"id"`
	Number  string   `json:"number"`
	Name    string   `json:"name"`
	City    string   `json:"city"`
	Country string   `json:"country"`
	Mail    string   `json:"mail"`
	Members []string `json:"members"`
}

var (
	userHeader  = []string{"id", "name", "email", "first_name", "last_name", "city", "country", "language", "active", "roles", "groups", "created"}
	groupHeader = []string{"id", "number", "name", "city", "country", "mail", "members"}
)

func newExportUser(u models.User) ExportUser {
	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = r.Name
	}
	groups := make([]string, len(u.Groups))
	for i, g := range u.Groups {
		groups[i] = g.Number
	}
	return ExportUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		City:      u.City,
		Country:   u.Country,
		Language:  u.Language,
		Active:    u.Active,
		Roles:     roles,
		Groups:    groups,
		Created:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (u ExportUser) record() []string {
	return []string{
		strconv.FormatUint(uint64(u.ID), 10),
		u.Name,
		u.Email,
		u.FirstName,
		u.LastName,
		u.City,
		u.Country,
		u.Language,
		strconv.FormatBool(u.Active),
		strings.Join(u.Roles, " "),
		strings.Join(u.Groups, " "),
		u.Created,
	}
}

func newExportGroup(g models.Group) ExportGroup {
	members := make([]string, len(g.Users))
	for i, u := range g.Users {
		members[i] = u.Name
	}
	return ExportGroup{
		ID:      g.ID,
		Number:  g.Number,
		Name:    g.Name,
		City:    g.City,
		Country: g.Country,
		Mail:    g.Mail,
		Members: members,
	}
}

func (g ExportGroup) record() []string {
	return []string{
		strconv.FormatUint(uint64(g.ID), 10),
		g.Number,
		g.Name,
		g.City,
		g.Country,
		g.Mail,
		strings.Join(g.Members, " "),
	}
}

// format returns the requested export format, writing a 400 for unknown ones
func format(c *gin.Context) (string, bool) {
	f := c.DefaultQuery("format", "json")
	if f != "json" && f != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format, use json or csv"})
		return "", false
	}
	return f, true
}

func writeCSV(c *gin.Context, name string, header []string, rows [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename="+name+".csv")
	}
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	w.Write(header)
	w.WriteAll(rows)
}

// ExportUsers exports the users visible to the caller
func (h *Handler) ExportUsers(c *gin.Context) {
	f, ok := format(c)
	if !ok {
		return
	}

	principal, _ := auth.GetPrincipal(c)
	users, err := h.svc.ListUsers(c.Request.Context(), principal, service.UserFilter{Role: c.Query("role")})
	if err != nil {
		apierror.Write(c, h.logger, err)
		return
	}

	rows := make([]ExportUser, len(users))
	for i, u := range users {
		rows[i] = newExportUser(u)
	}

	if f == "csv" {
		records := make([][]string, len(rows))
		for i, r := range rows {
			records[i] = r.record()
		}
		writeCSV(c, "mapadmin-users", userHeader, records)
		return
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename=mapadmin-users.json")
	}
	c.JSON(http.StatusOK, rows)
}

// ExportGroups exports the groups visible to the caller with their members
func (h *Handler) ExportGroups(c *gin.Context) {
	f, ok := format(c)
	if !ok {
		return
	}

	principal, _ := auth.GetPrincipal(c)
	groups, err := h.svc.ListGroups(c.Request.Context(), principal)
	if err != nil {
		apierror.Write(c, h.logger, err)
		return
	}

	rows := make([]ExportGroup, len(groups))
	for i, g := range groups {
		rows[i] = newExportGroup(g)
	}

	if f == "csv" {
		records := make([][]string, len(rows))
		for i, r := range rows {
			records[i] = r.record()
		}
		writeCSV(c, "mapadmin-groups", groupHeader, records)
		return
	}

	if c.Query("download") == "true" {
		c.Header("Content-Disposition", "attachment; filename=mapadmin-groups.json")
	}
	c.JSON(http.StatusOK, rows)
}

// RegisterRoutes registers export routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/export/users", h.ExportUsers)
	rg.GET("/export/groups", h.ExportGroups)
}
