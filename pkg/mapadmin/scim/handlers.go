package scim

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mikepea/mapadmin/pkg/mapadmin/apierror"
	"github.com/mikepea/mapadmin/pkg/mapadmin/auth"
	"github.com/mikepea/mapadmin/pkg/mapadmin/models"
	"github.com/mikepea/mapadmin/pkg/mapadmin/service"
)

const (
	defaultCount = 100
	maxCount     = 1000
)

// Handler serves the SCIM endpoints
type Handler struct {
	svc     *service.Service
	baseURL string
	logger  *slog.Logger
}

// NewHandler creates a new SCIM handler. baseURL prefixes resource locations.
func NewHandler(svc *service.Service, baseURL string, logger *slog.Logger) *Handler {
	return &Handler{
		svc:     svc,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.With(slog.String("component", "scim")),
	}
}

func (h *Handler) location(kind string, id uint) string {
	return h.baseURL + "/scim/v2/" + kind + "/" + strconv.FormatUint(uint64(id), 10)
}

func writeError(c *gin.Context, status int, detail, scimType string) {
	c.JSON(status, ErrorResponse{
		Schemas:  []string{SchemaError},
		Detail:   detail,
		Status:   strconv.Itoa(status),
		ScimType: scimType,
	})
}

// writeServiceError maps service errors like the JSON API but in SCIM form
func (h *Handler) writeServiceError(c *gin.Context, err error) {
	status := apierror.Status(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", slog.String("path", c.FullPath()), slog.Any("error", err))
		writeError(c, status, "Internal server error", "")
		return
	}
	writeError(c, status, err.Error(), "")
}

// filterEq parses the single supported filter form `attr eq "value"`.
// An empty filter yields ok with an empty attribute.
func filterEq(filter string) (attr, value string, ok bool) {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return "", "", true
	}
	fields := strings.SplitN(filter, " ", 3)
	if len(fields) != 3 || !strings.EqualFold(fields[1], "eq") {
		return "", "", false
	}
	value, err := strconv.Unquote(strings.TrimSpace(fields[2]))
	if err != nil {
		return "", "", false
	}
	return fields[0], value, true
}

// page applies startIndex (1-based) and count to n items
func page(c *gin.Context, n int) (start, end, startIndex int) {
	startIndex, _ = strconv.Atoi(c.DefaultQuery("startIndex", "1"))
	count, _ := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(defaultCount)))
	if startIndex < 1 {
		startIndex = 1
	}
	if count < 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}
	start = min(startIndex-1, n)
	end = min(start+count, n)
	return start, end, startIndex
}

func (h *Handler) userToSCIM(u *models.User) User {
	created, updated := u.CreatedAt, u.UpdatedAt
	out := User{
		Schemas: []string{SchemaUser},
		ID:      strconv.FormatUint(uint64(u.ID), 10),
		Meta: Meta{
			ResourceType: "User",
			Created:      &created,
			LastModified: &updated,
			Location:     h.location("Users", u.ID),
		},
		UserName: u.Name,
		Name: Name{
			Formatted:  strings.TrimSpace(u.FirstName + " " + u.LastName),
			GivenName:  u.FirstName,
			FamilyName: u.LastName,
		},
		DisplayName:       strings.TrimSpace(u.FirstName + " " + u.LastName),
		PreferredLanguage: u.Language,
		Active:            u.Active,
	}
	if out.DisplayName == "" {
		out.DisplayName = u.Name
	}
	if u.Email != "" {
		out.Emails = []MultiValue{{Value: u.Email, Type: "work", Primary: true}}
	}
	if u.Street != "" || u.City != "" || u.Zip != "" || u.Country != "" {
		out.Addresses = []Address{{StreetAddress: u.Street, Locality: u.City, PostalCode: u.Zip, Country: u.Country, Type: "work"}}
	}
	for _, g := range u.Groups {
		out.Groups = append(out.Groups, MultiValue{
			Value:   strconv.FormatUint(uint64(g.ID), 10),
			Ref:     h.location("Groups", g.ID),
			Display: g.Name,
		})
	}
	for _, r := range u.Roles {
		out.Roles = append(out.Roles, MultiValue{Value: r.Name})
	}
	return out
}

func (h *Handler) groupToSCIM(g *models.Group) Group {
	created, updated := g.CreatedAt, g.UpdatedAt
	out := Group{
		Schemas:    []string{SchemaGroup},
		ID:         strconv.FormatUint(uint64(g.ID), 10),
		ExternalID: g.Number,
		Meta: Meta{
			ResourceType: "Group",
			Created:      &created,
			LastModified: &updated,
			Location:     h.location("Groups", g.ID),
		},
		DisplayName: g.Name,
	}
	for _, u := range g.Users {
		out.Members = append(out.Members, MultiValue{
			Value:   strconv.FormatUint(uint64(u.ID), 10),
			Ref:     h.location("Users", u.ID),
			Display: u.Name,
		})
	}
	return out
}

// ListUsers returns the visible users (GET /scim/v2/Users).
// Supports filter=userName eq "name" and filter=emails eq "address".
func (h *Handler) ListUsers(c *gin.Context) {
	attr, value, ok := filterEq(c.Query("filter"))
	if !ok || (attr != "" && attr != "userName" && attr != "emails" && attr != "emails.value") {
		writeError(c, http.StatusBadRequest, "Unsupported filter", "invalidFilter")
		return
	}

	principal, _ := auth.GetPrincipal(c)
	users, err := h.svc.ListUsers(c.Request.Context(), principal, service.UserFilter{})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resources := make([]User, 0, len(users))
	for i := range users {
		u := &users[i]
		switch attr {
		case "userName":
			if !strings.EqualFold(u.Name, value) {
				continue
			}
		case "emails", "emails.value":
			if !strings.EqualFold(u.Email, value) {
				continue
			}
		}
		resources = append(resources, h.userToSCIM(u))
	}

	start, end, startIndex := page(c, len(resources))
	c.JSON(http.StatusOK, ListResponse{
		Schemas:      []string{SchemaListResponse},
		TotalResults: len(resources),
		StartIndex:   startIndex,
		ItemsPerPage: end - start,
		Resources:    resources[start:end],
	})
}

// GetUser returns a single user (GET /scim/v2/Users/:id)
func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid user ID", "invalidValue")
		return
	}
	principal, _ := auth.GetPrincipal(c)
	user, err := h.svc.GetUser(c.Request.Context(), principal, uint(id))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.userToSCIM(user))
}

// ListGroups returns the visible groups (GET /scim/v2/Groups).
// Supports filter=displayName eq "name" and filter=externalId eq "number".
func (h *Handler) ListGroups(c *gin.Context) {
	attr, value, ok := filterEq(c.Query("filter"))
	if !ok || (attr != "" && attr != "displayName" && attr != "externalId") {
		writeError(c, http.StatusBadRequest, "Unsupported filter", "invalidFilter")
		return
	}

	principal, _ := auth.GetPrincipal(c)
	groups, err := h.svc.ListGroups(c.Request.Context(), principal)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resources := make([]Group, 0, len(groups))
	for i := range groups {
		g := &groups[i]
		if attr == "displayName" && g.Name != value {
			continue
		}
		if attr == "externalId" && g.Number != value {
			continue
		}
		resources = append(resources, h.groupToSCIM(g))
	}

	start, end, startIndex := page(c, len(resources))
	c.JSON(http.StatusOK, ListResponse{
		Schemas:      []string{SchemaListResponse},
		TotalResults: len(resources),
		StartIndex:   startIndex,
		ItemsPerPage: end - start,
		Resources:    resources[start:end],
	})
}

// GetGroup returns a single group (GET /scim/v2/Groups/:id)
func (h *Handler) GetGroup(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		writeError(c, http.StatusBadRequest, "Invalid group ID", "invalidValue")
		return
	}
	principal, _ := auth.GetPrincipal(c)
	group, err := h.svc.GetGroup(c.Request.Context(), principal, uint(id))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.groupToSCIM(group))
}

// GetServiceProviderConfig returns the service provider configuration
func (h *Handler) GetServiceProviderConfig(c *gin.Context) {
	c.JSON(http.StatusOK, ServiceProviderConfig{
		Schemas: []string{SchemaServiceProvider},
		Filter:  FilterConfig{Supported: true, MaxResults: maxCount},
		AuthenticationSchemes: []AuthenticationScheme{
			{
				Type:        "oauthbearertoken",
				Name:        "Bearer Token",
				Description: "JWT or API key in the Authorization header",
				Primary:     true,
			},
		},
		Meta: Meta{
			ResourceType: "ServiceProviderConfig",
			Location:     h.baseURL + "/scim/v2/ServiceProviderConfig",
		},
	})
}

// GetResourceTypes returns the supported resource types
func (h *Handler) GetResourceTypes(c *gin.Context) {
	c.JSON(http.StatusOK, []ResourceType{
		{
			Schemas:     []string{SchemaResourceType},
			ID:          "User",
			Name:        "User",
			Endpoint:    "/Users",
			Description: "User Account",
			Schema:      SchemaUser,
			Meta:        Meta{ResourceType: "ResourceType", Location: h.baseURL + "/scim/v2/ResourceTypes/User"},
		},
		{
			Schemas:     []string{SchemaResourceType},
			ID:          "Group",
			Name:        "Group",
			Endpoint:    "/Groups",
			Description: "Group",
			Schema:      SchemaGroup,
			Meta:        Meta{ResourceType: "ResourceType", Location: h.baseURL + "/scim/v2/ResourceTypes/Group"},
		},
	})
}

// RegisterRoutes registers the SCIM routes on a group mounted at /scim/v2
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ServiceProviderConfig", h.GetServiceProviderConfig)
	rg.GET("/ResourceTypes", h.GetResourceTypes)
	rg.GET("/Users", h.ListUsers)
	rg.GET("/Users/:id", h.GetUser)
	rg.GET("/Groups", h.ListGroups)
	rg.GET("/Groups/:id", h.GetGroup)
}
