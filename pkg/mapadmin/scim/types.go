// Package scim exposes users and groups read-only as SCIM 2.0 resources
// (RFC 7643/7644) for identity providers that reconcile accounts.
package scim

import "time"

// SCIM 2.0 schema URIs
const (
	SchemaUser            = "urn:ietf:params:scim:schemas:core:2.0:User"
	SchemaGroup           = "urn:ietf:params:scim:schemas:core:2.0:Group"
	SchemaListResponse    = "urn:ietf:params:scim:api:messages:2.0:ListResponse"
	SchemaError           = "urn:ietf:params:scim:api:messages:2.0:Error"
	SchemaServiceProvider = "urn:ietf:params:scim:schemas:core:2.0:ServiceProviderConfig"
	SchemaResourceType    = "urn:ietf:params:scim:schemas:core:2.0:ResourceType"
)

// Meta contains resource metadata
type Meta struct {
	ResourceType string     `json:"resourceType"`
	Created      *time.Time `json:"created,omitempty"`
	LastModified *time.Time `json:"lastModified,omitempty"`
	Location     string     `json:"location,omitempty"`
}

// Name is the structured name of a user
type Name struct {
	Formatted  string `json:"formatted,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	GivenName  string `json:"givenName,omitempty"`
}

// MultiValue is a value/display pair used for emails, members and groups
type MultiValue struct {
	Value   string `json:"value"`
	Ref     string `json:"$ref,omitempty"`
	Display string `json:"display,omitempty"`
	Type    string `json:"type,omitempty"`
	Primary bool   `json:"primary,omitempty"`
}

// Address is the postal address of a user
type Address struct {
	StreetAddress string `json:"streetAddress,omitempty"`
	Locality      string `json:"locality,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	Country       string `json:"country,omitempty"`
	Type          string `json:"type,omitempty"`
}

// User is a SCIM User resource
type User struct {
	Schemas           []string     `json:"schemas"`
	ID                string       `json:"id"`
	Meta              Meta         `json:"meta"`
	UserName          string       `json:"userName"`
	Name              Name         `json:"name,omitempty"`
	DisplayName       string       `json:"displayName,omitempty"`
	PreferredLanguage string       `json:"preferredLanguage,omitempty"`
	Emails            []MultiValue `json:"emails,omitempty"`
	Addresses         []Address    `json:"addresses,omitempty"`
	Groups            []MultiValue `json:"groups,omitempty"`
	Roles             []MultiValue `json:"roles,omitempty"`
	Active            bool         `json:"active"`
}

// Group is a SCIM Group resource. The group number is the externalId.
type Group struct {
	Schemas     []string     `json:"schemas"`
	ID          string       `json:"id"`
	ExternalID  string       `json:"externalId,omitempty"`
	Meta        Meta         `json:"meta"`
	DisplayName string       `json:"displayName"`
	Members     []MultiValue `json:"members,omitempty"`
}

// ListResponse is a paged SCIM list
type ListResponse struct {
	Schemas      []string `json:"schemas"`
	TotalResults int      `json:"totalResults"`
	StartIndex   int      `json:"startIndex"`
	ItemsPerPage int      `json:"itemsPerPage"`
	Resources    any      `json:"Resources"`
}

// ErrorResponse is a SCIM error body
type ErrorResponse struct {
	Schemas  []string `json:"schemas"`
	Detail   string   `json:"detail"`
	Status   string   `json:"status"`
	ScimType string   `json:"scimType,omitempty"`
}

// ServiceProviderConfig describes the supported SCIM features
type ServiceProviderConfig struct {
	Schemas               []string               `json:"schemas"`
	Patch                 Supported              `json:"patch"`
	Bulk                  Supported              `json:"bulk"`
	Filter                FilterConfig           `json:"filter"`
	ChangePassword        Supported              `json:"changePassword"`
	Sort                  Supported              `json:"sort"`
	Etag                  Supported              `json:"etag"`
	AuthenticationSchemes []AuthenticationScheme `json:"authenticationSchemes"`
	Meta                  Meta                   `json:"meta"`
}

// Supported flags a feature
type Supported struct {
	Supported bool `json:"supported"`
}

// FilterConfig describes filter support
type FilterConfig struct {
	Supported  bool `json:"supported"`
	MaxResults int  `json:"maxResults"`
}

// AuthenticationScheme describes how clients authenticate
type AuthenticationScheme struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Primary     bool   `json:"primary,omitempty"`
}

// ResourceType describes an endpoint
type ResourceType struct {
	Schemas     []string `json:"schemas"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Endpoint    string   `json:"endpoint"`
	Description string   `json:"description"`
	Schema      string   `json:"schema"`
	Meta        Meta     `json:"meta"`
}
