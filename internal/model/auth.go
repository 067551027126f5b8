package model

import "strings"

// Role is the caller's role within the organization.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

var roleRank = map[Role]int{
	RoleCustomer: 0,
	RoleStaff:    1,
	RoleManager:  2,
	RoleAdmin:    3,
}

// ParseRole maps an organization role such as "org:admin" onto a Role.
// Anything unknown is treated as a customer.
func ParseRole(raw string) Role {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.TrimPrefix(name, "org:")

	role := Role(name)
	if _, ok := roleRank[role]; !ok {
		return RoleCustomer
	}
	return role
}

// AtLeast reports whether r ranks at or above other.
func (r Role) AtLeast(other Role) bool {
	return roleRank[r] >= roleRank[other]
}

// IsStaff reports whether r belongs to the organization's staff.
func (r Role) IsStaff() bool {
	return r.AtLeast(RoleStaff)
}

// AuthUser is the authenticated caller attached to the request context by
// the auth middleware.
type AuthUser struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`

	// Version is bumped whenever the user's permissions change.
	Version int `json:"version"`
}

// UploadedFile is one file part of a multipart request, read into memory
// by the upload middleware.
//
// Destination, Filename and Path stay empty because files are never written
// to disk.
type UploadedFile struct {
	FieldName    string `json:"field_name"`
	OriginalName string `json:"original_name"`
	Encoding     string `json:"encoding"`
	MIMEType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	Destination  string `json:"destination,omitempty"`
	Filename     string `json:"filename,omitempty"`
	Path         string `json:"path,omitempty"`
	Buffer       []byte `json:"-"`
}
