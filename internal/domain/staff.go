package domain

import "time"

// RoleShortname identifies a directory role by its short name.
type RoleShortname string

const (
	RoleEditingTeacher RoleShortname = "editingteacher"
	RoleManager        RoleShortname = "manager"
	RoleInstDesigner   RoleShortname = "instdesigner"
)

// TestStudentManagerRoles are the roles that permit owning a test student account.
var TestStudentManagerRoles = []RoleShortname{RoleEditingTeacher, RoleManager, RoleInstDesigner}

// AuthMethod identifies how a directory account authenticates.
type AuthMethod string

const (
	AuthMethodManual AuthMethod = "manual"
	AuthMethodSAML   AuthMethod = "saml"
	AuthMethodLDAP   AuthMethod = "ldap"
)

// SupportsPassword reports whether the auth method accepts local password changes.
// Federated methods delegate credentials to an external provider.
func (m AuthMethod) SupportsPassword() bool {
	return m == AuthMethodManual
}

// StaffIdentity is the authenticated actor. The directory owns these rows;
// this service reads them and never mutates them.
type StaffIdentity struct {
	ID        int64
	Username  string
	Firstname string
	Lastname  string
	Email     string
	SiteAdmin bool
	CreatedAt time.Time
}
