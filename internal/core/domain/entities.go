package domain

import "time"

// Role represents a user role in the system
type Role string

const (
	RoleStudent  Role = "student"
	RoleAdmin    Role = "admin"
	RoleStaff    Role = "staff"
	RoleSecurity Role = "security"
)

// Valid reports whether the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleStaff, RoleSecurity:
		return true
	}
	return false
}

// Permission represents a capability granted to roles
type Permission string

const (
	PermSubmitRequest   Permission = "request:submit"
	PermViewOwnRequests Permission = "request:view_own"
	PermReviewRequests  Permission = "request:review"
	PermManageUsers     Permission = "user:manage"
	PermViewReports     Permission = "report:view"
	PermVerifyEntry     Permission = "entry:verify"
)

// rolePermissions is the closed permission table. All role checks go through
// Role.Can instead of ad hoc role-name comparisons at call sites.
var rolePermissions = map[Role][]Permission{
	RoleStudent:  {PermSubmitRequest, PermViewOwnRequests},
	RoleAdmin:    {PermReviewRequests, PermManageUsers, PermViewReports, PermVerifyEntry},
	RoleStaff:    {PermVerifyEntry},
	RoleSecurity: {PermVerifyEntry},
}

// Can reports whether the role holds the given permission
func (r Role) Can(p Permission) bool {
	for _, granted := range rolePermissions[r] {
		if granted == p {
			return true
		}
	}
	return false
}

// RequestStatus represents a visitor request state machine state
type RequestStatus string

const (
	StatusPendingReview RequestStatus = "PENDING_REVIEW"
	StatusApproved      RequestStatus = "APPROVED"
	StatusRejected      RequestStatus = "REJECTED"
)

// Valid reports whether the status is one of the known states
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPendingReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether the status is a final state
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// EntryEventKind represents the kind of a recorded gate event
type EntryEventKind string

const (
	EventCheckin  EntryEventKind = "checkin"
	EventCheckout EntryEventKind = "checkout"
)

// Valid reports whether the event kind is known
func (k EntryEventKind) Valid() bool {
	return k == EventCheckin || k == EventCheckout
}

// Identity is the authenticated caller extracted from a session token
type Identity struct {
	UserID uint
	Email  string
	Name   string
	Role   Role
}

// User represents a user in the domain layer
type User struct {
	ID        uint
	Name      string
	Email     string
	Password  string // Hashed
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
