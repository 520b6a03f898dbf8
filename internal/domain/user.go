package domain

import "time"

// UserRole enumerates account roles. Role is an explicit column checked
// directly; nothing infers it from profile presence.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleAgent    UserRole = "agent"
	RoleCustomer UserRole = "customer"
)

// User is the single account model for admins, agents and customers.
type User struct {
	ID           int64
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	Role         UserRole
	Department   string
	Phone        string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsAgent reports whether the account has the agent role.
func (u *User) IsAgent() bool { return u.Role == RoleAgent }

// IsCustomer reports whether the account has the customer role.
func (u *User) IsCustomer() bool { return u.Role == RoleCustomer }

// IsStaff reports whether the account may act on tickets it does not own.
func (u *User) IsStaff() bool { return u.Role == RoleAdmin || u.Role == RoleAgent }

// DisplayName returns the full name, falling back to email.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}

// AgentProfile extends an agent account with assignment parameters.
// A profile exists only for users with RoleAgent.
type AgentProfile struct {
	UserID             int64
	Expertise          []int64
	Bio                string
	AvailabilityStatus bool
	MaxTickets         int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// HasExpertise reports whether the agent covers the given category.
func (p *AgentProfile) HasExpertise(categoryID int64) bool {
	for _, id := range p.Expertise {
		if id == categoryID {
			return true
		}
	}
	return false
}

// CustomerProfile extends a customer account with organization details.
type CustomerProfile struct {
	UserID       int64
	Company      string
	AccountID    string
	SupportLevel string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
