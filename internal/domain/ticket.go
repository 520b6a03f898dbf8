package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusWaiting    TicketStatus = "waiting"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

var statusLabels = map[TicketStatus]string{
	TicketStatusNew:        "New",
	TicketStatusOpen:       "Open",
	TicketStatusInProgress: "In Progress",
	TicketStatusWaiting:    "Waiting on Customer",
	TicketStatusResolved:   "Resolved",
	TicketStatusClosed:     "Closed",
}

// Label returns the human-readable status name used in history entries.
func (s TicketStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether the status is a known value.
func (s TicketStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

var priorityLabels = map[TicketPriority]string{
	TicketPriorityLow:      "Low",
	TicketPriorityMedium:   "Medium",
	TicketPriorityHigh:     "High",
	TicketPriorityCritical: "Critical",
}

// Label returns the human-readable priority name.
func (p TicketPriority) Label() string {
	if label, ok := priorityLabels[p]; ok {
		return label
	}
	return string(p)
}

// Valid reports whether the priority is a known value.
func (p TicketPriority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// Branch enumerates office locations a ticket can originate from.
type Branch string

const (
	BranchSiege      Branch = "siege"
	BranchYaounde    Branch = "yaounde"
	BranchDouala     Branch = "douala"
	BranchBuea       Branch = "buea"
	BranchBamenda    Branch = "bamenda"
	BranchNgaoundere Branch = "ngaoundere"
	BranchGaroua     Branch = "garoua"
	BranchMaroua     Branch = "maroua"
	BranchBafoussam  Branch = "bafoussam"
	BranchEbolowa    Branch = "ebolowa"
	BranchBertoua    Branch = "bertoua"
)

var branchLabels = map[Branch]string{
	BranchSiege:      "Headquarters",
	BranchYaounde:    "Yaounde",
	BranchDouala:     "Douala",
	BranchBuea:       "Buea",
	BranchBamenda:    "Bamenda",
	BranchNgaoundere: "Ngaoundere",
	BranchGaroua:     "Garoua",
	BranchMaroua:     "Maroua",
	BranchBafoussam:  "Bafoussam",
	BranchEbolowa:    "Ebolowa",
	BranchBertoua:    "Bertoua",
}

// Label returns the human-readable branch name.
func (b Branch) Label() string {
	if label, ok := branchLabels[b]; ok {
		return label
	}
	return string(b)
}

// Valid reports whether the branch is a known value.
func (b Branch) Valid() bool {
	_, ok := branchLabels[b]
	return ok
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID               int64
	Title            string
	Description      string
	OfficeDoorNumber string
	Status           TicketStatus
	Branch           Branch
	Priority         TicketPriority
	CreatedByID      int64
	AssignedToID     *int64
	CategoryID       *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	DueDate          *time.Time
	ResolvedAt       *time.Time
	ClosedAt         *time.Time
	SLABreach        bool
	IsPublic         bool
	Tags             []string
}

// IsOverdue reports whether the ticket passed its due date. Derived on read,
// never stored.
func (t *Ticket) IsOverdue(now time.Time) bool {
	return t.DueDate != nil && now.After(*t.DueDate)
}

// IsClosed reports whether the ticket reached a terminal display state.
func (t *Ticket) IsClosed() bool {
	return t.Status == TicketStatusClosed
}

// TicketAttachment stores metadata for files attached to a ticket.
type TicketAttachment struct {
	ID           int64
	TicketID     int64
	StorageKey   string
	FileName     string
	Description  string
	UploadedByID int64
	UploadedAt   time.Time
}
