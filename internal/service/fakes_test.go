package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[int64]*domain.User
	seq   int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	user.ID = f.seq
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for i := int64(1); i <= f.seq; i++ {
		user, ok := f.users[i]
		if !ok {
			continue
		}
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && user.Active != *filter.Active {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[int64]*domain.AgentProfile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int64]*domain.AgentProfile)}
}

func (f *fakeProfileRepo) GetOrCreate(_ context.Context, userID int64) (*domain.AgentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if profile, ok := f.profiles[userID]; ok {
		clone := *profile
		return &clone, nil
	}
	profile := &domain.AgentProfile{UserID: userID, AvailabilityStatus: true, MaxTickets: 20}
	f.profiles[userID] = profile
	clone := *profile
	return &clone, nil
}

func (f *fakeProfileRepo) GetByUserID(_ context.Context, userID int64) (*domain.AgentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *domain.AgentProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[profile.UserID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *profile
	f.profiles[profile.UserID] = &clone
	return nil
}

func (f *fakeProfileRepo) SetExpertise(_ context.Context, userID int64, categoryIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	profile.Expertise = append([]int64{}, categoryIDs...)
	return nil
}

func (f *fakeProfileRepo) ListAvailable(_ context.Context) ([]domain.AgentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []int64
	for id := range f.profiles {
		ids = append(ids, id)
	}
	// stable order by user id, matching the SQL ORDER BY
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			if ids[j] < ids[i] {
				ids[i], ids[j] = ids[j], ids[i]
			}
		}
	}
	var out []domain.AgentProfile
	for _, id := range ids {
		profile := f.profiles[id]
		if profile.AvailabilityStatus {
			out = append(out, *profile)
		}
	}
	return out, nil
}

type fakeCustomerProfileRepo struct {
	mu       sync.Mutex
	profiles map[int64]*domain.CustomerProfile
}

func newFakeCustomerProfileRepo() *fakeCustomerProfileRepo {
	return &fakeCustomerProfileRepo{profiles: make(map[int64]*domain.CustomerProfile)}
}

func (f *fakeCustomerProfileRepo) GetOrCreate(_ context.Context, userID int64, company string) (*domain.CustomerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if profile, ok := f.profiles[userID]; ok {
		clone := *profile
		return &clone, nil
	}
	profile := &domain.CustomerProfile{UserID: userID, Company: company}
	f.profiles[userID] = profile
	clone := *profile
	return &clone, nil
}

func (f *fakeCustomerProfileRepo) GetByUserID(_ context.Context, userID int64) (*domain.CustomerProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *profile
	return &clone, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[int64]*domain.Ticket
	seq     int64
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[int64]*domain.Ticket)}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	ticket.ID = f.seq
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	f.tickets[ticket.ID] = &clone
	return nil
}

func (f *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	clone := *ticket
	f.tickets[ticket.ID] = &clone
	return nil
}

func (f *fakeTicketRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tickets[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.tickets, id)
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *ticket
	return &clone, nil
}

func (f *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Ticket
	for i := int64(1); i <= f.seq; i++ {
		ticket, ok := f.tickets[i]
		if !ok {
			continue
		}
		if filter.CreatedByID != nil && ticket.CreatedByID != *filter.CreatedByID {
			continue
		}
		if filter.AssignedToID != nil && (ticket.AssignedToID == nil || *ticket.AssignedToID != *filter.AssignedToID) {
			continue
		}
		if filter.Unassigned && ticket.AssignedToID != nil {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
			continue
		}
		out = append(out, *ticket)
	}
	return out, nil
}

func (f *fakeTicketRepo) CountAssignedTo(_ context.Context, agentID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, ticket := range f.tickets {
		if ticket.AssignedToID != nil && *ticket.AssignedToID == agentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTicketRepo) SetSLABreach(_ context.Context, id int64, breached bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ticket.SLABreach = breached
	return nil
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.TicketHistory
	seq     int64
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (f *fakeHistoryRepo) Create(_ context.Context, entry *domain.TicketHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	entry.ID = f.seq
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeHistoryRepo) CreateBatch(_ context.Context, ticketID, userID int64, at time.Time, changes []domain.FieldChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, change := range changes {
		f.seq++
		f.entries = append(f.entries, domain.TicketHistory{
			ID:           f.seq,
			TicketID:     ticketID,
			UserID:       userID,
			Timestamp:    at,
			FieldChanged: change.Field,
			OldValue:     change.OldValue,
			NewValue:     change.NewValue,
		})
	}
	return nil
}

func (f *fakeHistoryRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TicketHistory
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].TicketID == ticketID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeHistoryRepo) forTicket(ticketID int64) []domain.TicketHistory {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TicketHistory
	for _, entry := range f.entries {
		if entry.TicketID == ticketID {
			out = append(out, entry)
		}
	}
	return out
}

type fakeAttachmentRepo struct {
	mu          sync.Mutex
	attachments map[int64]*domain.TicketAttachment
	seq         int64
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: make(map[int64]*domain.TicketAttachment)}
}

func (f *fakeAttachmentRepo) Create(_ context.Context, attachment *domain.TicketAttachment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	attachment.ID = f.seq
	attachment.UploadedAt = time.Now()
	clone := *attachment
	f.attachments[attachment.ID] = &clone
	return nil
}

func (f *fakeAttachmentRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.attachments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.attachments, id)
	return nil
}

func (f *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID int64) ([]domain.TicketAttachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.TicketAttachment
	for i := f.seq; i >= 1; i-- {
		attachment, ok := f.attachments[i]
		if ok && attachment.TicketID == ticketID {
			out = append(out, *attachment)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	mu         sync.Mutex
	categories map[int64]*domain.Category
	seq        int64
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[int64]*domain.Category)}
}

func (f *fakeCategoryRepo) Create(_ context.Context, category *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	category.ID = f.seq
	clone := *category
	f.categories[category.ID] = &clone
	return nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, category *domain.Category) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[category.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *category
	f.categories[category.ID] = &clone
	return nil
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.categories[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	category, ok := f.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *category
	return &clone, nil
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Category
	for i := int64(1); i <= f.seq; i++ {
		if category, ok := f.categories[i]; ok {
			out = append(out, *category)
		}
	}
	return out, nil
}

func (f *fakeCategoryRepo) ListChildren(_ context.Context, parentID int64) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Category
	for i := int64(1); i <= f.seq; i++ {
		category, ok := f.categories[i]
		if ok && category.ParentID != nil && *category.ParentID == parentID {
			out = append(out, *category)
		}
	}
	return out, nil
}

type fakeSLARepo struct {
	mu       sync.Mutex
	policies map[int64]*domain.SLA
	seq      int64
}

func newFakeSLARepo() *fakeSLARepo {
	return &fakeSLARepo{policies: make(map[int64]*domain.SLA)}
}

func (f *fakeSLARepo) Create(_ context.Context, sla *domain.SLA) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	sla.ID = f.seq
	clone := *sla
	f.policies[sla.ID] = &clone
	return nil
}

func (f *fakeSLARepo) Update(_ context.Context, sla *domain.SLA) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.policies[sla.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *sla
	f.policies[sla.ID] = &clone
	return nil
}

func (f *fakeSLARepo) GetByID(_ context.Context, id int64) (*domain.SLA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sla, ok := f.policies[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *sla
	return &clone, nil
}

func (f *fakeSLARepo) GetByName(_ context.Context, name string) (*domain.SLA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, sla := range f.policies {
		if sla.Name == name {
			clone := *sla
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSLARepo) List(_ context.Context) ([]domain.SLA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SLA
	for i := int64(1); i <= f.seq; i++ {
		if sla, ok := f.policies[i]; ok {
			out = append(out, *sla)
		}
	}
	return out, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[int64]*domain.Comment
	seq      int64
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[int64]*domain.Comment)}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	comment.ID = f.seq
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	clone := *comment
	f.comments[comment.ID] = &clone
	return nil
}

func (f *fakeCommentRepo) Update(_ context.Context, comment *domain.Comment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.comments[comment.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *comment
	f.comments[comment.ID] = &clone
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *comment
	return &clone, nil
}

func (f *fakeCommentRepo) ListByTicket(_ context.Context, ticketID int64, includeInternal bool) ([]domain.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Comment
	for i := int64(1); i <= f.seq; i++ {
		comment, ok := f.comments[i]
		if !ok || comment.TicketID != ticketID {
			continue
		}
		if comment.IsInternal && !includeInternal {
			continue
		}
		out = append(out, *comment)
	}
	return out, nil
}

type fakeEmailLogRepo struct {
	mu   sync.Mutex
	logs []domain.EmailLog
	seq  int64
}

func newFakeEmailLogRepo() *fakeEmailLogRepo {
	return &fakeEmailLogRepo{}
}

func (f *fakeEmailLogRepo) Create(_ context.Context, log *domain.EmailLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	log.ID = f.seq
	log.CreatedAt = time.Now()
	f.logs = append(f.logs, *log)
	return nil
}

func (f *fakeEmailLogRepo) MarkSent(_ context.Context, id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.logs {
		if f.logs[i].ID == id {
			f.logs[i].Status = domain.EmailStatusSent
			f.logs[i].SentAt = &at
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeEmailLogRepo) MarkFailed(_ context.Context, id int64, errorMessage string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.logs {
		if f.logs[i].ID == id {
			f.logs[i].Status = domain.EmailStatusFailed
			f.logs[i].ErrorMessage = errorMessage
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeEmailLogRepo) ListByRecipient(_ context.Context, recipient string, _ int) ([]domain.EmailLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.EmailLog
	for _, log := range f.logs {
		if log.Recipient == recipient {
			out = append(out, log)
		}
	}
	return out, nil
}

func (f *fakeEmailLogRepo) all() []domain.EmailLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.EmailLog{}, f.logs...)
}
