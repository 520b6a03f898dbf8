package directory

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
)

type stubLookup struct {
	entries map[string]*DirectoryEntry
}

func (s *stubLookup) FindUser(_ context.Context, username string) (*DirectoryEntry, error) {
	entry, ok := s.entries[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return entry, nil
}

type memUserRepo struct {
	users map[string]*domain.User
	seq   int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	m.seq++
	user.ID = m.seq
	clone := *user
	m.users[user.Username] = &clone
	return nil
}

func (m *memUserRepo) Update(_ context.Context, user *domain.User) error {
	clone := *user
	m.users[user.Username] = &clone
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	user, ok := m.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) List(_ context.Context, _ repository.UserFilter) ([]domain.User, error) {
	var out []domain.User
	for _, user := range m.users {
		out = append(out, *user)
	}
	return out, nil
}

type memAgentProfiles struct {
	created map[int64]bool
}

func (m *memAgentProfiles) GetOrCreate(_ context.Context, userID int64) (*domain.AgentProfile, error) {
	m.created[userID] = true
	return &domain.AgentProfile{UserID: userID, AvailabilityStatus: true, MaxTickets: 20}, nil
}

func (m *memAgentProfiles) GetByUserID(_ context.Context, userID int64) (*domain.AgentProfile, error) {
	if !m.created[userID] {
		return nil, pgx.ErrNoRows
	}
	return &domain.AgentProfile{UserID: userID}, nil
}

func (m *memAgentProfiles) Update(_ context.Context, _ *domain.AgentProfile) error { return nil }

func (m *memAgentProfiles) SetExpertise(_ context.Context, _ int64, _ []int64) error { return nil }

func (m *memAgentProfiles) ListAvailable(_ context.Context) ([]domain.AgentProfile, error) {
	return nil, nil
}

type memCustomerProfiles struct {
	created map[int64]string
}

func (m *memCustomerProfiles) GetOrCreate(_ context.Context, userID int64, company string) (*domain.CustomerProfile, error) {
	if _, ok := m.created[userID]; !ok {
		m.created[userID] = company
	}
	return &domain.CustomerProfile{UserID: userID, Company: m.created[userID]}, nil
}

func (m *memCustomerProfiles) GetByUserID(_ context.Context, userID int64) (*domain.CustomerProfile, error) {
	company, ok := m.created[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.CustomerProfile{UserID: userID, Company: company}, nil
}

func newSyncFixture(entries map[string]*DirectoryEntry) (*SyncService, *memUserRepo, *memAgentProfiles, *memCustomerProfiles) {
	users := newMemUserRepo()
	agents := &memAgentProfiles{created: make(map[int64]bool)}
	customers := &memCustomerProfiles{created: make(map[int64]string)}
	mapping := RoleMapping{
		AdminGroups: []string{"cn=it-admins,dc=cfc,dc=local"},
		AgentGroups: []string{"cn=helpdesk,dc=cfc,dc=local"},
	}
	svc := NewSyncService(&stubLookup{entries: entries}, users, agents, customers, mapping, zap.NewNop())
	return svc, users, agents, customers
}

func TestSyncProvisionsNewAgentWithProfile(t *testing.T) {
	svc, users, agents, _ := newSyncFixture(map[string]*DirectoryEntry{
		"jdoe": {
			Username:   "jdoe",
			Email:      "jdoe@cfc.local",
			FullName:   "Jordan Doe",
			Department: "IT",
			GroupDNs:   []string{"cn=helpdesk,dc=cfc,dc=local"},
		},
	})

	user, err := svc.Sync(context.Background(), "jdoe")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAgent, user.Role)
	assert.True(t, user.Active)
	assert.True(t, agents.created[user.ID])

	stored, err := users.GetByUsername(context.Background(), "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "Jordan Doe", stored.FullName)
}

func TestSyncProvisionsCustomerWithCompany(t *testing.T) {
	svc, _, _, customers := newSyncFixture(map[string]*DirectoryEntry{
		"claire": {
			Username: "claire",
			Email:    "claire@partner.example",
			FullName: "Claire N",
			Company:  "Partner SARL",
		},
	})

	user, err := svc.Sync(context.Background(), "claire")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.Equal(t, "Partner SARL", customers.created[user.ID])
}

func TestSyncKeepsLocallySetRoleOnExistingUser(t *testing.T) {
	svc, users, agents, _ := newSyncFixture(map[string]*DirectoryEntry{
		"jdoe": {
			Username: "jdoe",
			Email:    "new-mail@cfc.local",
			FullName: "Jordan Doe",
			Phone:    "+237 600 000 000",
			// directory says customer, local role says admin
		},
	})
	existing := &domain.User{Username: "jdoe", Email: "old@cfc.local", Role: domain.RoleAdmin, Active: true}
	require.NoError(t, users.Create(context.Background(), existing))

	user, err := svc.Sync(context.Background(), "jdoe")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "new-mail@cfc.local", user.Email)
	assert.Equal(t, "+237 600 000 000", user.Phone)
	assert.True(t, agents.created[user.ID])
}

func TestSyncUnknownUserPropagatesLookupError(t *testing.T) {
	svc, _, _, _ := newSyncFixture(nil)

	_, err := svc.Sync(context.Background(), "ghost")
	require.Error(t, err)
}
