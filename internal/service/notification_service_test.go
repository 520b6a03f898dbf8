package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cfc-helpdesk/helpdesk-service/internal/config"
	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/events"
)

type recordingMailer struct {
	sent []string
	fail error
}

func (m *recordingMailer) Send(_ context.Context, to, _, _ string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, to)
	return nil
}

type notificationFixture struct {
	svc        *NotificationService
	dispatcher events.Dispatcher
	users      *fakeUserRepo
	tickets    *fakeTicketRepo
	logs       *fakeEmailLogRepo
	mailer     *recordingMailer
	ctx        context.Context
}

func newNotificationFixture(t *testing.T, cfg config.NotificationConfig) *notificationFixture {
	t.Helper()
	users := newFakeUserRepo()
	tickets := newFakeTicketRepo()
	logs := newFakeEmailLogRepo()
	mailer := &recordingMailer{}
	dispatcher := events.NewInMemoryDispatcher()

	svc := NewNotificationService(cfg, NotificationDependencies{
		Dispatcher: dispatcher,
		EmailLogs:  logs,
		TicketRepo: tickets,
		UserRepo:   users,
		Mailer:     mailer,
	}, zap.NewNop())
	svc.RegisterHandlers()

	return &notificationFixture{
		svc:        svc,
		dispatcher: dispatcher,
		users:      users,
		tickets:    tickets,
		logs:       logs,
		mailer:     mailer,
		ctx:        context.Background(),
	}
}

func (f *notificationFixture) addUser(t *testing.T, username string, role domain.UserRole) *domain.User {
	t.Helper()
	user := &domain.User{Username: username, Email: username + "@cfc.local", Role: role, Active: true}
	require.NoError(t, f.users.Create(f.ctx, user))
	return user
}

func (f *notificationFixture) addTicket(t *testing.T, creatorID int64, assignedTo *int64) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		Title:        "broken monitor",
		Description:  "screen flickers",
		Status:       domain.TicketStatusNew,
		Branch:       domain.BranchSiege,
		Priority:     domain.TicketPriorityMedium,
		CreatedByID:  creatorID,
		AssignedToID: assignedTo,
	}
	require.NoError(t, f.tickets.Create(f.ctx, ticket))
	return ticket
}

func enabledConfig() config.NotificationConfig {
	return config.NotificationConfig{
		Enabled:                    true,
		EmailSignature:             "IT Helpdesk",
		NotifyCustomerOnCreate:     true,
		NotifyCustomerOnStatus:     true,
		NotifyCustomerOnComment:    true,
		NotifyAgentOnAssignment:    true,
		NotifyAgentOnComment:       true,
		NotifyAllAgentsOnNewTicket: true,
	}
}

func TestTicketCreatedNotifiesCustomerAndAgents(t *testing.T) {
	f := newNotificationFixture(t, enabledConfig())
	customer := f.addUser(t, "claire", domain.RoleCustomer)
	agentA := f.addUser(t, "agent-a", domain.RoleAgent)
	agentB := f.addUser(t, "agent-b", domain.RoleAgent)
	ticket := f.addTicket(t, customer.ID, nil)

	require.NoError(t, f.dispatcher.Publish(f.ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		ActorID:  customer.ID,
		Payload:  events.TicketCreatedPayload{Title: ticket.Title, CreatorID: customer.ID},
	}))

	assert.ElementsMatch(t, []string{customer.Email, agentA.Email, agentB.Email}, f.mailer.sent)
	for _, log := range f.logs.all() {
		assert.Equal(t, domain.EmailStatusSent, log.Status)
		assert.Equal(t, domain.EmailTicketCreated, log.EmailType)
	}
}

func TestDisabledConfigSuppressesAllMail(t *testing.T) {
	f := newNotificationFixture(t, config.NotificationConfig{Enabled: false})
	customer := f.addUser(t, "claire", domain.RoleCustomer)
	ticket := f.addTicket(t, customer.ID, nil)

	require.NoError(t, f.dispatcher.Publish(f.ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload:  events.TicketCreatedPayload{Title: ticket.Title, CreatorID: customer.ID},
	}))
	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.logs.all())
}

func TestPerFlagGating(t *testing.T) {
	cfg := enabledConfig()
	cfg.NotifyAllAgentsOnNewTicket = false
	f := newNotificationFixture(t, cfg)
	customer := f.addUser(t, "claire", domain.RoleCustomer)
	f.addUser(t, "agent-a", domain.RoleAgent)
	ticket := f.addTicket(t, customer.ID, nil)

	require.NoError(t, f.dispatcher.Publish(f.ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload:  events.TicketCreatedPayload{Title: ticket.Title, CreatorID: customer.ID},
	}))
	assert.Equal(t, []string{customer.Email}, f.mailer.sent)
}

func TestAssignmentNotifiesAssignee(t *testing.T) {
	f := newNotificationFixture(t, enabledConfig())
	customer := f.addUser(t, "claire", domain.RoleCustomer)
	agent := f.addUser(t, "agent", domain.RoleAgent)
	ticket := f.addTicket(t, customer.ID, &agent.ID)

	require.NoError(t, f.dispatcher.Publish(f.ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Payload:  events.TicketAssignedPayload{AssigneeID: &agent.ID},
	}))
	assert.Equal(t, []string{agent.Email}, f.mailer.sent)
}

func TestUnassignmentSendsNothing(t *testing.T) {
	f := newNotificationFixture(t, enabledConfig())
	customer := f.addUser(t, "claire", domain.RoleCustomer)
	ticket := f.addTicket(t, customer.ID, nil)

	require.NoError(t, f.dispatcher.Publish(f.ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Payload:  events.TicketAssignedPayload{AssigneeID: nil},
	}))
	assert.Empty(t, f.mailer.sent)
}

func TestStatusChangeNotifiesCreator(t *testing.T) {
	f := newNotificationFixture(t, enabledConfig())
	customer := f.addUser(t, "claire", domain.RoleCustomer)
	ticket := f.addTicket(t, customer.ID, nil)

	require.NoError(t, f.dispatcher.Publish(f.ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: domain.TicketStatusNew,
			NewStatus: domain.TicketStatusResolved,
		},
	}))
	assert.Equal(t, []string{customer.Email}, f.mailer.sent)

	logs := f.logs.all()
	require.Len(t, logs, 1)
	assert.Equal(t, domain.EmailStatusChange, logs[0].EmailType)
}

func TestInternalCommentNeverReachesCustomer(t *testing.T) {
	f := newNotificationFixture(t, enabledConfig())
	customer := f.addUser(t, "claire", domain.RoleCustomer)
	assignee := f.addUser(t, "assignee", domain.RoleAgent)
	colleague := f.addUser(t, "colleague", domain.RoleAgent)
	ticket := f.addTicket(t, customer.ID, &assignee.ID)

	require.NoError(t, f.dispatcher.Publish(f.ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		Payload:  events.TicketCommentedPayload{AuthorID: colleague.ID, IsInternal: true},
	}))
	assert.Equal(t, []string{assignee.Email}, f.mailer.sent)

	logs := f.logs.all()
	require.Len(t, logs, 1)
	assert.Equal(t, domain.EmailInternalComment, logs[0].EmailType)
}

func TestInternalCommentByAssigneeIsSilent(t *testing.T) {
	f := newNotificationFixture(t, enabledConfig())
	customer := f.addUser(t, "claire", domain.RoleCustomer)
	assignee := f.addUser(t, "assignee", domain.RoleAgent)
	ticket := f.addTicket(t, customer.ID, &assignee.ID)

	require.NoError(t, f.dispatcher.Publish(f.ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		Payload:  events.TicketCommentedPayload{AuthorID: assignee.ID, IsInternal: true},
	}))
	assert.Empty(t, f.mailer.sent)
}

func TestStaffPublicCommentNotifiesCreator(t *testing.T) {
	f := newNotificationFixture(t, enabledConfig())
	customer := f.addUser(t, "claire", domain.RoleCustomer)
	agent := f.addUser(t, "agent", domain.RoleAgent)
	ticket := f.addTicket(t, customer.ID, &agent.ID)

	require.NoError(t, f.dispatcher.Publish(f.ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		Payload:  events.TicketCommentedPayload{AuthorID: agent.ID, IsInternal: false},
	}))
	assert.Equal(t, []string{customer.Email}, f.mailer.sent)
}

func TestCustomerCommentNotifiesAssignee(t *testing.T) {
	f := newNotificationFixture(t, enabledConfig())
	customer := f.addUser(t, "claire", domain.RoleCustomer)
	agent := f.addUser(t, "agent", domain.RoleAgent)
	ticket := f.addTicket(t, customer.ID, &agent.ID)

	require.NoError(t, f.dispatcher.Publish(f.ctx, events.Event{
		Type:     events.EventTicketCommented,
		TicketID: ticket.ID,
		Payload:  events.TicketCommentedPayload{AuthorID: customer.ID, IsInternal: false},
	}))
	assert.Equal(t, []string{agent.Email}, f.mailer.sent)
}

func TestFailedSendMarksLogFailed(t *testing.T) {
	f := newNotificationFixture(t, enabledConfig())
	f.mailer.fail = errors.New("smtp unreachable")
	customer := f.addUser(t, "claire", domain.RoleCustomer)
	agent := f.addUser(t, "agent", domain.RoleAgent)
	ticket := f.addTicket(t, customer.ID, &agent.ID)

	require.NoError(t, f.dispatcher.Publish(f.ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticket.ID,
		Payload:  events.TicketAssignedPayload{AssigneeID: &agent.ID},
	}))

	logs := f.logs.all()
	require.Len(t, logs, 1)
	assert.Equal(t, domain.EmailStatusFailed, logs[0].Status)
	assert.Equal(t, "smtp unreachable", logs[0].ErrorMessage)
}
