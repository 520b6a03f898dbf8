package directory

import (
	"context"
	"fmt"

	ldap "github.com/go-ldap/ldap/v3"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/cfc-helpdesk/helpdesk-service/internal/config"
	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
	"github.com/cfc-helpdesk/helpdesk-service/internal/repository"
	apperrors "github.com/cfc-helpdesk/helpdesk-service/pkg/util"
)

// DirectoryEntry is what the directory knows about a user.
type DirectoryEntry struct {
	Username   string
	Email      string
	FullName   string
	Department string
	Phone      string
	Company    string
	GroupDNs   []string
}

// Lookup resolves a username against the directory.
type Lookup interface {
	FindUser(ctx context.Context, username string) (*DirectoryEntry, error)
}

// SyncService reconciles directory entries with local users and profiles.
// It runs outside the authentication handshake so login never blocks on LDAP.
type SyncService struct {
	lookup    Lookup
	users     repository.UserRepository
	agents    repository.AgentProfileRepository
	customers repository.CustomerProfileRepository
	mapping   RoleMapping
	logger    *zap.Logger
}

// NewSyncService builds the service.
func NewSyncService(
	lookup Lookup,
	users repository.UserRepository,
	agents repository.AgentProfileRepository,
	customers repository.CustomerProfileRepository,
	mapping RoleMapping,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		lookup:    lookup,
		users:     users,
		agents:    agents,
		customers: customers,
		mapping:   mapping,
		logger:    logger,
	}
}

// Sync pulls the directory entry for username and reconciles the local user.
// New users get their role from group membership; existing users keep whatever
// role was set locally, only contact attributes are refreshed.
func (s *SyncService) Sync(ctx context.Context, username string) (*domain.User, error) {
	entry, err := s.lookup.FindUser(ctx, username)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == pgx.ErrNoRows:
		user = &domain.User{
			Username:   entry.Username,
			Email:      entry.Email,
			FullName:   entry.FullName,
			Role:       ResolveRole(entry.GroupDNs, s.mapping),
			Department: entry.Department,
			Phone:      entry.Phone,
			Active:     true,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("directory user provisioned",
			zap.String("username", user.Username),
			zap.String("role", string(user.Role)))
	case err != nil:
		return nil, err
	default:
		user.Email = entry.Email
		user.FullName = entry.FullName
		user.Department = entry.Department
		user.Phone = entry.Phone
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	if err := s.EnsureProfile(ctx, user, entry.Company); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureProfile get-or-creates the profile matching the user's role. Safe to
// call repeatedly.
func (s *SyncService) EnsureProfile(ctx context.Context, user *domain.User, company string) error {
	switch user.Role {
	case domain.RoleAgent, domain.RoleAdmin:
		_, err := s.agents.GetOrCreate(ctx, user.ID)
		return err
	case domain.RoleCustomer:
		_, err := s.customers.GetOrCreate(ctx, user.ID, company)
		return err
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown role %q", user.Role), nil)
	}
}

// LDAPLookup resolves users against an LDAP server.
type LDAPLookup struct {
	cfg    config.DirectoryConfig
	logger *zap.Logger
}

// NewLDAPLookup builds a directory lookup from config.
func NewLDAPLookup(cfg config.DirectoryConfig, logger *zap.Logger) *LDAPLookup {
	return &LDAPLookup{cfg: cfg, logger: logger}
}

// FindUser searches the directory for a single user entry by username.
func (l *LDAPLookup) FindUser(ctx context.Context, username string) (*DirectoryEntry, error) {
	conn, err := ldap.DialURL(l.cfg.Addr)
	if err != nil {
		l.logger.Error("directory dial failed", zap.Error(err))
		return nil, apperrors.NewInternalError(err)
	}
	defer conn.Close()

	if err := conn.Bind(l.cfg.BindDN, l.cfg.BindPass); err != nil {
		l.logger.Error("directory bind failed", zap.Error(err), zap.String("bind_dn", l.cfg.BindDN))
		return nil, apperrors.NewInternalError(err)
	}

	filter := fmt.Sprintf("(|(uid=%[1]s)(sAMAccountName=%[1]s))", ldap.EscapeFilter(username))
	req := ldap.NewSearchRequest(
		l.cfg.UserBaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, 0, false,
		filter,
		[]string{"uid", "sAMAccountName", "mail", "cn", "department", "telephoneNumber", "company", "memberOf"},
		nil,
	)

	res, err := conn.Search(req)
	if err != nil {
		l.logger.Error("directory search failed", zap.Error(err), zap.String("filter", filter))
		return nil, apperrors.NewInternalError(err)
	}
	if len(res.Entries) == 0 {
		return nil, apperrors.NewNotFound("directory user", map[string]any{"username": username})
	}

	entry := res.Entries[0]
	name := entry.GetAttributeValue("uid")
	if name == "" {
		name = entry.GetAttributeValue("sAMAccountName")
	}
	return &DirectoryEntry{
		Username:   name,
		Email:      entry.GetAttributeValue("mail"),
		FullName:   entry.GetAttributeValue("cn"),
		Department: entry.GetAttributeValue("department"),
		Phone:      entry.GetAttributeValue("telephoneNumber"),
		Company:    entry.GetAttributeValue("company"),
		GroupDNs:   entry.GetAttributeValues("memberOf"),
	}, nil
}
