package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

func TestResolveRole(t *testing.T) {
	mapping := RoleMapping{
		AdminGroups: []string{"cn=it-admins,ou=groups,dc=cfc,dc=local"},
		AgentGroups: []string{"cn=helpdesk,ou=groups,dc=cfc,dc=local"},
	}

	tests := []struct {
		name   string
		groups []string
		want   domain.UserRole
	}{
		{
			name:   "admin group",
			groups: []string{"cn=it-admins,ou=groups,dc=cfc,dc=local"},
			want:   domain.RoleAdmin,
		},
		{
			name:   "agent group",
			groups: []string{"cn=helpdesk,ou=groups,dc=cfc,dc=local"},
			want:   domain.RoleAgent,
		},
		{
			name: "admin outranks agent",
			groups: []string{
				"cn=helpdesk,ou=groups,dc=cfc,dc=local",
				"cn=it-admins,ou=groups,dc=cfc,dc=local",
			},
			want: domain.RoleAdmin,
		},
		{
			name:   "no staff group",
			groups: []string{"cn=finance,ou=groups,dc=cfc,dc=local"},
			want:   domain.RoleCustomer,
		},
		{
			name:   "no groups at all",
			groups: nil,
			want:   domain.RoleCustomer,
		},
		{
			name:   "case and whitespace insensitive",
			groups: []string{"  CN=IT-Admins,OU=Groups,DC=cfc,DC=local "},
			want:   domain.RoleAdmin,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveRole(tc.groups, mapping))
		})
	}
}
