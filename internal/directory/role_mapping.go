package directory

import (
	"strings"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// RoleMapping holds the directory group DNs granting each staff role.
type RoleMapping struct {
	AdminGroups []string
	AgentGroups []string
}

// ResolveRole maps a user's group memberships to an application role.
// Admin membership outranks agent membership; anything else is customer.
func ResolveRole(groupDNs []string, mapping RoleMapping) domain.UserRole {
	if matchesAny(groupDNs, mapping.AdminGroups) {
		return domain.RoleAdmin
	}
	if matchesAny(groupDNs, mapping.AgentGroups) {
		return domain.RoleAgent
	}
	return domain.RoleCustomer
}

func matchesAny(groupDNs, wanted []string) bool {
	for _, dn := range groupDNs {
		for _, w := range wanted {
			if strings.EqualFold(strings.TrimSpace(dn), strings.TrimSpace(w)) {
				return true
			}
		}
	}
	return false
}
