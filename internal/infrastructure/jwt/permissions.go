package jwt

import (
	"github.com/manorfm/coffee-shop/internal/domain"
)

// ExtractPermissions reads the permissions claim as a set of strings
func ExtractPermissions(claims domain.Claims) (domain.PermissionSet, error) {
	raw, ok := claims[domain.ClaimPermissions]
	if !ok {
		return nil, domain.ErrInvalidClaims("Permissions not included in JWT.")
	}

	switch list := raw.(type) {
	case []string:
		return domain.NewPermissionSet(list...), nil
	case []interface{}:
		permissions := make(domain.PermissionSet, len(list))
		for _, item := range list {
			p, ok := item.(string)
			if !ok {
				return nil, domain.ErrInvalidClaims("Permissions claim must be a list of strings.")
			}
			permissions[p] = struct{}{}
		}
		return permissions, nil
	default:
		return nil, domain.ErrInvalidClaims("Permissions claim must be a list of strings.")
	}
}
