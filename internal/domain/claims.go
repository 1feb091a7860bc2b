package domain

import (
	"crypto"
	"sort"
)

// Permissions required by the drink routes
const (
	PermissionGetDrinksDetail = "get:drinks-detail"
	PermissionPostDrinks      = "post:drinks"
	PermissionPatchDrinks     = "patch:drinks"
	PermissionDeleteDrinks    = "delete:drinks"
)

// ClaimPermissions is the claim carrying the granted permissions
const ClaimPermissions = "permissions"

// Claims is the decoded payload of a verified access token.
type Claims map[string]interface{}

// Subject returns the sub claim, or an empty string
func (c Claims) Subject() string {
	sub, _ := c["sub"].(string)
	return sub
}

// PermissionSet is a set of granted permission strings
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from a list, collapsing duplicates
func NewPermissionSet(permissions ...string) PermissionSet {
	set := make(PermissionSet, len(permissions))
	for _, p := range permissions {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether permission is granted. Matching is exact and case-sensitive.
func (s PermissionSet) Has(permission string) bool {
	_, ok := s[permission]
	return ok
}

// List returns the permissions in sorted order
func (s PermissionSet) List() []string {
	list := make([]string, 0, len(s))
	for p := range s {
		list = append(list, p)
	}
	sort.Strings(list)
	return list
}

// AuthorizedContext is what the authorization guard hands to a protected handler
type AuthorizedContext struct {
	Claims      Claims
	Permissions PermissionSet
}

// SigningKey is a public key published by the identity provider
type SigningKey struct {
	KeyID     string
	KeyType   string
	Algorithm string
	PublicKey crypto.PublicKey
}
