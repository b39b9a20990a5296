package service

import "crypto/subtle"

// AdminAuthenticator checks a key against the single configured admin key.
type AdminAuthenticator struct {
	adminKey []byte
}

// NewAdminAuthenticator creates an AdminAuthenticator.
func NewAdminAuthenticator(adminKey string) *AdminAuthenticator {
	return &AdminAuthenticator{adminKey: []byte(adminKey)}
}

// Authenticate reports whether key equals the admin key. Empty keys never pass.
func (a *AdminAuthenticator) Authenticate(key string) bool {
	if key == "" || len(a.adminKey) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), a.adminKey) == 1
}
