// Copyright (c) 2026 Inkwell CMS. All rights reserved.

package sec

// Identity is the fully-resolved caller attached to the request context by
// the authentication gate.
//
// # Invariant
//
// An Identity is only ever attached complete: claims verified, subject row
// confirmed active, and permissions resolved. Downstream middleware and
// handlers never observe a partially-populated Identity.
type Identity struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	Role        Role     `json:"role"`
	Status      Status   `json:"status"`
	Permissions []string `json:"permissions"`
	Email       string   `json:"email,omitempty"`
	Avatar      string   `json:"avatar,omitempty"`
}

// HasPermission reports whether the identity may perform the operation named
// by code. Admin accounts hold the universal permission set.
func (identity *Identity) HasPermission(code string) bool {
	if identity.Role.IsAdmin() {
		return true
	}
	for _, held := range identity.Permissions {
		if held == code {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the identity holds at least one of the
// given codes. Admin accounts always pass.
func (identity *Identity) HasAnyPermission(codes ...string) bool {
	if identity.Role.IsAdmin() {
		return true
	}
	for _, code := range codes {
		if identity.HasPermission(code) {
			return true
		}
	}
	return false
}
