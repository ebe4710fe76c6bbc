package security

import "cscportal/api/internal/models"

// Authorize allows the call when admin holds one of the allowed roles.
func Authorize(admin *models.Administrator, allowed ...models.AdminRole) error {
	if admin == nil {
		return models.ErrUnauthenticated
	}
	for _, role := range allowed {
		if admin.Role == role {
			return nil
		}
	}
	return models.ErrForbidden
}
