package models

import "time"

type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperAdmin AdminRole = "superadmin"
)

func (r AdminRole) Valid() bool {
	return r == AdminRoleAdmin || r == AdminRoleSuperAdmin
}

// ManagementRoles may use every protected back-office route.
var ManagementRoles = []AdminRole{AdminRoleAdmin, AdminRoleSuperAdmin}

type LoginRecord struct {
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Timestamp time.Time `json:"timestamp"`
}

// MaxLoginHistory bounds Administrator.LoginHistory.
const MaxLoginHistory = 50

type Administrator struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash []byte        `json:"-"`
	Role         AdminRole     `json:"role"`
	IsActive     bool          `json:"isActive"`
	LastLogin    *time.Time    `json:"lastLogin,omitempty"`
	LoginHistory []LoginRecord `json:"-"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// RecordLogin stamps LastLogin and appends to the history, dropping the
// oldest entries beyond MaxLoginHistory.
func (a *Administrator) RecordLogin(rec LoginRecord) {
	ts := rec.Timestamp
	a.LastLogin = &ts
	a.LoginHistory = append(a.LoginHistory, rec)
	if n := len(a.LoginHistory); n > MaxLoginHistory {
		a.LoginHistory = append([]LoginRecord(nil), a.LoginHistory[n-MaxLoginHistory:]...)
	}
}
