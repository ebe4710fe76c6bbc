package service

import (
	"time"

	"cscportal/api/internal/models"
	"cscportal/api/internal/security"
)

var (
	fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}
	pdfBytes = []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n")
)

func clock() time.Time { return fixedNow }

func testHasher() *security.PasswordHasher {
	return security.NewPasswordHasher(security.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
}

func strPtr(s string) *string { return &s }

func actor() models.Administrator {
	return models.Administrator{ID: "adm-1", Name: "Desk", Email: "desk@csc.test", Role: models.AdminRoleAdmin, IsActive: true}
}
