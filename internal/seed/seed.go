package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"cscportal/api/internal/config"
	"cscportal/api/internal/models"
	"cscportal/api/internal/service"
)

// AdminFinder looks up an existing administrator by email.
type AdminFinder interface {
	FindByEmail(ctx context.Context, email string) (models.Administrator, error)
}

type sample struct {
	title, icon, description, full, processing string
	documents                                  []string
}

var samples = []sample{
	{
		title:       "Caste Certificate",
		icon:        "file-text",
		description: "Apply for caste certificate online",
		full:        "Get your caste certificate issued through the CSC portal. Submit the required documents and track the application until it is ready.",
		processing:  "7-15 days",
		documents:   []string{"Aadhaar Card", "Ration Card", "Passport size photo", "Parent's caste certificate"},
	},
	{
		title:       "Income Certificate",
		icon:        "indian-rupee",
		description: "Apply for income certificate online",
		full:        "Income certificates are needed for scholarships, fee concessions and welfare schemes. We prepare and submit the application for you.",
		processing:  "7-10 days",
		documents:   []string{"Aadhaar Card", "Ration Card", "Salary slip or self declaration"},
	},
	{
		title:       "PAN Card",
		icon:        "credit-card",
		description: "New PAN card and corrections",
		full:        "Apply for a new PAN card or correct details on an existing one. The e-PAN is usually issued within a few days.",
		processing:  "3-7 days",
		documents:   []string{"Aadhaar Card", "Passport size photo"},
	},
}

// Seeder creates the first superadmin and a few sample services. Running it
// again skips whatever already exists.
type Seeder struct {
	auth    *service.AuthService
	catalog *service.CatalogService
	admins  AdminFinder
	log     zerolog.Logger
}

func NewSeeder(auth *service.AuthService, catalog *service.CatalogService, admins AdminFinder, log zerolog.Logger) *Seeder {
	return &Seeder{auth: auth, catalog: catalog, admins: admins, log: log}
}

// Result counts what a run created.
type Result struct {
	AdminCreated    bool
	ServicesCreated int
}

func (s *Seeder) Run(ctx context.Context, cfg config.SetupConfig, setupToken string) (Result, error) {
	var res Result
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return res, errors.New("setup.adminemail and setup.adminpassword are required")
	}

	owner, err := s.admins.FindByEmail(ctx, cfg.AdminEmail)
	switch {
	case err == nil:
		s.log.Info().Str("email", owner.Email).Msg("superadmin already exists")
	case errors.Is(err, models.ErrNotFound):
		created, err := s.auth.Register(ctx, nil, service.RegisterInput{
			Name:       cfg.AdminName,
			Email:      cfg.AdminEmail,
			Password:   cfg.AdminPassword,
			Role:       models.AdminRoleSuperAdmin,
			SetupToken: setupToken,
		})
		if err != nil {
			return res, fmt.Errorf("create superadmin: %w", err)
		}
		owner = created.Admin
		res.AdminCreated = true
		s.log.Info().Str("email", owner.Email).Msg("superadmin created")
	default:
		return res, fmt.Errorf("find superadmin: %w", err)
	}

	for _, smp := range samples {
		_, err := s.catalog.Create(ctx, owner, service.ServiceInput{
			Title:           &smp.title,
			Icon:            &smp.icon,
			Description:     &smp.description,
			FullDescription: &smp.full,
			ProcessingTime:  &smp.processing,
			Documents:       smp.documents,
		})
		if errors.Is(err, models.ErrDuplicateIdentity) {
			s.log.Debug().Str("title", smp.title).Msg("sample service exists")
			continue
		}
		if err != nil {
			return res, fmt.Errorf("create service %q: %w", smp.title, err)
		}
		res.ServicesCreated++
	}
	return res, nil
}
