package seed

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cscportal/api/internal/config"
	"cscportal/api/internal/mocks"
	"cscportal/api/internal/models"
	"cscportal/api/internal/security"
	"cscportal/api/internal/service"
)

func newSeeder(admins *mocks.AdminStore, services *mocks.ServiceStore) *Seeder {
	log := zerolog.Nop()
	hasher := security.NewPasswordHasher(security.Argon2Params{Time: 1, Memory: 1024, Threads: 1, KeyLen: 32, SaltLen: 16})
	auth := service.NewAuthService(admins, hasher, security.NewTokenSigner("seed", time.Hour), "", log)
	catalog := service.NewCatalogService(services, mocks.NewBlobStore(), log)
	return NewSeeder(auth, catalog, admins, log)
}

var setup = config.SetupConfig{AdminName: "Super Admin", AdminEmail: "owner@csc.test", AdminPassword: "Admin@123"}

func TestRun_IsIdempotent(t *testing.T) {
	admins := mocks.NewAdminStore()
	services := mocks.NewServiceStore()
	s := newSeeder(admins, services)
	ctx := context.Background()

	first, err := s.Run(ctx, setup, "")
	require.NoError(t, err)
	assert.True(t, first.AdminCreated)
	assert.Equal(t, len(samples), first.ServicesCreated)

	owner, err := admins.FindByEmail(ctx, "owner@csc.test")
	require.NoError(t, err)
	assert.Equal(t, models.AdminRoleSuperAdmin, owner.Role)

	second, err := s.Run(ctx, setup, "")
	require.NoError(t, err)
	assert.False(t, second.AdminCreated)
	assert.Zero(t, second.ServicesCreated)

	list, err := services.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, len(samples))
}

func TestRun_RequiresCredentials(t *testing.T) {
	s := newSeeder(mocks.NewAdminStore(), mocks.NewServiceStore())
	_, err := s.Run(context.Background(), config.SetupConfig{AdminEmail: "owner@csc.test"}, "")
	assert.Error(t, err)
}

func TestRun_ClosedWithoutSetupToken(t *testing.T) {
	other := models.Administrator{ID: "adm-0", Email: "first@csc.test", Role: models.AdminRoleAdmin, IsActive: true}
	s := newSeeder(mocks.NewAdminStore(other), mocks.NewServiceStore())

	_, err := s.Run(context.Background(), setup, "")
	assert.ErrorIs(t, err, models.ErrSetupClosed)
}
