package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/amirasaad/cinema/infra/provider/mockmedia"
	"github.com/amirasaad/cinema/internal/fixtures"
	"github.com/amirasaad/cinema/internal/fixtures/mocks"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/domain/user"
	"github.com/amirasaad/cinema/pkg/provider/media"
	"github.com/amirasaad/cinema/pkg/service/auth"
	usersvc "github.com/amirasaad/cinema/pkg/service/user"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var mediaCfg = &config.Media{RootFolder: "cinema-online", PublicBaseURL: "http://cdn.local/"}

func newService(t *testing.T) (*usersvc.Service, *fixtures.UnitOfWork, *mockmedia.Provider) {
	t.Helper()
	uow := fixtures.NewUnitOfWork()
	store := mockmedia.New()
	return usersvc.New(uow, store, mediaCfg, fixtures.Logger()), uow, store
}

func strPtr(s string) *string { return &s }

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	u, err := svc.Register(context.Background(), "Alice@Example.com", "password123", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Fullname)
	assert.False(t, u.IsAdmin)
	assert.NotEqual(t, "password123", u.HashedPassword)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	_, err := svc.Register(context.Background(), "alice@example.com", "password123", "Alice")
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), "ALICE@example.com", "password456", "Other")
	assert.ErrorIs(t, err, user.ErrEmailTaken)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRegister_RaceOnUniqueIndex(t *testing.T) {
	t.Parallel()
	users := &mocks.MockUserRepository{}
	uow := &mocks.MockUnitOfWork{Users: users}
	uow.On("Do", mock.Anything).Return(nil)
	users.On("ExistsByEmail", mock.Anything, "alice@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(domain.ErrAlreadyExists)
	svc := usersvc.New(uow, mockmedia.New(), mediaCfg, fixtures.Logger())

	_, err := svc.Register(context.Background(), "alice@example.com", "password123", "Alice")
	assert.ErrorIs(t, err, user.ErrEmailTaken)
	users.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	testCases := []struct {
		desc, email, password, fullname string
	}{
		{"bad email", "not-an-email", "password123", "Alice"},
		{"short password", "a@example.com", "short", "Alice"},
		{"long password", "a@example.com", string(make([]byte, 73)), "Alice"},
		{"missing fullname", "a@example.com", "password123", " "},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.email, tc.password, tc.fullname)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateProfile_OwnerReplacesImage(t *testing.T) {
	t.Parallel()
	svc, uow, store := newService(t)
	seeded := fixtures.SeedUser(t, uow, "bob@example.com", false)
	actor := auth.Identity{UserID: seeded.ID}

	first, err := svc.UpdateProfile(context.Background(), actor, seeded.ID, usersvc.ProfileUpdate{
		Fullname: strPtr("  Bob Builder "),
		Phone:    strPtr("0812"),
		Image:    &media.UploadParams{Name: "image-1-a.png", Data: []byte("a")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bob Builder", first.Fullname)
	assert.Equal(t, "0812", first.Phone)
	assert.Equal(t, "http://cdn.local/cinema-online/profile/image-1-a.png", first.Image)

	_, err = svc.UpdateProfile(context.Background(), actor, seeded.ID, usersvc.ProfileUpdate{
		Image: &media.UploadParams{Name: "image-2-b.png", Data: []byte("b")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cinema-online/profile/image-1-a.png"}, store.Destroyed())
	assert.True(t, store.Has("cinema-online/profile/image-2-b.png"))
}

func TestUpdateProfile_Authorization(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	owner := fixtures.SeedUser(t, uow, "owner@example.com", false)
	other := fixtures.SeedUser(t, uow, "other@example.com", false)
	admin := fixtures.SeedUser(t, uow, "admin@example.com", true)

	_, err := svc.UpdateProfile(context.Background(), auth.Identity{UserID: other.ID}, owner.ID,
		usersvc.ProfileUpdate{Fullname: strPtr("Hacked")})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	u, err := svc.UpdateProfile(context.Background(), auth.Identity{UserID: admin.ID, IsAdmin: true}, owner.ID,
		usersvc.ProfileUpdate{Fullname: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", u.Fullname)
}

func TestUpdateProfile_UploadFailure(t *testing.T) {
	t.Parallel()
	svc, uow, store := newService(t)
	seeded := fixtures.SeedUser(t, uow, "bob@example.com", false)
	store.FailNextUpload(errors.New("cloud down"))

	_, err := svc.UpdateProfile(context.Background(), auth.Identity{UserID: seeded.ID}, seeded.ID,
		usersvc.ProfileUpdate{Fullname: strPtr("Changed"), Image: &media.UploadParams{Name: "x.png"}})
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)

	got, err := svc.Get(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.Fullname, got.Fullname)
}

func TestUpdateProfile_EmptyFullname(t *testing.T) {
	t.Parallel()
	svc, uow, _ := newService(t)
	seeded := fixtures.SeedUser(t, uow, "bob@example.com", false)
	_, err := svc.UpdateProfile(context.Background(), auth.Identity{UserID: seeded.ID}, seeded.ID,
		usersvc.ProfileUpdate{Fullname: strPtr("   ")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetAdmin(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "ops@example.com", "password123", "Ops")
	require.NoError(t, err)
	require.False(t, u.IsAdmin)

	promoted, err := svc.SetAdmin(ctx, " OPS@example.com ", true)
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin)
	assert.Equal(t, u.ID, promoted.ID)

	demoted, err := svc.SetAdmin(ctx, "ops@example.com", false)
	require.NoError(t, err)
	assert.False(t, demoted.IsAdmin)

	_, err = svc.SetAdmin(ctx, "nobody@example.com", true)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
