package tests

import (
	"context"
	"testing"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/config"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/middleware"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubTenantRepo struct {
	tenants  map[uuid.UUID]*model.Tenant
	features map[uuid.UUID][]string
}

func (r *stubTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTenantRepo) ListFeatures(_ context.Context, tenantID uuid.UUID) ([]string, error) {
	return r.features[tenantID], nil
}

var _ repository.TenantRepository = (*stubTenantRepo)(nil)

func newAuthFixture(t *testing.T) (service.AuthService, *model.User, *config.Config) {
	t.Helper()
	tenantID := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        "vendedor@tecnicentro.pe",
		Name:         "Vendedor Uno",
		PasswordHash: string(hash),
		Role:         "USER",
		Active:       true,
	}
	users := &stubUserRepo{users: map[uuid.UUID]*model.User{user.ID: user}}
	tenants := &stubTenantRepo{
		tenants:  map[uuid.UUID]*model.Tenant{tenantID: {ID: tenantID, Name: "Tecnicentro JR", Active: true}},
		features: map[uuid.UUID][]string{tenantID: {"FAST_SERVICE"}},
	}
	cfg := &config.Config{
		JWTSecret:          "clave-de-prueba",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(users, tenants, cfg), user, cfg
}

func TestLogin(t *testing.T) {
	svc, user, cfg := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "vendedor@tecnicentro.pe",
		Password: "secreto123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, user.Email, resp.User.Email)
	assert.Equal(t, "USER", resp.User.Role)
	assert.Contains(t, resp.User.Features, "FAST_SERVICE")

	// The access token carries the principal's claims.
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(resp.AccessToken, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, user.TenantID.String(), claims.TenantID)
	assert.Contains(t, claims.Features, "FAST_SERVICE")
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "vendedor@tecnicentro.pe",
		Password: "equivocada",
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindBadRequest))
	assert.Contains(t, err.Error(), "credenciales inválidas")
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nadie@tecnicentro.pe",
		Password: "secreto123",
	})
	require.Error(t, err)
	// Same message as a wrong password: no account enumeration.
	assert.True(t, apierror.IsKind(err, apierror.KindBadRequest))
	assert.Contains(t, err.Error(), "credenciales inválidas")
}

func TestRefresh(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "vendedor@tecnicentro.pe",
		Password: "secreto123",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefresh_InactiveUser(t *testing.T) {
	svc, user, _ := newAuthFixture(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "vendedor@tecnicentro.pe",
		Password: "secreto123",
	})
	require.NoError(t, err)

	user.Active = false
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindBadRequest))
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: "no-es-un-jwt"})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindBadRequest))
}
