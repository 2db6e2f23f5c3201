package service

import (
	"context"
	"time"

	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/apierror"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/config"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/dto"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/middleware"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/model"
	"github.com/ThePhoenix21/TecnicentroJRBackend-sub000/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error)
}

type authService struct {
	users   repository.UserRepository
	tenants repository.TenantRepository
	cfg     *config.Config
}

func NewAuthService(users repository.UserRepository, tenants repository.TenantRepository, cfg *config.Config) AuthService {
	return &authService{users: users, tenants: tenants, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apierror.BadRequest("credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.BadRequest("credenciales inválidas")
	}

	features, err := s.tenants.ListFeatures(ctx, user.TenantID)
	if err != nil {
		return nil, apierror.Internal("error consultando capacidades de la empresa", err)
	}

	return s.issueTokens(user, features)
}

func (s *authService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.BadRequest("refresh token inválido o expirado")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierror.BadRequest("refresh token inválido")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || !user.Active {
		return nil, apierror.BadRequest("usuario inactivo o inexistente")
	}

	features, err := s.tenants.ListFeatures(ctx, user.TenantID)
	if err != nil {
		return nil, apierror.Internal("error consultando capacidades de la empresa", err)
	}
	return s.issueTokens(user, features)
}

func (s *authService) issueTokens(user *model.User, features []string) (*dto.TokenResponse, error) {
	accessTTL := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	refreshTTL := time.Duration(s.cfg.JWTRefreshHours) * time.Hour

	access, err := s.sign(user, features, accessTTL)
	if err != nil {
		return nil, apierror.Internal("error firmando token", err)
	}
	refresh, err := s.sign(user, features, refreshTTL)
	if err != nil {
		return nil, apierror.Internal("error firmando refresh token", err)
	}

	resp := &dto.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(accessTTL.Seconds()),
	}
	resp.User.ID = user.ID.String()
	resp.User.Email = user.Email
	resp.User.Name = user.Name
	resp.User.Role = user.Role
	resp.User.TenantID = user.TenantID.String()
	resp.User.Features = features
	return resp, nil
}

func (s *authService) sign(user *model.User, features []string, ttl time.Duration) (string, error) {
	claims := middleware.JWTClaims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		Role:     user.Role,
		TenantID: user.TenantID.String(),
		Features: features,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
