package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/cinema/pkg/cache"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/domain/user"
	"github.com/amirasaad/cinema/pkg/dto"
	"github.com/amirasaad/cinema/pkg/repository"
	"github.com/amirasaad/cinema/pkg/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claim names carried by issued tokens.
const (
	ClaimEmail    = "email"
	ClaimFullname = "fullname"
	ClaimIsAdmin  = "isAdmin"
	ClaimImage    = "image"
)

// dummyHash is compared against when the email is unknown so both login
// failures cost one bcrypt comparison.
const dummyHash = "$2a$10$.IIxpSc3OElWXLV2Wj517eUGmZ64IQgBNQ4OcFbanW85CTrgrIDQy"

var (
	// ErrTokenRevoked is returned for a token whose jti is on the denylist.
	ErrTokenRevoked = domain.NewError(domain.ErrUnauthorized, "token has been revoked")
	// ErrUnknownUser is returned when a verified token names no stored user.
	ErrUnknownUser = domain.NewError(domain.ErrUnauthorized, "user not found")
)

// Claims are the identity claims read from a verified token.
type Claims struct {
	Email     string
	Fullname  string
	IsAdmin   bool
	Image     string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity is the authenticated caller, resolved against the credential store.
// ExpiresAt is zero for tokens issued without expiry.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	Fullname  string
	IsAdmin   bool
	Image     string
	TokenID   string
	ExpiresAt time.Time
}

// Service issues and verifies bearer tokens and resolves them to users.
type Service struct {
	uow      repository.UnitOfWork
	cfg      *config.Jwt
	denylist cache.TokenDenylist
	logger   *slog.Logger
	now      func() time.Time
}

// New creates an auth service. A nil denylist disables revocation checks.
func New(
	uow repository.UnitOfWork,
	cfg *config.Jwt,
	denylist cache.TokenDenylist,
	logger *slog.Logger,
) *Service {
	return &Service{
		uow:      uow,
		cfg:      cfg,
		denylist: denylist,
		logger:   logger,
		now:      time.Now,
	}
}

// IssueToken signs an HS256 token for u. exp is only set when the
// configured expiry is positive.
func (s *Service) IssueToken(ctx context.Context, u *dto.UserRead) (string, error) {
	log := s.logger.With("context", "IssueToken", "userID", u.ID)
	now := s.now()
	claims := jwt.MapClaims{
		ClaimEmail:    u.Email,
		ClaimFullname: u.Fullname,
		ClaimIsAdmin:  u.IsAdmin,
		ClaimImage:    u.Image,
		"jti":         uuid.NewString(),
		"iat":         now.Unix(),
	}
	if s.cfg.Expiry > 0 {
		claims["exp"] = now.Add(s.cfg.Expiry).Unix()
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		log.Error("IssueToken failed", "error", err)
		return "", err
	}
	log.Debug("IssueToken successful")
	return token, nil
}

// VerifyToken checks the signature and expiry of raw. Every failure wraps
// domain.ErrInvalidToken.
func (s *Service) VerifyToken(raw string) (*Claims, error) {
	token, err := jwt.Parse(
		raw,
		func(*jwt.Token) (any, error) { return []byte(s.cfg.Secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	return s.ParseClaims(token)
}

// ParseClaims reads the identity claims of an already verified token.
func (s *Service) ParseClaims(token *jwt.Token) (*Claims, error) {
	if token == nil || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type %T", domain.ErrInvalidToken, token.Claims)
	}
	email, _ := mc[ClaimEmail].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: missing email claim", domain.ErrInvalidToken)
	}
	c := &Claims{Email: email}
	c.Fullname, _ = mc[ClaimFullname].(string)
	c.IsAdmin, _ = mc[ClaimIsAdmin].(bool)
	c.Image, _ = mc[ClaimImage].(string)
	c.TokenID, _ = mc["jti"].(string)
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// ResolveIdentity looks the claimed email up in the credential store. Name,
// admin flag and image come from the stored user, not from the token.
func (s *Service) ResolveIdentity(ctx context.Context, claims *Claims) (Identity, error) {
	log := s.logger.With("context", "ResolveIdentity")
	if claims.TokenID != "" && s.denylist != nil {
		revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			log.Error("Denylist lookup failed", "error", err)
			return Identity{}, domain.Upstream("token denylist", err)
		}
		if revoked {
			return Identity{}, ErrTokenRevoked
		}
	}
	repo, err := s.uow.UserRepository()
	if err != nil {
		return Identity{}, err
	}
	u, err := repo.GetByEmail(ctx, claims.Email)
	if err != nil {
		log.Error("User lookup failed", "error", err)
		return Identity{}, err
	}
	if u == nil {
		log.Warn("Token names unknown user", "email", claims.Email)
		return Identity{}, ErrUnknownUser
	}
	return Identity{
		UserID:    u.ID,
		Email:     u.Email,
		Fullname:  u.Fullname,
		IsAdmin:   u.IsAdmin,
		Image:     u.Image,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Login checks email and password. Unknown email and wrong password both
// return user.ErrUserUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (u *dto.UserRead, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	log := s.logger.With("context", "Login", "email", email)
	log.Debug("Login called")
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return fmt.Errorf("failed to get user repository: %w", err)
		}
		u, err = repo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if u == nil {
			_ = utils.CheckPasswordHash(password, dummyHash)
			return user.ErrUserUnauthorized
		}
		if !utils.CheckPasswordHash(password, u.HashedPassword) {
			return user.ErrUserUnauthorized
		}
		return nil
	})
	if err != nil {
		u = nil
		if errors.Is(err, domain.ErrUnauthorized) {
			log.Info("Login rejected")
		} else {
			log.Error("Login failed", "error", err)
		}
		return
	}
	log.Info("Login successful", "userID", u.ID)
	return
}

// Logout revokes the identity's token until it would have expired.
// Tokens without expiry stay revoked for good.
func (s *Service) Logout(ctx context.Context, id Identity) error {
	log := s.logger.With("context", "Logout", "userID", id.UserID)
	if id.TokenID == "" {
		return fmt.Errorf("%w: token has no id", domain.ErrInvalidToken)
	}
	if s.denylist == nil {
		log.Warn("Logout without denylist: token stays valid")
		return nil
	}
	var ttl time.Duration
	if !id.ExpiresAt.IsZero() {
		ttl = id.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return nil
		}
	}
	if err := s.denylist.Revoke(ctx, id.TokenID, ttl); err != nil {
		log.Error("Revoke failed", "error", err)
		return domain.Upstream("token denylist", err)
	}
	log.Info("Token revoked", "jti", id.TokenID)
	return nil
}
