package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"testhub/internal/domain"
	"testhub/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(userID int64) (string, error)
}

// Service contains all business logic for the credential lifecycle: password
// accounts, access/refresh pairs, rotation and revocation. Access tokens are
// stateless; refresh tokens are the only durable state this module owns.
type Service struct {
	users              UserRepositoryInterface
	refreshTokens      RefreshTokenRepositoryInterface
	jwt                jwtService
	refreshTokenPepper string
	refreshTTL         time.Duration
}

func NewService(
	users UserRepositoryInterface,
	refreshTokens RefreshTokenRepositoryInterface,
	jwt jwtService,
	refreshTokenPepper string,
	refreshTTL time.Duration,
) *Service {
	return &Service{
		users:              users,
		refreshTokens:      refreshTokens,
		jwt:                jwt,
		refreshTokenPepper: refreshTokenPepper,
		refreshTTL:         refreshTTL,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, *TokenPair, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		// Optional on registration; fall back to the email local part.
		displayName = email
		if at := strings.Index(email, "@"); at > 0 {
			displayName = email[:at]
		}
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		DisplayName:  displayName,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Concurrent registration of the same email can still lose the
		// unique-index race after the ExistsByEmail check.
		if repository.IsUniqueViolation(err) {
			return nil, nil, ErrEmailAlreadyExists
		}
		return nil, nil, err
	}

	pair, err := s.issuePair(ctx, user.ID, uuid.NewString(), nil)
	if err != nil {
		return nil, nil, err
	}

	user.PasswordHash = ""
	return user, pair, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a wrong password: callers must not learn
			// whether the account exists.
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.ID, uuid.NewString(), nil)
	if err != nil {
		return nil, nil, err
	}

	user.PasswordHash = ""
	return user, pair, nil
}

// Refresh exchanges a refresh token for a fresh pair. Tokens are single-use:
// the presented token is consumed before the replacement exists, so two
// concurrent calls on the same token cannot both succeed. Presenting a token
// that was already consumed is treated as theft and kills the whole family.
func (s *Service) Refresh(ctx context.Context, refreshRaw string) (*TokenPair, error) {
	now := time.Now()
	hash := hashTokenWithPepper(refreshRaw, s.refreshTokenPepper)

	current, err := s.refreshTokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if current.IsExpired(now) {
		return nil, ErrInvalidRefreshToken
	}

	if current.UsedAt != nil || current.RevokedAt != nil {
		if err := s.refreshTokens.MarkReuseDetected(ctx, current.ID); err != nil {
			return nil, err
		}
		if err := s.refreshTokens.RevokeFamily(ctx, current.FamilyID); err != nil {
			return nil, err
		}
		return nil, ErrInvalidRefreshToken
	}

	consumed, err := s.refreshTokens.MarkUsed(ctx, current.ID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		// Lost the race against a concurrent refresh of the same token.
		if err := s.refreshTokens.RevokeFamily(ctx, current.FamilyID); err != nil {
			return nil, err
		}
		return nil, ErrInvalidRefreshToken
	}

	rotatedFrom := current.ID
	return s.issuePair(ctx, current.UserID, current.FamilyID, &rotatedFrom)
}

// Logout revokes every active refresh token of the caller. Revoking all
// sessions rather than just the presented one is the safer reading of an
// explicit logout; access tokens simply age out.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.refreshTokens.RevokeByUser(ctx, userID)
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.DisplayName = strings.TrimSpace(req.DisplayName)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) issuePair(ctx context.Context, userID int64, familyID string, rotatedFrom *int64) (*TokenPair, error) {
	accessToken, err := s.jwt.GenerateToken(userID)
	if err != nil {
		return nil, err
	}

	refreshRaw, refreshHash, err := generateOpaqueRefreshToken(s.refreshTokenPepper)
	if err != nil {
		return nil, err
	}

	if err := s.refreshTokens.Create(ctx, &domain.RefreshToken{
		UserID:      userID,
		TokenHash:   refreshHash,
		JTI:         uuid.NewString(),
		FamilyID:    familyID,
		RotatedFrom: rotatedFrom,
		ExpiresAt:   time.Now().Add(s.refreshTTL),
	}); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshRaw}, nil
}

func generateOpaqueRefreshToken(pepper string) (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	hash = hashTokenWithPepper(raw, pepper)
	return raw, hash, nil
}

func hashTokenWithPepper(raw, pepper string) string {
	sum := sha256.Sum256([]byte(raw + pepper))
	return hex.EncodeToString(sum[:])
}
