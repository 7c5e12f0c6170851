package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
)

// UseCase handles registration, login and session lifecycle. Tokens are JWTs
// carrying the session id; the Redis session is the source of truth, so
// deleting it revokes the token immediately.
type UseCase struct {
	accounts repository.AccountRepository
	pets     repository.PetRepository
	sessions repository.SessionRepository
	secret   []byte
	issuer   string
	ttl      time.Duration
	logger   *zap.Logger
}

func New(
	accounts repository.AccountRepository,
	pets repository.PetRepository,
	sessions repository.SessionRepository,
	secret, issuer string,
	ttl time.Duration,
	logger *zap.Logger,
) *UseCase {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		accounts: accounts,
		pets:     pets,
		sessions: sessions,
		secret:   []byte(secret),
		issuer:   issuer,
		ttl:      ttl,
		logger:   logger,
	}
}

// Register creates an account and its starting pet.
func (uc *UseCase) Register(ctx context.Context, username, password string) (*domain.Account, error) {
	if username == "" || password == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "username and password required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account, err := uc.accounts.Create(ctx, &domain.Account{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, err
	}

	if _, err := uc.pets.Create(ctx, domain.NewPet(account.ID)); err != nil {
		uc.logger.Error("failed to create pet for new account",
			zap.String("account_id", account.ID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("account registered", zap.String("username", username))
	return account, nil
}

// Login verifies credentials and opens a session, returning the bearer token.
func (uc *UseCase) Login(ctx context.Context, username, password string) (string, *domain.Session, error) {
	if username == "" || password == "" {
		return "", nil, domain.NewError(domain.ErrCodeInvalid, "username and password required")
	}

	account, err := uc.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    account.ID,
		Username:  account.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return "", nil, err
	}

	token, err := uc.signToken(session)
	if err != nil {
		return "", nil, err
	}
	return token, session, nil
}

// Logout revokes the session.
func (uc *UseCase) Logout(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// Resolve validates a bearer token against the live session store and returns
// the session it names.
func (uc *UseCase) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrUnauthorized
		}
		return uc.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	sessionID, _ := claims["sid"].(string)
	if sessionID == "" {
		return nil, domain.ErrUnauthorized
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrUnauthorized
	}
	return session, nil
}

func (uc *UseCase) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid": session.ID,
		"sub": session.UserID,
		"iss": uc.issuer,
		"exp": session.ExpiresAt.Unix(),
		"iat": session.CreatedAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
}
