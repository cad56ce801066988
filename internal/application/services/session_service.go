package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskmaster/planner/internal/domain/entities"
	"github.com/taskmaster/planner/internal/infrastructure/config"
	"github.com/taskmaster/planner/internal/infrastructure/logger"
	"github.com/taskmaster/planner/internal/ports"
)

// SessionService issues and resolves browser sessions. The cookie carries
// an HS256 token whose ID claim names the session record in the store.
type SessionService struct {
	store    ports.SessionStore
	userRepo ports.UserRepository
	cfg      config.SessionConfig
	logger   *logger.Logger
	now      func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(store ports.SessionStore, userRepo ports.UserRepository, cfg config.SessionConfig, logger *logger.Logger) *SessionService {
	return &SessionService{
		store:    store,
		userRepo: userRepo,
		cfg:      cfg,
		logger:   logger.WithComponent("session"),
		now:      time.Now,
	}
}

// AuthHash fingerprints a password hash so that a password change
// invalidates sessions opened with the old one.
func (s *SessionService) AuthHash(passwordHash string) string {
	mac := hmac.New(sha256.New, []byte(s.cfg.Secret))
	mac.Write([]byte(passwordHash))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *SessionService) newSession() *entities.Session {
	now := s.now()
	return &entities.Session{
		ID:        uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.MaxAge),
	}
}

// Login binds a fresh session to user. Pending flashes of the current
// session are carried over and the current session is discarded.
func (s *SessionService) Login(ctx context.Context, current *entities.Session, user *entities.User) (*entities.Session, error) {
	session := s.newSession()
	session.UserID = &user.ID
	session.AuthHash = s.AuthHash(user.PasswordHash)

	if current != nil {
		session.Flashes = append(session.Flashes, current.Flashes...)
		if err := s.store.Delete(ctx, current.ID); err != nil {
			s.logger.Warnw("Failed to discard previous session", "error", err, "session_id", current.ID)
		}
	}

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// Destroy removes the session from the store.
func (s *SessionService) Destroy(ctx context.Context, session *entities.Session) error {
	if session == nil {
		return nil
	}
	if err := s.store.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// AddFlash queues a message for the next page. A nil session is replaced by
// a new anonymous one, which is returned.
func (s *SessionService) AddFlash(ctx context.Context, session *entities.Session, level entities.FlashLevel, message string) (*entities.Session, error) {
	if session == nil {
		session = s.newSession()
	}
	session.Flashes = append(session.Flashes, entities.Flash{Level: level, Message: message})

	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

// PopFlashes returns and clears the queued messages.
func (s *SessionService) PopFlashes(ctx context.Context, session *entities.Session) ([]entities.Flash, error) {
	if session == nil || len(session.Flashes) == 0 {
		return nil, nil
	}

	flashes := session.Flashes
	session.Flashes = nil
	if err := s.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return flashes, nil
}

// Token signs the cookie value for session.
func (s *SessionService) Token(session *entities.Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        session.ID.String(),
		Issuer:    s.cfg.Issuer,
		IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Resolve loads the session named by a cookie value together with its
// user. Anonymous sessions return a nil user. A token that is malformed,
// expired or refers to a missing record yields ErrSessionNotFound. A
// session whose user is gone, inactive or has changed password is
// downgraded to anonymous.
func (s *SessionService) Resolve(ctx context.Context, tokenString string) (*entities.Session, *entities.User, error) {
	id, err := s.parseToken(tokenString)
	if err != nil {
		return nil, nil, entities.ErrSessionNotFound
	}

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if session.IsExpired(s.now()) {
		_ = s.store.Delete(ctx, session.ID)
		return nil, nil, entities.ErrSessionNotFound
	}

	if !session.IsAuthenticated() {
		return session, nil, nil
	}

	user, err := s.userRepo.GetByID(ctx, *session.UserID)
	if err != nil && !errors.Is(err, entities.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("failed to load session user: %w", err)
	}

	if user == nil || !user.IsActive || !hmac.Equal([]byte(session.AuthHash), []byte(s.AuthHash(user.PasswordHash))) {
		s.logger.Infow("Session no longer valid for user", "session_id", session.ID, "user_id", *session.UserID)
		session.UserID = nil
		session.AuthHash = ""
		if err := s.store.Save(ctx, session); err != nil {
			return nil, nil, fmt.Errorf("failed to save session: %w", err)
		}
		return session, nil, nil
	}

	return session, user, nil
}

func (s *SessionService) parseToken(tokenString string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid session token: %w", err)
	}

	return uuid.Parse(claims.ID)
}
