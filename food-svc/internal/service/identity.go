package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"fooddelight/food-svc/internal/docstore"
	"fooddelight/food-svc/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type account struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// IdentityService keeps credentials in the document store and sessions in the
// session store. Watchers registered with OnIdentityChange are process local.
type IdentityService struct {
	store    docstore.Store
	sessions SessionStore
	cost     int

	mu       sync.Mutex
	nextID   int
	watchers map[string]map[int]func(*domain.Identity)
}

func NewIdentityService(store docstore.Store, sessions SessionStore) *IdentityService {
	return &IdentityService{
		store:    store,
		sessions: sessions,
		cost:     bcrypt.DefaultCost,
		watchers: make(map[string]map[int]func(*domain.Identity)),
	}
}

// WithHashCost overrides the bcrypt cost.
func (s *IdentityService) WithHashCost(cost int) *IdentityService {
	s.cost = cost
	return s
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	if email == "" {
		return domain.NewValidationError("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.NewValidationError("email", "is not a valid address")
	}
	if len(password) < minPasswordLength {
		return domain.NewValidationError("password", "must be at least 6 characters")
	}
	return nil
}

func (s *IdentityService) CreateAccount(ctx context.Context, email, password string) (domain.Identity, error) {
	email = NormalizeEmail(email)
	if err := validateCredentials(email, password); err != nil {
		return domain.Identity{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.Identity{}, err
	}

	acc := account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	err = s.store.Create(ctx, docstore.Doc("accounts", email), acc)
	if errors.Is(err, docstore.ErrAlreadyExists) {
		return domain.Identity{}, domain.ErrEmailInUse
	}
	if err != nil {
		return domain.Identity{}, domain.WriteError("create account", err)
	}
	return domain.Identity{UID: acc.UID, Email: acc.Email}, nil
}

// DeleteAccount removes the credentials stored for email.
func (s *IdentityService) DeleteAccount(ctx context.Context, email string) error {
	if err := s.store.Delete(ctx, docstore.Doc("accounts", NormalizeEmail(email))); err != nil {
		return domain.WriteError("delete account", err)
	}
	return nil
}

func (s *IdentityService) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	doc, err := s.store.Get(ctx, docstore.Doc("accounts", email))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, domain.ReadError("load account", err)
	}

	var acc account
	if err := doc.DataTo(&acc); err != nil {
		return nil, domain.ReadError("decode account", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	identity := domain.Identity{UID: acc.UID, Email: acc.Email}
	expires, err := s.sessions.Save(ctx, token, identity)
	if err != nil {
		return nil, domain.WriteError("save session", err)
	}
	return &domain.Session{Token: token, Identity: identity, ExpiresAt: expires}, nil
}

// CurrentIdentity returns nil for a blank, unknown or expired token.
func (s *IdentityService) CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, nil
	}
	identity, err := s.sessions.Lookup(ctx, token)
	if err != nil {
		return nil, domain.ReadError("lookup session", err)
	}
	return identity, nil
}

// OnIdentityChange calls fn with the current identity right away and again on
// every later transition of the session. The returned func unsubscribes.
func (s *IdentityService) OnIdentityChange(ctx context.Context, token string, fn func(*domain.Identity)) (func(), error) {
	current, err := s.CurrentIdentity(ctx, token)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	if s.watchers[token] == nil {
		s.watchers[token] = make(map[int]func(*domain.Identity))
	}
	s.watchers[token][id] = fn
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watchers[token], id)
		if len(s.watchers[token]) == 0 {
			delete(s.watchers, token)
		}
	}, nil
}

func (s *IdentityService) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return domain.WriteError("delete session", err)
	}
	s.notify(token, nil)
	return nil
}

func (s *IdentityService) notify(token string, identity *domain.Identity) {
	s.mu.Lock()
	fns := make([]func(*domain.Identity), 0, len(s.watchers[token]))
	for _, fn := range s.watchers[token] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(identity)
	}
	if len(fns) > 0 {
		log.Printf("[food-svc] notified %d identity watchers", len(fns))
	}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

var _ IdentityProvider = (*IdentityService)(nil)
