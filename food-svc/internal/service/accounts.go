package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"fooddelight/food-svc/internal/docstore"
	"fooddelight/food-svc/internal/domain"
)

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// AuthResult is a signed-in session plus where the user should land next.
type AuthResult struct {
	Session domain.Session `json:"session"`
	User    domain.User    `json:"user"`
	Landing string         `json:"landing"`
}

type AccountService struct {
	store    docstore.Store
	identity IdentityProvider
	now      func() time.Time
}

func NewAccountService(store docstore.Store, identity IdentityProvider) *AccountService {
	return &AccountService{store: store, identity: identity, now: time.Now}
}

func (s *AccountService) SignUp(ctx context.Context, in SignupInput) (*AuthResult, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}

	identity, err := s.identity.CreateAccount(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	user := domain.User{
		UID:          identity.UID,
		Name:         name,
		Email:        identity.Email,
		Role:         role,
		CreatedAt:    s.now().UTC(),
		Favorites:    []string{},
		OrderHistory: []domain.OrderRecord{},
	}
	if err := s.store.Set(ctx, docstore.Doc("users", user.UID), user); err != nil {
		// Free the email again so the signup can be retried.
		if deleteErr := s.identity.DeleteAccount(ctx, identity.Email); deleteErr != nil {
			log.Printf("[food-svc] failed to remove account %s after profile write error: %v", identity.Email, deleteErr)
		}
		return nil, domain.WriteError("create user", err)
	}

	session, err := s.identity.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Session: *session, User: user, Landing: domain.SignupLanding(role)}, nil
}

func (s *AccountService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	session, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user, err := s.Profile(ctx, &session.Identity)
	if err == nil {
		var landing string
		if landing, err = domain.LoginLanding(user.Role); err == nil {
			return &AuthResult{Session: *session, User: *user, Landing: landing}, nil
		}
	}

	// A session without a usable profile is dropped again.
	if signOutErr := s.identity.SignOut(ctx, session.Token); signOutErr != nil {
		log.Printf("[food-svc] failed to drop session: %v", signOutErr)
	}
	return nil, err
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.identity.SignOut(ctx, token)
}

func (s *AccountService) Profile(ctx context.Context, identity *domain.Identity) (*domain.User, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	doc, err := s.store.Get(ctx, docstore.Doc("users", identity.UID))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, domain.ReadError("load user", err)
	}

	var user domain.User
	if err := doc.DataTo(&user); err != nil {
		return nil, domain.ReadError("decode user", err)
	}
	return &user, nil
}

var _ AccountServiceInterface = (*AccountService)(nil)
