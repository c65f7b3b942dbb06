package service

import (
	"context"
	"time"

	"fooddelight/food-svc/internal/domain"
)

type SessionStore interface {
	Save(ctx context.Context, token string, identity domain.Identity) (time.Time, error)
	Lookup(ctx context.Context, token string) (*domain.Identity, error)
	Delete(ctx context.Context, token string) error
}

type OrderPublisher interface {
	PublishOrder(ctx context.Context, event domain.OrderEvent) error
}

type StatsReader interface {
	RestaurantStats(ctx context.Context, restaurantID string, top int) (*domain.RestaurantStats, error)
}

type IdentityProvider interface {
	CreateAccount(ctx context.Context, email, password string) (domain.Identity, error)
	DeleteAccount(ctx context.Context, email string) error
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	CurrentIdentity(ctx context.Context, token string) (*domain.Identity, error)
	OnIdentityChange(ctx context.Context, token string, fn func(*domain.Identity)) (func(), error)
	SignOut(ctx context.Context, token string) error
}

type AccountServiceInterface interface {
	SignUp(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, token string) error
	Profile(ctx context.Context, identity *domain.Identity) (*domain.User, error)
}

type CatalogServiceInterface interface {
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error)
	ListMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	GetMenuItem(ctx context.Context, restaurantID, itemID string) (*domain.MenuItem, error)
	RestaurantForOwner(ctx context.Context, ownerID string) (*domain.Restaurant, error)
	CreateRestaurant(ctx context.Context, owner *domain.Identity, fields domain.RestaurantFields) (*domain.Restaurant, error)
	CreateMenuItem(ctx context.Context, owner *domain.Identity, restaurantID string, fields domain.MenuItemFields) (*domain.MenuItem, error)
}

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, identity *domain.Identity, req domain.OrderRequest) (*domain.Confirmation, error)
	CustomerOrders(ctx context.Context, identity *domain.Identity) ([]domain.OrderRecord, error)
	RestaurantOrders(ctx context.Context, identity *domain.Identity, restaurantID string) ([]domain.OrderRecord, error)
	ReceiptQR(ctx context.Context, restaurantID, itemID, orderID string) ([]byte, error)
}

type StatsServiceInterface interface {
	ForRestaurant(ctx context.Context, restaurantID string) (*domain.RestaurantStats, error)
}
