package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"fooddelight/food-svc/internal/docstore"
	"fooddelight/food-svc/internal/domain"

	"github.com/google/uuid"
)

func menuCollection(restaurantID string) string {
	return docstore.Doc("restaurants", restaurantID).Sub("menu")
}

type ownerClaim struct {
	RestaurantID string `json:"restaurantId"`
}

type CatalogService struct {
	store docstore.Store
	now   func() time.Time
}

func NewCatalogService(store docstore.Store) *CatalogService {
	return &CatalogService{store: store, now: time.Now}
}

func (s *CatalogService) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	docs, err := s.store.List(ctx, "restaurants")
	if err != nil {
		return nil, domain.ReadError("list restaurants", err)
	}
	return decodeRestaurants(docs)
}

func (s *CatalogService) GetRestaurant(ctx context.Context, id string) (*domain.Restaurant, error) {
	doc, err := s.store.Get(ctx, docstore.Doc("restaurants", id))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.ReadError("get restaurant", err)
	}
	var rest domain.Restaurant
	if err := doc.DataTo(&rest); err != nil {
		return nil, domain.ReadError("decode restaurant", err)
	}
	rest.ID = doc.ID
	return &rest, nil
}

// ListMenu never returns a nil slice.
func (s *CatalogService) ListMenu(ctx context.Context, restaurantID string) ([]domain.MenuItem, error) {
	docs, err := s.store.List(ctx, menuCollection(restaurantID))
	if err != nil {
		return nil, domain.ReadError("list menu", err)
	}
	items := make([]domain.MenuItem, 0, len(docs))
	for _, doc := range docs {
		var item domain.MenuItem
		if err := doc.DataTo(&item); err != nil {
			return nil, domain.ReadError("decode menu item", err)
		}
		item.ID = doc.ID
		if item.RestaurantID == "" {
			item.RestaurantID = restaurantID
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *CatalogService) GetMenuItem(ctx context.Context, restaurantID, itemID string) (*domain.MenuItem, error) {
	doc, err := s.store.Get(ctx, docstore.Doc(menuCollection(restaurantID), itemID))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.ReadError("get menu item", err)
	}
	var item domain.MenuItem
	if err := doc.DataTo(&item); err != nil {
		return nil, domain.ReadError("decode menu item", err)
	}
	item.ID = doc.ID
	if item.RestaurantID == "" {
		item.RestaurantID = restaurantID
	}
	return &item, nil
}

// RestaurantForOwner returns the first restaurant whose ownerId matches.
func (s *CatalogService) RestaurantForOwner(ctx context.Context, ownerID string) (*domain.Restaurant, error) {
	docs, err := s.store.Where(ctx, "restaurants", "ownerId", ownerID)
	if err != nil {
		return nil, domain.ReadError("find owner restaurant", err)
	}
	restaurants, err := decodeRestaurants(docs)
	if err != nil {
		return nil, err
	}
	if len(restaurants) == 0 {
		return nil, domain.ErrNotFound
	}
	return &restaurants[0], nil
}

func (s *CatalogService) CreateRestaurant(ctx context.Context, owner *domain.Identity, fields domain.RestaurantFields) (*domain.Restaurant, error) {
	if owner == nil {
		return nil, domain.ErrUnauthenticated
	}
	rest := domain.Restaurant{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(fields.Name),
		Address:     strings.TrimSpace(fields.Address),
		Description: strings.TrimSpace(fields.Description),
		Phone:       strings.TrimSpace(fields.Phone),
		Image:       strings.TrimSpace(fields.Image),
		OwnerID:     owner.UID,
		CreatedAt:   s.now().UTC(),
	}
	if rest.Name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if rest.Address == "" {
		return nil, domain.NewValidationError("address", "is required")
	}

	if err := s.requireOwnerRole(ctx, owner); err != nil {
		return nil, err
	}

	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		err := tx.Create(ctx, docstore.Doc("restaurantOwners", owner.UID), ownerClaim{RestaurantID: rest.ID})
		if errors.Is(err, docstore.ErrAlreadyExists) {
			return domain.ErrRestaurantExists
		}
		if err != nil {
			return domain.WriteError("claim restaurant owner", err)
		}
		if err := tx.Set(ctx, docstore.Doc("restaurants", rest.ID), rest); err != nil {
			return domain.WriteError("create restaurant", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rest, nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, owner *domain.Identity, restaurantID string, fields domain.MenuItemFields) (*domain.MenuItem, error) {
	if owner == nil {
		return nil, domain.ErrUnauthenticated
	}
	item, err := parseMenuItem(fields)
	if err != nil {
		return nil, err
	}

	rest, err := s.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	if rest.OwnerID != owner.UID {
		return nil, domain.ErrForbidden
	}

	item.RestaurantID = restaurantID
	item.CreatedAt = s.now().UTC()
	id, err := s.store.Add(ctx, menuCollection(restaurantID), item)
	if err != nil {
		return nil, domain.WriteError("add menu item", err)
	}
	item.ID = id
	return item, nil
}

func (s *CatalogService) requireOwnerRole(ctx context.Context, identity *domain.Identity) error {
	doc, err := s.store.Get(ctx, docstore.Doc("users", identity.UID))
	if errors.Is(err, docstore.ErrNotFound) {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return domain.ReadError("load user", err)
	}
	var user domain.User
	if err := doc.DataTo(&user); err != nil {
		return domain.ReadError("decode user", err)
	}
	if user.Role != domain.RoleOwner {
		return domain.ErrForbidden
	}
	return nil
}

// parseMenuItem validates raw form input before anything touches the store.
func parseMenuItem(fields domain.MenuItemFields) (*domain.MenuItem, error) {
	name := strings.TrimSpace(fields.Name)
	rawPrice := strings.TrimSpace(fields.Price)
	image := strings.TrimSpace(fields.Image)

	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if rawPrice == "" {
		return nil, domain.NewValidationError("price", "is required")
	}
	if image == "" {
		return nil, domain.NewValidationError("image", "is required")
	}

	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil {
		return nil, domain.NewValidationError("price", "must be a number")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return nil, domain.NewValidationError("price", "must be a non-negative amount")
	}

	return &domain.MenuItem{
		Name:        name,
		Price:       price,
		Description: strings.TrimSpace(fields.Description),
		Image:       image,
	}, nil
}

func decodeRestaurants(docs []docstore.Document) ([]domain.Restaurant, error) {
	restaurants := make([]domain.Restaurant, 0, len(docs))
	for _, doc := range docs {
		var rest domain.Restaurant
		if err := doc.DataTo(&rest); err != nil {
			return nil, domain.ReadError("decode restaurant", err)
		}
		rest.ID = doc.ID
		restaurants = append(restaurants, rest)
	}
	return restaurants, nil
}

var _ CatalogServiceInterface = (*CatalogService)(nil)
