package tests

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"fooddelight/food-svc/internal/docstore"
	"fooddelight/food-svc/internal/domain"
	"fooddelight/food-svc/internal/mocks"
	"fooddelight/food-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAccountService_SignUp(t *testing.T) {
	tests := []struct {
		name        string
		role        string
		wantRole    domain.Role
		wantLanding string
		wantErr     error
	}{
		{name: "owner", role: "Owner", wantRole: domain.RoleOwner, wantLanding: "/add-restaurant"},
		{name: "customer", role: "Customer", wantRole: domain.RoleCustomer, wantLanding: "/restaurants"},
		{name: "blank role defaults to customer", role: "", wantRole: domain.RoleCustomer, wantLanding: "/restaurants"},
		{name: "unknown role", role: "Admin", wantErr: domain.ErrValidation},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()

			result, err := env.accounts.SignUp(ctx, service.SignupInput{
				Name: "Ravi", Email: "ravi@example.com", Password: "secret123", Role: testCase.role,
			})
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Zero(t, env.count(t, "accounts"))
				assert.Zero(t, env.count(t, "users"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.wantLanding, result.Landing)
			assert.NotEmpty(t, result.Session.Token)

			doc, err := env.store.Get(ctx, docstore.Doc("users", result.User.UID))
			require.NoError(t, err)
			var stored map[string]any
			require.NoError(t, doc.DataTo(&stored))
			assert.Equal(t, string(testCase.wantRole), stored["role"])
			assert.Equal(t, []any{}, stored["favorites"])
			assert.Equal(t, []any{}, stored["orderHistory"])
		})
	}
}

func TestAccountService_SignUpRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		input   service.SignupInput
		wantErr error
	}{
		{name: "missing name", input: service.SignupInput{Email: "a@x.io", Password: "secret123"}, wantErr: domain.ErrValidation},
		{name: "bad email", input: service.SignupInput{Name: "A", Email: "not-an-email", Password: "secret123"}, wantErr: domain.ErrValidation},
		{name: "short password", input: service.SignupInput{Name: "A", Email: "a@x.io", Password: "12345"}, wantErr: domain.ErrValidation},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.accounts.SignUp(context.Background(), testCase.input)
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func TestAccountService_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "Ravi", "ravi@example.com", domain.RoleCustomer)

	_, err := env.accounts.SignUp(context.Background(), service.SignupInput{
		Name: "Other", Email: "  RAVI@example.com ", Password: "secret123",
	})
	assert.ErrorIs(t, err, domain.ErrEmailInUse)
	assert.Equal(t, 1, env.count(t, "users"))
}

// profileWriteFailure fails every write to the users collection.
type profileWriteFailure struct {
	*docstore.MemoryStore
}

func (s profileWriteFailure) Set(ctx context.Context, ref docstore.Ref, v any) error {
	if ref.Collection == "users" {
		return errors.New("disk full")
	}
	return s.MemoryStore.Set(ctx, ref, v)
}

func TestAccountService_SignUpProfileFailureReleasesEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	in := service.SignupInput{Name: "Ravi", Email: "ravi@example.com", Password: "secret123", Role: string(domain.RoleCustomer)}

	failing := service.NewAccountService(profileWriteFailure{env.store}, env.identity)
	_, err := failing.SignUp(ctx, in)
	assert.ErrorIs(t, err, domain.ErrWrite)
	assert.Zero(t, env.count(t, "accounts"))
	assert.Zero(t, env.count(t, "users"))

	_, err = env.identity.SignIn(ctx, in.Email, in.Password)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	result, err := env.accounts.SignUp(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", result.User.Email)
	assert.Equal(t, 1, env.count(t, "accounts"))
}

func TestAccountService_Login(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T, env *testEnv)
		password    string
		wantLanding string
		wantErr     error
	}{
		{
			name:        "customer lands on dashboard",
			setup:       func(t *testing.T, env *testEnv) { env.signUp(t, "C", "user@example.com", domain.RoleCustomer) },
			password:    "secret123",
			wantLanding: "/dashboard",
		},
		{
			name:        "owner lands on admin",
			setup:       func(t *testing.T, env *testEnv) { env.signUp(t, "O", "user@example.com", domain.RoleOwner) },
			password:    "secret123",
			wantLanding: "/admin",
		},
		{
			name:     "wrong password",
			setup:    func(t *testing.T, env *testEnv) { env.signUp(t, "C", "user@example.com", domain.RoleCustomer) },
			password: "wrong-password",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name:     "unknown account",
			setup:    func(t *testing.T, env *testEnv) {},
			password: "secret123",
			wantErr:  domain.ErrInvalidCredentials,
		},
		{
			name: "account without user document",
			setup: func(t *testing.T, env *testEnv) {
				_, err := env.identity.CreateAccount(context.Background(), "user@example.com", "secret123")
				require.NoError(t, err)
			},
			password: "secret123",
			wantErr:  domain.ErrUserNotFound,
		},
		{
			name: "unrecognized role",
			setup: func(t *testing.T, env *testEnv) {
				result := env.signUp(t, "C", "user@example.com", domain.RoleCustomer)
				err := env.store.Update(context.Background(), docstore.Doc("users", result.User.UID), map[string]any{"role": "Chef"})
				require.NoError(t, err)
			},
			password: "secret123",
			wantErr:  domain.ErrUnknownRole,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			env := newTestEnv(t)
			testCase.setup(t, env)
			sessionsBefore := len(env.redis.Keys())

			result, err := env.accounts.Login(context.Background(), "user@example.com", testCase.password)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Len(t, env.redis.Keys(), sessionsBefore)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.wantLanding, result.Landing)
		})
	}
}

func TestIdentityService_OnIdentityChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	result := env.signUp(t, "Ravi", "ravi@example.com", domain.RoleCustomer)
	token := result.Session.Token

	var mu sync.Mutex
	var seen []*domain.Identity
	unsubscribe, err := env.identity.OnIdentityChange(ctx, token, func(identity *domain.Identity) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, identity)
	})
	require.NoError(t, err)

	require.NoError(t, env.identity.SignOut(ctx, token))
	unsubscribe()
	require.NoError(t, env.identity.SignOut(ctx, token))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	require.NotNil(t, seen[0])
	assert.Equal(t, result.User.UID, seen[0].UID)
	assert.Nil(t, seen[1])

	current, err := env.identity.CurrentIdentity(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestIdentityService_SessionLookupFailure(t *testing.T) {
	sessions := mocks.NewSessionStore(t)
	sessions.On("Lookup", mock.Anything, "tok").Return(nil, errors.New("redis down")).Once()
	identity := service.NewIdentityService(docstore.NewMemoryStore(), sessions)

	_, err := identity.CurrentIdentity(context.Background(), "tok")
	assert.ErrorIs(t, err, domain.ErrRead)

	current, err := identity.CurrentIdentity(context.Background(), "")
	assert.NoError(t, err)
	assert.Nil(t, current)
}

func TestCatalogService_SpiceGardenScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	owner := env.signUp(t, "Meera", "meera@example.com", domain.RoleOwner)
	assert.Equal(t, "/add-restaurant", owner.Landing)

	created, err := env.catalog.CreateRestaurant(ctx, &owner.Session.Identity, domain.RestaurantFields{
		Name: "Spice Garden", Address: "12 MG Road", Description: "North Indian", Phone: "555-0100",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	found, err := env.catalog.RestaurantForOwner(ctx, owner.User.UID)
	require.NoError(t, err)
	assert.Equal(t, "Spice Garden", found.Name)
	assert.Equal(t, created.ID, found.ID)

	menu, err := env.catalog.ListMenu(ctx, found.ID)
	require.NoError(t, err)
	assert.NotNil(t, menu)
	assert.Empty(t, menu)

	_, err = env.catalog.CreateRestaurant(ctx, &owner.Session.Identity, domain.RestaurantFields{Name: "Second", Address: "Elsewhere"})
	assert.ErrorIs(t, err, domain.ErrRestaurantExists)

	restaurants, err := env.catalog.ListRestaurants(ctx)
	require.NoError(t, err)
	assert.Len(t, restaurants, 1)
}

func TestCatalogService_ConcurrentCreateRestaurant(t *testing.T) {
	env := newTestEnv(t)
	owner := env.signUp(t, "Meera", "meera@example.com", domain.RoleOwner)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.catalog.CreateRestaurant(context.Background(), &owner.Session.Identity, domain.RestaurantFields{
				Name: fmt.Sprintf("Spice Garden %d", i), Address: "12 MG Road",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, domain.ErrRestaurantExists):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, env.count(t, "restaurants"))
	assert.Equal(t, 1, env.count(t, "restaurantOwners"))
}

func TestCatalogService_CreateRestaurantRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.signUp(t, "Cara", "cara@example.com", domain.RoleCustomer)

	tests := []struct {
		name     string
		identity *domain.Identity
		fields   domain.RestaurantFields
		wantErr  error
	}{
		{name: "signed out", identity: nil, fields: domain.RestaurantFields{Name: "A", Address: "B"}, wantErr: domain.ErrUnauthenticated},
		{name: "missing name", identity: &customer.Session.Identity, fields: domain.RestaurantFields{Address: "B"}, wantErr: domain.ErrValidation},
		{name: "missing address", identity: &customer.Session.Identity, fields: domain.RestaurantFields{Name: "A"}, wantErr: domain.ErrValidation},
		{name: "customer account", identity: &customer.Session.Identity, fields: domain.RestaurantFields{Name: "A", Address: "B"}, wantErr: domain.ErrForbidden},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := env.catalog.CreateRestaurant(ctx, testCase.identity, testCase.fields)
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
	assert.Zero(t, env.count(t, "restaurants"))
}

func TestCatalogService_MenuItemPriceRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.signUp(t, "Meera", "meera@example.com", domain.RoleOwner)
	rest, err := env.catalog.CreateRestaurant(ctx, &owner.Session.Identity, domain.RestaurantFields{Name: "Spice Garden", Address: "12 MG Road"})
	require.NoError(t, err)

	created, err := env.catalog.CreateMenuItem(ctx, &owner.Session.Identity, rest.ID, domain.MenuItemFields{
		Name: "Paneer Tikka", Price: "12.5", Image: "https://img/paneer.png",
	})
	require.NoError(t, err)

	item, err := env.catalog.GetMenuItem(ctx, rest.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.5, item.Price)
	assert.Equal(t, rest.ID, item.RestaurantID)

	menu, err := env.catalog.ListMenu(ctx, rest.ID)
	require.NoError(t, err)
	require.Len(t, menu, 1)
	assert.Equal(t, created.ID, menu[0].ID)
}

func TestCatalogService_CreateMenuItemValidatesBeforeStore(t *testing.T) {
	tests := []struct {
		name   string
		fields domain.MenuItemFields
	}{
		{name: "not a number", fields: domain.MenuItemFields{Name: "X", Price: "abc", Image: "i"}},
		{name: "negative", fields: domain.MenuItemFields{Name: "X", Price: "-1", Image: "i"}},
		{name: "nan", fields: domain.MenuItemFields{Name: "X", Price: "NaN", Image: "i"}},
		{name: "infinite", fields: domain.MenuItemFields{Name: "X", Price: "Inf", Image: "i"}},
		{name: "missing price", fields: domain.MenuItemFields{Name: "X", Image: "i"}},
		{name: "missing name", fields: domain.MenuItemFields{Price: "1", Image: "i"}},
		{name: "missing image", fields: domain.MenuItemFields{Name: "X", Price: "1"}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			// Any store call fails the test.
			catalog := service.NewCatalogService(mocks.NewStore(t))
			_, err := catalog.CreateMenuItem(context.Background(), &domain.Identity{UID: "u1"}, "r1", testCase.fields)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCatalogService_CreateMenuItemOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seedPizza(t)
	stranger := env.signUp(t, "S", "s@example.com", domain.RoleOwner)
	fields := domain.MenuItemFields{Name: "Calzone", Price: "7", Image: "i"}

	_, err := env.catalog.CreateMenuItem(ctx, &stranger.Session.Identity, "r1", fields)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.catalog.CreateMenuItem(ctx, &stranger.Session.Identity, "missing", fields)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 1, env.count(t, "restaurants/r1/menu"))
}

func TestCatalogService_ReadFailures(t *testing.T) {
	store := mocks.NewStore(t)
	store.On("List", mock.Anything, "restaurants").Return(nil, errors.New("connection reset")).Once()
	store.On("Get", mock.Anything, docstore.Doc("restaurants", "r9")).Return(docstore.Document{}, docstore.ErrNotFound).Once()
	catalog := service.NewCatalogService(store)

	_, err := catalog.ListRestaurants(context.Background())
	assert.ErrorIs(t, err, domain.ErrRead)

	_, err = catalog.GetRestaurant(context.Background(), "r9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderService_PizzaScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.seedPizza(t)
	customer := env.signUp(t, "Alice", "alice@example.com", domain.RoleCustomer)

	confirmation, err := env.orders.PlaceOrder(ctx, &customer.Session.Identity, domain.OrderRequest{
		Item: item, Name: "Alice", Address: "2 Oak Rd", Phone: "555-0200",
	})
	require.NoError(t, err)
	assert.Equal(t, "30 minutes", confirmation.DeliveryEstimate)
	assert.Equal(t, "Cash on Delivery", confirmation.PaymentMode)
	assert.False(t, confirmation.Replayed)

	orders, err := env.orders.CustomerOrders(ctx, &customer.Session.Identity)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "Pizza", orders[0].ItemName)
	assert.Equal(t, 9.99, orders[0].ItemPrice)
	assert.Equal(t, "2 Oak Rd", orders[0].DeliveryAddress)

	// The restaurant copy shares the order id.
	placed, err := env.orders.RestaurantOrders(ctx, &customer.Session.Identity, "r1")
	require.NoError(t, err)
	require.Len(t, placed, 1)
	assert.Equal(t, orders[0].OrderID, placed[0].OrderID)
	assert.Equal(t, confirmation.Order.OrderID, placed[0].OrderID)

	_, err = env.store.Get(ctx, docstore.Doc("restaurants/r1/menu/i1/orders", confirmation.Order.OrderID))
	assert.NoError(t, err)

	env.publisher.AssertCalled(t, "PublishOrder", mock.Anything, mock.MatchedBy(func(event domain.OrderEvent) bool {
		return event.Type == service.EventOrderPlaced && event.OrderID == confirmation.Order.OrderID &&
			event.RestaurantID == "r1" && event.Price == 9.99
	}))
}

func TestOrderService_MissingUserWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedPizza(t)

	_, err := env.orders.PlaceOrder(context.Background(), &domain.Identity{UID: "ghost"}, domain.OrderRequest{
		Item: item, Name: "Ghost", Address: "Nowhere", Phone: "000", IdempotencyKey: "k1",
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Zero(t, env.count(t, "restaurants/r1/menu/i1/orders"))
	assert.Zero(t, env.count(t, "orderTokens"))
	env.publisher.AssertNotCalled(t, "PublishOrder", mock.Anything, mock.Anything)
}

func TestOrderService_IdempotentReplay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.seedPizza(t)
	customer := env.signUp(t, "Alice", "alice@example.com", domain.RoleCustomer)
	req := domain.OrderRequest{Item: item, Name: "Alice", Address: "2 Oak Rd", Phone: "555-0200", IdempotencyKey: "checkout-1"}

	first, err := env.orders.PlaceOrder(ctx, &customer.Session.Identity, req)
	require.NoError(t, err)
	second, err := env.orders.PlaceOrder(ctx, &customer.Session.Identity, req)
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.Order.OrderID, second.Order.OrderID)
	assert.Equal(t, 1, env.count(t, "restaurants/r1/menu/i1/orders"))

	history, err := env.orders.CustomerOrders(ctx, &customer.Session.Identity)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	env.publisher.AssertNumberOfCalls(t, "PublishOrder", 1)
}

func TestOrderService_ConcurrentSameKey(t *testing.T) {
	env := newTestEnv(t)
	item := env.seedPizza(t)
	customer := env.signUp(t, "Alice", "alice@example.com", domain.RoleCustomer)
	req := domain.OrderRequest{Item: item, Name: "Alice", Address: "2 Oak Rd", Phone: "555-0200", IdempotencyKey: "checkout-1"}

	const attempts = 10
	results := make([]*domain.Confirmation, attempts)
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = env.orders.PlaceOrder(context.Background(), &customer.Session.Identity, req)
		}(i)
	}
	wg.Wait()

	fresh := 0
	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0].Order.OrderID, results[i].Order.OrderID)
		if !results[i].Replayed {
			fresh++
		}
	}
	assert.Equal(t, 1, fresh)
	assert.Equal(t, 1, env.count(t, "restaurants/r1/menu/i1/orders"))
	assert.Equal(t, 1, env.count(t, "orderTokens"))

	history, err := env.orders.CustomerOrders(context.Background(), &customer.Session.Identity)
	require.NoError(t, err)
	assert.Len(t, history, 1)
	env.publisher.AssertNumberOfCalls(t, "PublishOrder", 1)
}

func TestOrderService_RejectsBeforeAnyWrite(t *testing.T) {
	item := domain.MenuItem{ID: "i1", Name: "Pizza", Price: 9.99, RestaurantID: "r1"}

	tests := []struct {
		name     string
		identity *domain.Identity
		req      domain.OrderRequest
		wantErr  error
	}{
		{
			name:    "signed out",
			req:     domain.OrderRequest{Item: item, Name: "A", Address: "B", Phone: "C"},
			wantErr: domain.ErrUnauthenticated,
		},
		{
			name:     "missing phone",
			identity: &domain.Identity{UID: "u1"},
			req:      domain.OrderRequest{Item: item, Name: "A", Address: "B", Phone: "  "},
			wantErr:  domain.ErrValidation,
		},
		{
			name:     "missing address",
			identity: &domain.Identity{UID: "u1"},
			req:      domain.OrderRequest{Item: item, Name: "A", Phone: "C"},
			wantErr:  domain.ErrValidation,
		},
		{
			name:     "missing item",
			identity: &domain.Identity{UID: "u1"},
			req:      domain.OrderRequest{Name: "A", Address: "B", Phone: "C"},
			wantErr:  domain.ErrValidation,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			orders := service.NewOrderService(mocks.NewStore(t), mocks.NewOrderPublisher(t), nil, 1)
			_, err := orders.PlaceOrder(context.Background(), testCase.identity, testCase.req)
			assert.ErrorIs(t, err, testCase.wantErr)
		})
	}
}

func TestOrderService_PublishFailureKeepsOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.seedPizza(t)
	customer := env.signUp(t, "Alice", "alice@example.com", domain.RoleCustomer)

	publisher := mocks.NewOrderPublisher(t)
	publisher.On("PublishOrder", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	orders := service.NewOrderService(env.store, publisher, nil, 1)

	_, err := orders.PlaceOrder(ctx, &customer.Session.Identity, domain.OrderRequest{
		Item: item, Name: "Alice", Address: "2 Oak Rd", Phone: "555-0200",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, env.count(t, "restaurants/r1/menu/i1/orders"))
}

func TestOrderService_CustomerOrdersSources(t *testing.T) {
	legacy := domain.OrderRecord{OrderID: "legacy-1", ItemName: "Dosa", ItemPrice: 4}

	tests := []struct {
		name    string
		userDoc any
		want    []string
	}{
		{
			name:    "history field wins even when empty",
			userDoc: map[string]any{"name": "A", "orderHistory": []any{}},
			want:    []string{},
		},
		{
			name:    "missing field falls back to subcollection",
			userDoc: map[string]any{"name": "A"},
			want:    []string{"legacy-1"},
		},
		{
			name: "missing document falls back to subcollection",
			want: []string{"legacy-1"},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			env := newTestEnv(t)
			ctx := context.Background()
			if testCase.userDoc != nil {
				require.NoError(t, env.store.Set(ctx, docstore.Doc("users", "u1"), testCase.userDoc))
			}
			require.NoError(t, env.store.Set(ctx, docstore.Doc("users/u1/orders", "legacy-1"), legacy))

			orders, err := env.orders.CustomerOrders(ctx, &domain.Identity{UID: "u1"})
			require.NoError(t, err)
			ids := []string{}
			for _, order := range orders {
				ids = append(ids, order.OrderID)
			}
			assert.Equal(t, testCase.want, ids)
		})
	}
}

func TestOrderService_RestaurantOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	viewer := &domain.Identity{UID: "owner-1"}

	menu := []struct {
		id, name string
		orders   []string
	}{
		{id: "a", name: "Biryani", orders: []string{"o1", "o2"}},
		{id: "b", name: "", orders: []string{"o3"}},
		{id: "c", name: "Lassi"},
		{id: "d", name: "Kulfi", orders: []string{"o4"}},
	}
	for _, item := range menu {
		require.NoError(t, env.store.Set(ctx, docstore.Doc("restaurants/r1/menu", item.id), map[string]any{"name": item.name, "price": 1}))
		for _, orderID := range item.orders {
			ref := docstore.Doc("restaurants/r1/menu/"+item.id+"/orders", orderID)
			require.NoError(t, env.store.Set(ctx, ref, domain.OrderRecord{OrderID: orderID, ItemName: "stale"}))
		}
	}

	orders, err := env.orders.RestaurantOrders(ctx, viewer, "r1")
	require.NoError(t, err)

	var got [][2]string
	for _, order := range orders {
		got = append(got, [2]string{order.OrderID, order.ItemName})
	}
	assert.Equal(t, [][2]string{
		{"o1", "Biryani"},
		{"o2", "Biryani"},
		{"o3", domain.UnknownItemName},
		{"o4", "Kulfi"},
	}, got)

	empty, err := env.orders.RestaurantOrders(ctx, viewer, "no-such-restaurant")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = env.orders.RestaurantOrders(ctx, nil, "r1")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestOrderService_RestaurantOrdersReadFailure(t *testing.T) {
	store := mocks.NewStore(t)
	store.On("List", mock.Anything, "restaurants/r1/menu").
		Return([]docstore.Document{{ID: "a", Data: []byte(`{"name":"Biryani"}`)}}, nil).Once()
	store.On("List", mock.Anything, "restaurants/r1/menu/a/orders").
		Return(nil, errors.New("timeout")).Once()
	orders := service.NewOrderService(store, nil, nil, 1)

	_, err := orders.RestaurantOrders(context.Background(), &domain.Identity{UID: "u1"}, "r1")
	assert.ErrorIs(t, err, domain.ErrRead)
}

func TestOrderService_ReceiptQR(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	item := env.seedPizza(t)
	customer := env.signUp(t, "Alice", "alice@example.com", domain.RoleCustomer)
	confirmation, err := env.orders.PlaceOrder(ctx, &customer.Session.Identity, domain.OrderRequest{
		Item: item, Name: "Alice", Address: "2 Oak Rd", Phone: "555-0200",
	})
	require.NoError(t, err)

	png, err := env.orders.ReceiptQR(ctx, "r1", "i1", confirmation.Order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	_, err = env.orders.ReceiptQR(ctx, "r1", "i1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	link := service.DefaultQRGenerator{BaseURL: baseURL}.Link("r1", confirmation.Order.OrderID)
	assert.Equal(t, baseURL+"/ordersPlaced/r1#"+confirmation.Order.OrderID, link)
}

func TestStatsService_ForRestaurant(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*mocks.StatsReader)
		want    *domain.RestaurantStats
		wantErr error
	}{
		{
			name: "reader result",
			setup: func(m *mocks.StatsReader) {
				m.On("RestaurantStats", mock.Anything, "r1", 5).
					Return(&domain.RestaurantStats{RestaurantID: "r1", OrdersToday: 2, Revenue: 19.98}, nil).Once()
			},
			want: &domain.RestaurantStats{RestaurantID: "r1", OrdersToday: 2, Revenue: 19.98},
		},
		{
			name: "reader failure",
			setup: func(m *mocks.StatsReader) {
				m.On("RestaurantStats", mock.Anything, "r1", 5).Return(nil, errors.New("redis down")).Once()
			},
			wantErr: domain.ErrRead,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			reader := mocks.NewStatsReader(t)
			testCase.setup(reader)

			stats, err := service.NewStatsService(reader).ForRestaurant(context.Background(), "r1")
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, stats)
		})
	}

	stats, err := service.NewStatsService(nil).ForRestaurant(context.Background(), "r1")
	require.NoError(t, err)
	assert.Zero(t, stats.OrdersToday)
}
