package tests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "fooddelight/food-svc/internal/api/http"
	"fooddelight/food-svc/internal/auth"
	"fooddelight/food-svc/internal/docstore"
	"fooddelight/food-svc/internal/domain"
	"fooddelight/food-svc/internal/mocks"
	"fooddelight/food-svc/internal/service"
	"fooddelight/food-svc/internal/storage"
	"fooddelight/food-svc/internal/web"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const baseURL = "http://localhost:8081"

// testEnv wires the real services over an in-memory store and miniredis.
type testEnv struct {
	store     *docstore.MemoryStore
	redis     *miniredis.Miniredis
	identity  *service.IdentityService
	accounts  *service.AccountService
	catalog   *service.CatalogService
	orders    *service.OrderService
	stats     *service.StatsService
	publisher *mocks.OrderPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	store := docstore.NewMemoryStore()
	publisher := mocks.NewOrderPublisher(t)
	publisher.On("PublishOrder", mock.Anything, mock.Anything).Return(nil).Maybe()

	identity := service.NewIdentityService(store, storage.NewRedisSessionStore(client, time.Hour)).
		WithHashCost(bcrypt.MinCost)

	return &testEnv{
		store:     store,
		redis:     server,
		identity:  identity,
		accounts:  service.NewAccountService(store, identity),
		catalog:   service.NewCatalogService(store),
		orders:    service.NewOrderService(store, publisher, service.DefaultQRGenerator{BaseURL: baseURL}, 2),
		stats:     service.NewStatsService(storage.NewRedisStatsReader(client)),
		publisher: publisher,
	}
}

func (e *testEnv) router(t *testing.T) http.Handler {
	t.Helper()
	views, err := web.NewViews(e.accounts, e.catalog, e.orders, e.stats)
	require.NoError(t, err)
	handler := httpapi.NewHandler(e.accounts, e.identity, e.catalog, e.orders, e.stats)
	return httpapi.NewRouter(handler, views)
}

func (e *testEnv) signUp(t *testing.T, name, email string, role domain.Role) *service.AuthResult {
	t.Helper()
	result, err := e.accounts.SignUp(context.Background(), service.SignupInput{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Role:     string(role),
	})
	require.NoError(t, err)
	return result
}

// seedPizza stores restaurant r1 with menu item i1 "Pizza" at 9.99.
func (e *testEnv) seedPizza(t *testing.T) domain.MenuItem {
	t.Helper()
	ctx := context.Background()
	item := domain.MenuItem{ID: "i1", Name: "Pizza", Price: 9.99, Image: "https://img/pizza.png", RestaurantID: "r1"}
	require.NoError(t, e.store.Set(ctx, docstore.Doc("restaurants", "r1"), domain.Restaurant{ID: "r1", Name: "Luigi's", Address: "1 Main St", OwnerID: "owner-1"}))
	require.NoError(t, e.store.Set(ctx, docstore.Doc("restaurants/r1/menu", "i1"), item))
	return item
}

func (e *testEnv) count(t *testing.T, collection string) int {
	t.Helper()
	docs, err := e.store.List(context.Background(), collection)
	require.NoError(t, err)
	return len(docs)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == auth.CookieName {
			return cookie
		}
	}
	t.Fatalf("no %s cookie in response", auth.CookieName)
	return nil
}

func serve(router http.Handler, method, path, body string, setup ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for _, fn := range setup {
		fn(req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func withJSON(r *http.Request) {
	r.Header.Set("Content-Type", "application/json")
}

func withForm(r *http.Request) {
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func withCookie(cookie *http.Cookie) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(cookie)
	}
}
