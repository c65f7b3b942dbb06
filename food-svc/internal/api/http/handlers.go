package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"fooddelight/food-svc/internal/auth"
	"fooddelight/food-svc/internal/domain"
	"fooddelight/food-svc/internal/service"

	"github.com/gorilla/mux"
)

type Handler struct {
	Accounts service.AccountServiceInterface
	Identity service.IdentityProvider
	Catalog  service.CatalogServiceInterface
	Orders   service.OrderServiceInterface
	Stats    service.StatsServiceInterface
}

func NewHandler(accounts service.AccountServiceInterface, identity service.IdentityProvider, catalog service.CatalogServiceInterface, orders service.OrderServiceInterface, stats service.StatsServiceInterface) *Handler {
	return &Handler{
		Accounts: accounts,
		Identity: identity,
		Catalog:  catalog,
		Orders:   orders,
		Stats:    stats,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	r.HandleFunc("/api/signup", h.signup).Methods("POST")
	r.HandleFunc("/api/login", h.login).Methods("POST")
	r.HandleFunc("/api/logout", h.logout).Methods("POST")
	r.HandleFunc("/api/session", h.getSession).Methods("GET")
	r.HandleFunc("/api/session/events", h.sessionEvents).Methods("GET")

	r.HandleFunc("/api/restaurants", h.createRestaurant).Methods("POST")
	r.HandleFunc("/api/restaurants", h.getRestaurants).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}", h.getRestaurant).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/menu", h.createMenuItem).Methods("POST")
	r.HandleFunc("/api/restaurants/{id}/menu", h.getMenu).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/orders", h.getRestaurantOrders).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/stats", h.getStats).Methods("GET")
	r.HandleFunc("/api/restaurants/{id}/menu/{itemId}/orders/{orderId}/qrcode", h.getReceiptQRCode).Methods("GET")

	r.HandleFunc("/api/orders", h.createOrder).Methods("POST")
	r.HandleFunc("/api/orders", h.getOrders).Methods("GET")
}

// StatusFor maps the domain error taxonomy onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnknownRole):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRestaurantExists), errors.Is(err, domain.ErrEmailInUse):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[food-svc] request failed: %v", err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "food-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var in service.SignupInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.Accounts.SignUp(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	auth.SetCookie(w, result.Session)
	writeJSON(w, http.StatusCreated, result)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.Accounts.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	auth.SetCookie(w, result.Session)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Accounts.Logout(r.Context(), auth.Token(r)); err != nil {
		writeError(w, err)
		return
	}
	auth.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	if identity == nil {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	user, err := h.Accounts.Profile(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"identity": identity, "user": user})
}

// sessionEvents streams identity transitions as server-sent events. The first
// event carries the current identity, null when signed out.
func (h *Handler) sessionEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	changes := make(chan *domain.Identity, 4)
	unsubscribe, err := h.Identity.OnIdentityChange(r.Context(), auth.Token(r), func(identity *domain.Identity) {
		select {
		case changes <- identity:
		default:
		}
	})
	if err != nil {
		writeError(w, err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for {
		select {
		case <-r.Context().Done():
			return
		case identity := <-changes:
			payload, _ := json.Marshal(identity)
			fmt.Fprintf(w, "event: identity\ndata: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var fields domain.RestaurantFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rest, err := h.Catalog.CreateRestaurant(r.Context(), auth.IdentityFrom(r.Context()), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rest)
}

func (h *Handler) getRestaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.Catalog.ListRestaurants(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	rest, err := h.Catalog.GetRestaurant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rest)
}

// menuItemRequest accepts price as a JSON number or a numeric string.
type menuItemRequest struct {
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	fields := domain.MenuItemFields{
		Name:        req.Name,
		Price:       req.Price.String(),
		Description: req.Description,
		Image:       req.Image,
	}
	item, err := h.Catalog.CreateMenuItem(r.Context(), auth.IdentityFrom(r.Context()), mux.Vars(r)["id"], fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.ListMenu(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getRestaurantOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.RestaurantOrders(r.Context(), auth.IdentityFrom(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.ForRestaurant(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type orderRequest struct {
	RestaurantID   string `json:"restaurant_id"`
	ItemID         string `json:"item_id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	if identity == nil {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON format: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = r.Header.Get("Idempotency-Key")
	}
	if strings.TrimSpace(req.RestaurantID) == "" || strings.TrimSpace(req.ItemID) == "" {
		writeError(w, domain.NewValidationError("item", "is required"))
		return
	}

	item, err := h.Catalog.GetMenuItem(r.Context(), req.RestaurantID, req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}

	// The order must complete even if the client goes away mid-request.
	ctx := context.WithoutCancel(r.Context())
	confirmation, err := h.Orders.PlaceOrder(ctx, identity, domain.OrderRequest{
		Item:           *item,
		Name:           req.Name,
		Address:        req.Address,
		Phone:          req.Phone,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if confirmation.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, status, confirmation)
}

func (h *Handler) getOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.CustomerOrders(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getReceiptQRCode(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	qrCode, err := h.Orders.ReceiptQR(r.Context(), vars["id"], vars["itemId"], vars["orderId"])
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(qrCode)
}
