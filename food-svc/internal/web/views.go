// Package web renders the server-side HTML pages of every navigation path.
package web

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"

	"fooddelight/food-svc/internal/auth"
	"fooddelight/food-svc/internal/domain"
	"fooddelight/food-svc/internal/service"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFiles = []string{
	"home", "signup", "login", "admin", "add_restaurant",
	"restaurants", "restaurant", "confirmation", "dashboard", "orders_placed",
}

// Page is the data every template receives. Handlers fill only what they show.
type Page struct {
	Title          string
	Identity       *domain.Identity
	Error          string
	Form           map[string]string
	Restaurant     *domain.Restaurant
	Restaurants    []domain.Restaurant
	Menu           []domain.MenuItem
	Item           *domain.MenuItem
	Orders         []domain.OrderRecord
	Stats          *domain.RestaurantStats
	Confirmation   *domain.Confirmation
	IdempotencyKey string
}

type Views struct {
	Accounts service.AccountServiceInterface
	Catalog  service.CatalogServiceInterface
	Orders   service.OrderServiceInterface
	Stats    service.StatsServiceInterface

	pages map[string]*template.Template
}

func NewViews(accounts service.AccountServiceInterface, catalog service.CatalogServiceInterface, orders service.OrderServiceInterface, stats service.StatsServiceInterface) (*Views, error) {
	funcs := template.FuncMap{
		"price": func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) },
	}

	pages := make(map[string]*template.Template, len(pageFiles))
	for _, name := range pageFiles {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Views{
		Accounts: accounts,
		Catalog:  catalog,
		Orders:   orders,
		Stats:    stats,
		pages:    pages,
	}, nil
}

func (v *Views) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", v.home).Methods("GET")

	// Both casings are linked from existing pages.
	for _, path := range []string{"/signup", "/Signup"} {
		r.HandleFunc(path, v.signupForm).Methods("GET")
		r.HandleFunc(path, v.signup).Methods("POST")
	}
	r.HandleFunc("/login", v.loginForm).Methods("GET")
	r.HandleFunc("/login", v.login).Methods("POST")
	r.HandleFunc("/logout", v.logout).Methods("GET", "POST")

	r.HandleFunc("/admin", v.admin).Methods("GET")
	r.HandleFunc("/admin/menu", v.addMenuItem).Methods("POST")
	r.HandleFunc("/add-restaurant", v.addRestaurantForm).Methods("GET")
	r.HandleFunc("/add-restaurant", v.addRestaurant).Methods("POST")

	r.HandleFunc("/restaurants", v.restaurants).Methods("GET")
	r.HandleFunc("/restaurant/{id}", v.restaurant).Methods("GET")
	r.HandleFunc("/restaurant/{id}/order", v.placeOrder).Methods("POST")
	r.HandleFunc("/dashboard", v.dashboard).Methods("GET")
	r.HandleFunc("/ordersPlaced/{restaurantId}", v.ordersPlaced).Methods("GET")
}

// Message turns any error into the text shown inline on a page.
func Message(err error) string {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		return fmt.Sprintf("Please check the %s field: it %s.", validation.Field, validation.Reason)
	case errors.Is(err, domain.ErrUnauthenticated):
		return "You must be logged in."
	case errors.Is(err, domain.ErrUserNotFound):
		return "User data not found."
	case errors.Is(err, domain.ErrUnknownRole):
		return "Unrecognized user role."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, domain.ErrEmailInUse):
		return "An account with this email already exists."
	case errors.Is(err, domain.ErrRestaurantExists):
		return "You have already added a restaurant."
	case errors.Is(err, domain.ErrForbidden):
		return "This action is not allowed for your account."
	case errors.Is(err, domain.ErrNotFound):
		return "We could not find what you were looking for."
	default:
		return "Something went wrong. Please try again."
	}
}

func (v *Views) render(w http.ResponseWriter, r *http.Request, name string, page Page) {
	if page.Identity == nil {
		page.Identity = auth.IdentityFrom(r.Context())
	}
	if page.Form == nil {
		page.Form = map[string]string{}
	}

	var buf bytes.Buffer
	if err := v.pages[name].ExecuteTemplate(&buf, "layout", page); err != nil {
		log.Printf("[food-svc] render %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// fail logs unexpected errors and returns the inline message.
func fail(op string, err error) string {
	if !errors.Is(err, domain.ErrValidation) && !errors.Is(err, domain.ErrNotFound) {
		log.Printf("[food-svc] %s: %v", op, err)
	}
	return Message(err)
}

func formValues(r *http.Request, keys ...string) map[string]string {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		values[key] = r.PostFormValue(key)
	}
	return values
}

func (v *Views) home(w http.ResponseWriter, r *http.Request) {
	v.render(w, r, "home", Page{Title: "Home"})
}

func (v *Views) signupForm(w http.ResponseWriter, r *http.Request) {
	v.render(w, r, "signup", Page{Title: "Sign Up"})
}

func (v *Views) signup(w http.ResponseWriter, r *http.Request) {
	form := formValues(r, "name", "email", "password", "role")
	result, err := v.Accounts.SignUp(r.Context(), service.SignupInput{
		Name:     form["name"],
		Email:    form["email"],
		Password: form["password"],
		Role:     form["role"],
	})
	if err != nil {
		delete(form, "password")
		v.render(w, r, "signup", Page{Title: "Sign Up", Error: fail("signup", err), Form: form})
		return
	}
	auth.SetCookie(w, result.Session)
	http.Redirect(w, r, result.Landing, http.StatusSeeOther)
}

func (v *Views) loginForm(w http.ResponseWriter, r *http.Request) {
	v.render(w, r, "login", Page{Title: "Log In"})
}

func (v *Views) login(w http.ResponseWriter, r *http.Request) {
	form := formValues(r, "email", "password")
	result, err := v.Accounts.Login(r.Context(), form["email"], form["password"])
	if err != nil {
		delete(form, "password")
		v.render(w, r, "login", Page{Title: "Log In", Error: fail("login", err), Form: form})
		return
	}
	auth.SetCookie(w, result.Session)
	http.Redirect(w, r, result.Landing, http.StatusSeeOther)
}

func (v *Views) logout(w http.ResponseWriter, r *http.Request) {
	if err := v.Accounts.Logout(r.Context(), auth.Token(r)); err != nil {
		log.Printf("[food-svc] logout: %v", err)
	}
	auth.ClearCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// adminPage loads the owner's restaurant with its menu and stats. A missing
// restaurant is not an error: the page offers to add one.
func (v *Views) adminPage(ctx context.Context, identity *domain.Identity) Page {
	page := Page{Title: "Dashboard", Identity: identity}
	if identity == nil {
		page.Error = Message(domain.ErrUnauthenticated)
		return page
	}

	rest, err := v.Catalog.RestaurantForOwner(ctx, identity.UID)
	if errors.Is(err, domain.ErrNotFound) {
		return page
	}
	if err != nil {
		page.Error = fail("load owner restaurant", err)
		return page
	}
	page.Restaurant = rest

	menu, err := v.Catalog.ListMenu(ctx, rest.ID)
	if err != nil {
		page.Error = fail("load menu", err)
	}
	page.Menu = menu

	if v.Stats != nil {
		stats, err := v.Stats.ForRestaurant(ctx, rest.ID)
		if err != nil {
			log.Printf("[food-svc] load stats for %s: %v", rest.ID, err)
		}
		page.Stats = stats
	}
	return page
}

func (v *Views) admin(w http.ResponseWriter, r *http.Request) {
	v.render(w, r, "admin", v.adminPage(r.Context(), auth.IdentityFrom(r.Context())))
}

func (v *Views) addMenuItem(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	form := formValues(r, "restaurant_id", "name", "price", "description", "image")

	_, err := v.Catalog.CreateMenuItem(r.Context(), identity, form["restaurant_id"], domain.MenuItemFields{
		Name:        form["name"],
		Price:       form["price"],
		Description: form["description"],
		Image:       form["image"],
	})
	if err != nil {
		page := v.adminPage(r.Context(), identity)
		if page.Error == "" {
			page.Error = fail("add menu item", err)
		}
		page.Form = form
		v.render(w, r, "admin", page)
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (v *Views) addRestaurantForm(w http.ResponseWriter, r *http.Request) {
	page := Page{Title: "Add Restaurant"}
	if auth.IdentityFrom(r.Context()) == nil {
		page.Error = Message(domain.ErrUnauthenticated)
	}
	v.render(w, r, "add_restaurant", page)
}

func (v *Views) addRestaurant(w http.ResponseWriter, r *http.Request) {
	form := formValues(r, "name", "address", "description", "phone", "image")
	_, err := v.Catalog.CreateRestaurant(r.Context(), auth.IdentityFrom(r.Context()), domain.RestaurantFields{
		Name:        form["name"],
		Address:     form["address"],
		Description: form["description"],
		Phone:       form["phone"],
		Image:       form["image"],
	})
	if err != nil {
		v.render(w, r, "add_restaurant", Page{Title: "Add Restaurant", Error: fail("add restaurant", err), Form: form})
		return
	}
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

func (v *Views) restaurants(w http.ResponseWriter, r *http.Request) {
	page := Page{Title: "Restaurants"}
	restaurants, err := v.Catalog.ListRestaurants(r.Context())
	if err != nil {
		// Rendered as the empty list.
		log.Printf("[food-svc] list restaurants: %v", err)
	}
	page.Restaurants = restaurants
	v.render(w, r, "restaurants", page)
}

// restaurantPage loads a restaurant and its menu. itemID selects the item
// whose order form is shown.
func (v *Views) restaurantPage(ctx context.Context, id, itemID string) Page {
	page := Page{Title: "Restaurant"}

	rest, err := v.Catalog.GetRestaurant(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Printf("[food-svc] load restaurant %s: %v", id, err)
		}
		return page
	}
	page.Restaurant = rest
	page.Title = rest.Name

	menu, err := v.Catalog.ListMenu(ctx, id)
	if err != nil {
		log.Printf("[food-svc] load menu for %s: %v", id, err)
	}
	page.Menu = menu

	for i := range page.Menu {
		if page.Menu[i].ID == itemID {
			page.Item = &page.Menu[i]
			page.IdempotencyKey = uuid.NewString()
		}
	}
	return page
}

func (v *Views) restaurant(w http.ResponseWriter, r *http.Request) {
	page := v.restaurantPage(r.Context(), mux.Vars(r)["id"], r.URL.Query().Get("item"))
	v.render(w, r, "restaurant", page)
}

func (v *Views) placeOrder(w http.ResponseWriter, r *http.Request) {
	restaurantID := mux.Vars(r)["id"]
	form := formValues(r, "item_id", "name", "address", "phone", "idempotency_key")
	identity := auth.IdentityFrom(r.Context())

	retry := func(message string) {
		page := v.restaurantPage(r.Context(), restaurantID, form["item_id"])
		page.Error = message
		page.Form = form
		if form["idempotency_key"] != "" {
			page.IdempotencyKey = form["idempotency_key"]
		}
		v.render(w, r, "restaurant", page)
	}

	if identity == nil {
		retry("You must be logged in to place an order.")
		return
	}

	item, err := v.Catalog.GetMenuItem(r.Context(), restaurantID, form["item_id"])
	if err != nil {
		retry(fail("load menu item", err))
		return
	}

	ctx := context.WithoutCancel(r.Context())
	confirmation, err := v.Orders.PlaceOrder(ctx, identity, domain.OrderRequest{
		Item:           *item,
		Name:           form["name"],
		Address:        form["address"],
		Phone:          form["phone"],
		IdempotencyKey: form["idempotency_key"],
	})
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			retry("Please fill out all fields.")
			return
		}
		retry(fail("place order", err))
		return
	}
	v.render(w, r, "confirmation", Page{Title: "Order Placed", Confirmation: confirmation})
}

func (v *Views) dashboard(w http.ResponseWriter, r *http.Request) {
	page := Page{Title: "My Orders"}
	orders, err := v.Orders.CustomerOrders(r.Context(), auth.IdentityFrom(r.Context()))
	if err != nil {
		page.Error = fail("load customer orders", err)
	}
	page.Orders = orders
	v.render(w, r, "dashboard", page)
}

func (v *Views) ordersPlaced(w http.ResponseWriter, r *http.Request) {
	page := Page{Title: "Orders Placed"}
	orders, err := v.Orders.RestaurantOrders(r.Context(), auth.IdentityFrom(r.Context()), mux.Vars(r)["restaurantId"])
	if err != nil {
		page.Error = fail("load restaurant orders", err)
	}
	page.Orders = orders
	v.render(w, r, "orders_placed", page)
}
