package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"fooddelight/food-svc/internal/docstore"
	"fooddelight/food-svc/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	EventOrderPlaced   = "order_placed"
	DefaultOrderFanout = 4
)

type orderToken struct {
	OrderID string `json:"orderId"`
	Path    string `json:"path"`
}

type OrderService struct {
	store     docstore.Store
	publisher OrderPublisher
	qrEncoder QRGenerator
	fanout    int
	now       func() time.Time
	tracer    trace.Tracer
}

func NewOrderService(store docstore.Store, publisher OrderPublisher, qr QRGenerator, fanout int) *OrderService {
	if fanout <= 0 {
		fanout = DefaultOrderFanout
	}
	return &OrderService{
		store:     store,
		publisher: publisher,
		qrEncoder: qr,
		fanout:    fanout,
		now:       time.Now,
		tracer:    otel.Tracer("fooddelight/food-svc/orders"),
	}
}

func orderRef(restaurantID, itemID, orderID string) docstore.Ref {
	item := docstore.Doc(menuCollection(restaurantID), itemID)
	return docstore.Doc(item.Sub("orders"), orderID)
}

func validateOrder(req domain.OrderRequest) error {
	if strings.TrimSpace(req.Item.ID) == "" || strings.TrimSpace(req.Item.RestaurantID) == "" {
		return domain.NewValidationError("item", "is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		return domain.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(req.Address) == "" {
		return domain.NewValidationError("address", "is required")
	}
	if strings.TrimSpace(req.Phone) == "" {
		return domain.NewValidationError("phone", "is required")
	}
	return nil
}

// PlaceOrder writes the order under the menu item and appends it to the
// customer's orderHistory in one transaction, so either both copies exist or
// neither does. A repeated idempotency key returns the order placed first.
func (s *OrderService) PlaceOrder(ctx context.Context, identity *domain.Identity, req domain.OrderRequest) (*domain.Confirmation, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateOrder(req); err != nil {
		return nil, err
	}

	record := domain.OrderRecord{
		OrderID:         uuid.NewString(),
		RestaurantID:    req.Item.RestaurantID,
		UserID:          identity.UID,
		UserName:        strings.TrimSpace(req.Name),
		Phone:           strings.TrimSpace(req.Phone),
		DeliveryAddress: strings.TrimSpace(req.Address),
		ItemID:          req.Item.ID,
		ItemName:        req.Item.Name,
		ItemPrice:       req.Item.Price,
		ItemImage:       req.Item.Image,
		PlacedAt:        s.now().UTC(),
	}
	span.SetAttributes(
		attribute.String("order.id", record.OrderID),
		attribute.String("restaurant.id", record.RestaurantID),
		attribute.String("item.id", record.ItemID),
	)

	ref := orderRef(record.RestaurantID, record.ItemID, record.OrderID)
	userRef := docstore.Doc("users", identity.UID)
	replayed := false

	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx docstore.Tx) error {
		if key := strings.TrimSpace(req.IdempotencyKey); key != "" {
			tokenRef := docstore.Doc("orderTokens", identity.UID+":"+key)
			err := tx.Create(ctx, tokenRef, orderToken{OrderID: record.OrderID, Path: ref.Path()})
			if errors.Is(err, docstore.ErrAlreadyExists) {
				previous, err := replayOrder(ctx, tx, tokenRef)
				if err != nil {
					return err
				}
				record = *previous
				replayed = true
				return nil
			}
			if err != nil {
				return domain.WriteError("claim order token", err)
			}
		}

		if err := tx.Create(ctx, ref, record); err != nil {
			return domain.WriteError("write restaurant order", err)
		}

		userDoc, err := tx.Get(ctx, userRef)
		if errors.Is(err, docstore.ErrNotFound) {
			return domain.ErrUserNotFound
		}
		if err != nil {
			return domain.ReadError("load user", err)
		}
		var user struct {
			OrderHistory []domain.OrderRecord `json:"orderHistory"`
		}
		if err := userDoc.DataTo(&user); err != nil {
			return domain.ReadError("decode user", err)
		}

		history := append(user.OrderHistory, record)
		if err := tx.Update(ctx, userRef, map[string]any{"orderHistory": history}); err != nil {
			return domain.WriteError("append order history", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if replayed {
		log.Printf("[food-svc] replayed order %s for user %s", record.OrderID, identity.UID)
	} else {
		s.publish(ctx, record)
	}

	return &domain.Confirmation{
		Order:            record,
		DeliveryEstimate: domain.DeliveryEstimate,
		PaymentMode:      domain.PaymentMode,
		Replayed:         replayed,
	}, nil
}

func replayOrder(ctx context.Context, tx docstore.Tx, tokenRef docstore.Ref) (*domain.OrderRecord, error) {
	doc, err := tx.Get(ctx, tokenRef)
	if err != nil {
		return nil, domain.ReadError("load order token", err)
	}
	var token orderToken
	if err := doc.DataTo(&token); err != nil {
		return nil, domain.ReadError("decode order token", err)
	}
	ref, ok := docstore.ParseRef(token.Path)
	if !ok {
		return nil, domain.ReadError("parse order token", errors.New("bad order path "+token.Path))
	}
	orderDoc, err := tx.Get(ctx, ref)
	if err != nil {
		return nil, domain.ReadError("load replayed order", err)
	}
	var record domain.OrderRecord
	if err := orderDoc.DataTo(&record); err != nil {
		return nil, domain.ReadError("decode replayed order", err)
	}
	return &record, nil
}

// publish is best effort: the order is already committed.
func (s *OrderService) publish(ctx context.Context, record domain.OrderRecord) {
	if s.publisher == nil {
		return
	}
	event := domain.OrderEvent{
		Type:         EventOrderPlaced,
		OrderID:      record.OrderID,
		RestaurantID: record.RestaurantID,
		ItemID:       record.ItemID,
		UserID:       record.UserID,
		Price:        record.ItemPrice,
		Timestamp:    record.PlacedAt,
	}
	if err := s.publisher.PublishOrder(ctx, event); err != nil {
		log.Printf("[food-svc] failed to publish order %s: %v", record.OrderID, err)
	}
}

// CustomerOrders prefers the orderHistory field of the user document, even
// when it is empty, and falls back to the users/{uid}/orders subcollection
// only when the field or the document is missing.
func (s *OrderService) CustomerOrders(ctx context.Context, identity *domain.Identity) ([]domain.OrderRecord, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	userRef := docstore.Doc("users", identity.UID)
	doc, err := s.store.Get(ctx, userRef)
	switch {
	case err == nil && doc.Has("orderHistory"):
		var user struct {
			OrderHistory []domain.OrderRecord `json:"orderHistory"`
		}
		if err := doc.DataTo(&user); err != nil {
			return nil, domain.ReadError("decode order history", err)
		}
		if user.OrderHistory == nil {
			return []domain.OrderRecord{}, nil
		}
		return user.OrderHistory, nil
	case err != nil && !errors.Is(err, docstore.ErrNotFound):
		return nil, domain.ReadError("load user", err)
	}

	docs, err := s.store.List(ctx, userRef.Sub("orders"))
	if err != nil {
		return nil, domain.ReadError("list user orders", err)
	}
	return decodeOrders(docs, ""), nil
}

// RestaurantOrders lists every order of every menu item, labelled with the
// item's current name. Item subcollections are read concurrently, at most
// fanout at a time, and the result keeps menu order.
func (s *OrderService) RestaurantOrders(ctx context.Context, identity *domain.Identity, restaurantID string) ([]domain.OrderRecord, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.RestaurantOrders",
		trace.WithAttributes(attribute.String("restaurant.id", restaurantID)))
	defer span.End()

	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}

	menu, err := s.store.List(ctx, menuCollection(restaurantID))
	if err != nil {
		return nil, domain.ReadError("list menu", err)
	}

	perItem := make([][]domain.OrderRecord, len(menu))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, itemDoc := range menu {
		g.Go(func() error {
			var item struct {
				Name string `json:"name"`
			}
			if err := itemDoc.DataTo(&item); err != nil {
				log.Printf("[food-svc] bad menu item %s: %v", itemDoc.ID, err)
			}
			name := item.Name
			if strings.TrimSpace(name) == "" {
				name = domain.UnknownItemName
			}

			itemRef := docstore.Doc(menuCollection(restaurantID), itemDoc.ID)
			docs, err := s.store.List(gctx, itemRef.Sub("orders"))
			if err != nil {
				return domain.ReadError("list item orders", err)
			}
			perItem[i] = decodeOrders(docs, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	orders := []domain.OrderRecord{}
	for _, records := range perItem {
		orders = append(orders, records...)
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

// ReceiptQR renders the receipt code of an existing order.
func (s *OrderService) ReceiptQR(ctx context.Context, restaurantID, itemID, orderID string) ([]byte, error) {
	_, err := s.store.Get(ctx, orderRef(restaurantID, itemID, orderID))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.ReadError("load order", err)
	}
	if s.qrEncoder == nil {
		return nil, errors.New("qr encoder not configured")
	}
	return s.qrEncoder.Generate(restaurantID, orderID)
}

// decodeOrders skips undecodable documents. A non-empty itemName overrides the
// stored one.
func decodeOrders(docs []docstore.Document, itemName string) []domain.OrderRecord {
	orders := make([]domain.OrderRecord, 0, len(docs))
	for _, doc := range docs {
		var record domain.OrderRecord
		if err := doc.DataTo(&record); err != nil {
			log.Printf("[food-svc] skipping order %s: %v", doc.ID, err)
			continue
		}
		if record.OrderID == "" {
			record.OrderID = doc.ID
		}
		if itemName != "" {
			record.ItemName = itemName
		}
		orders = append(orders, record)
	}
	return orders
}

var _ OrderServiceInterface = (*OrderService)(nil)
