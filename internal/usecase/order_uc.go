package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/tiendaropa/internal/domain"
)

type OrderUC struct {
	Products domain.ProductRepo
	Orders   domain.OrderRepo
	// Events e Idempotency son opcionales.
	Events      domain.EventPublisher
	Idempotency domain.IdempotencyStore
	MaxRetries  int
	Now         func() time.Time
}

type PlaceOrderInput struct {
	CustomerName   string
	Size           domain.Size
	Platform       domain.Platform
	Quantity       int
	IdempotencyKey string
}

func (in *PlaceOrderInput) normalize() error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	if in.CustomerName == "" {
		return domain.NewValidationError("customerName", "Customer name is required")
	}
	if in.Quantity < 1 {
		return domain.NewValidationError("quantity", "Quantity must be at least 1")
	}
	if !in.Size.Valid() {
		return domain.NewValidationError("size", "Invalid size %q: must be one of small, medium, large", in.Size)
	}
	if !in.Platform.Valid() {
		return domain.NewValidationError("platform", "Invalid platform %q: must be one of facebook, instagram, shopee", in.Platform)
	}
	return nil
}

func (uc *OrderUC) now() time.Time {
	if uc.Now != nil {
		return uc.Now().UTC()
	}
	return time.Now().UTC()
}

// PlaceOrder descuenta stock del talle, lo atribuye a la plataforma y registra
// la orden en una misma transacción. Ante un conflicto de versión reintenta.
func (uc *OrderUC) PlaceOrder(ctx context.Context, productID uint, in PlaceOrderInput) (*domain.Order, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" && uc.Idempotency != nil {
		ok, err := uc.Idempotency.Reserve(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrDuplicateRequest
		}
	}

	o, err := retryOnConflict(ctx, uc.MaxRetries, "place_order", func() (*domain.Order, error) {
		return uc.Products.PlaceOrder(ctx, productID, func(p *domain.Product) (*domain.Order, error) {
			o := domain.NewOrder(p, in.CustomerName, in.Size, in.Platform, in.Quantity, uc.now())
			if o.TotalAmount.GreaterThan(domain.MaxAmount) {
				return nil, domain.NewValidationError("quantity", "Order total %s exceeds the maximum of %s",
					o.TotalAmount.StringFixed(2), domain.MaxAmount.StringFixed(2))
			}
			if err := p.Sizes.Attribute(in.Size, in.Platform, in.Quantity); err != nil {
				return nil, err
			}
			return &o, nil
		})
	})
	if err != nil {
		if key != "" && uc.Idempotency != nil {
			if rerr := uc.Idempotency.Release(context.WithoutCancel(ctx), key); rerr != nil {
				log.Warn().Err(rerr).Str("key", key).Msg("could not release idempotency key")
			}
		}
		return nil, err
	}

	log.Info().
		Uint("order_id", o.ID).
		Uint("product_id", productID).
		Str("size", string(o.Size)).
		Str("platform", string(o.Platform)).
		Int("quantity", o.Quantity).
		Msg("order placed")

	if uc.Events != nil {
		if err := uc.Events.PublishOrderPlaced(ctx, domain.OrderPlacedFrom(o)); err != nil {
			log.Error().Err(err).Uint("order_id", o.ID).Msg("publish order placed")
		}
	}
	return o, nil
}

func (uc *OrderUC) SetPaymentStatus(ctx context.Context, orderID uint, paid bool) (*domain.Order, error) {
	return uc.Orders.SetPaid(ctx, orderID, paid)
}

func (uc *OrderUC) ListByProduct(ctx context.Context, productID uint) ([]domain.Order, error) {
	return uc.Orders.ListByProduct(ctx, productID)
}
