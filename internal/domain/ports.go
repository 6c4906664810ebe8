package domain

import (
	"context"
	"time"
)

type ProductRepo interface {
	Create(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	// Update carga el producto dentro de una transacción, aplica fn y persiste
	// el ledger sólo si su versión no cambió (ErrConcurrencyConflict si cambió).
	Update(ctx context.Context, id uint, fn func(p *Product) error) (*Product, error)
	// Delete borra órdenes, ledger y producto; fn corre al final de la misma transacción.
	Delete(ctx context.Context, id uint, fn func(p *Product) error) error
	// PlaceOrder aplica fn al producto y guarda ledger + orden como una unidad.
	PlaceOrder(ctx context.Context, productID uint, fn func(p *Product) (*Order, error)) (*Order, error)
}

type OrderRepo interface {
	FindByID(ctx context.Context, id uint) (*Order, error)
	ListByProduct(ctx context.Context, productID uint) ([]Order, error)
	SetPaid(ctx context.Context, id uint, paid bool) (*Order, error)
	// ListInRange incluye el producto; límites cero significan sin límite. to es exclusivo.
	ListInRange(ctx context.Context, from, to time.Time) ([]Order, error)
}

type FileStorage interface {
	SaveImage(ctx context.Context, filename string, data []byte) (string, error)
	Delete(ctx context.Context, path string) error
	// Trash aparta el archivo sin borrarlo; Restore lo devuelve y Purge lo
	// elimina. Permiten borrar la imagen sólo después del commit.
	Trash(ctx context.Context, path string) error
	Restore(ctx context.Context, path string) error
	Purge(ctx context.Context, path string) error
}

type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, e OrderPlaced) error
}

type IdempotencyStore interface {
	// Reserve devuelve false si la clave ya fue usada.
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
