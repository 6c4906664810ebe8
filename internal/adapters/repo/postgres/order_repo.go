package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/phenrril/tiendaropa/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) ListByProduct(ctx context.Context, productID uint) ([]domain.Order, error) {
	list := []domain.Order{}
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("order_date desc").Order("id desc").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// SetPaid sólo escribe is_paid.
func (r *OrderRepo) SetPaid(ctx context.Context, id uint, paid bool) (*domain.Order, error) {
	var out domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&out, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := tx.Model(&domain.Order{}).Where("id = ?", id).Update("is_paid", paid).Error; err != nil {
			return err
		}
		out.IsPaid = paid
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *OrderRepo) ListInRange(ctx context.Context, from, to time.Time) ([]domain.Order, error) {
	list := []domain.Order{}
	q := r.db.WithContext(ctx).Preload("Product")
	if !from.IsZero() {
		q = q.Where("order_date >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("order_date < ?", to.UTC())
	}
	if err := q.Order("order_date desc").Order("id desc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
