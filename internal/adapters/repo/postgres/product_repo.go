package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/phenrril/tiendaropa/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sizes").Create(p).Error; err != nil {
			return err
		}
		p.Sizes.ID = 0
		p.Sizes.ProductID = p.ID
		p.Sizes.Version = 1
		return tx.Create(&p.Sizes).Error
	})
}

func (r *ProductRepo) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	return findProduct(r.db.WithContext(ctx), id)
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	list := []domain.Product{}
	if err := r.db.WithContext(ctx).Preload("Sizes").Order("id asc").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *ProductRepo) Update(ctx context.Context, id uint, fn func(p *domain.Product) error) (*domain.Product, error) {
	var out *domain.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(tx, id)
		if err != nil {
			return err
		}
		read := p.Sizes.Version
		if err := fn(p); err != nil {
			return err
		}
		if err := p.Sizes.Check(); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()
		if err := tx.Model(&domain.Product{}).Where("id = ?", p.ID).Updates(map[string]any{
			"name":       p.Name,
			"category":   p.Category,
			"price":      p.Price,
			"image_path": p.ImagePath,
			"updated_at": p.UpdatedAt,
		}).Error; err != nil {
			return err
		}
		if err := saveLedger(tx, &p.Sizes, read); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id uint, fn func(p *domain.Product) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&domain.Order{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", p.ID).Delete(&domain.StockLedger{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Product{}, "id = ?", p.ID).Error; err != nil {
			return err
		}
		if fn != nil {
			return fn(p)
		}
		return nil
	})
}

func (r *ProductRepo) PlaceOrder(ctx context.Context, productID uint, fn func(p *domain.Product) (*domain.Order, error)) (*domain.Order, error) {
	var out *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(tx, productID)
		if err != nil {
			return err
		}
		read := p.Sizes.Version
		o, err := fn(p)
		if err != nil {
			return err
		}
		if err := p.Sizes.Check(); err != nil {
			return err
		}
		if err := saveLedger(tx, &p.Sizes, read); err != nil {
			return err
		}
		if err := tx.Omit("Product").Create(o).Error; err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func findProduct(db *gorm.DB, id uint) (*domain.Product, error) {
	var p domain.Product
	if err := db.Preload("Sizes").First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// saveLedger escribe el ledger sólo si la versión sigue siendo read.
func saveLedger(tx *gorm.DB, l *domain.StockLedger, read int) error {
	now := time.Now().UTC()
	res := tx.Model(&domain.StockLedger{}).
		Where("product_id = ? AND version = ?", l.ProductID, read).
		Updates(map[string]any{
			"small_total":      l.Small.Total,
			"small_remaining":  l.Small.Remaining,
			"small_facebook":   l.Small.Facebook,
			"small_instagram":  l.Small.Instagram,
			"small_shopee":     l.Small.Shopee,
			"medium_total":     l.Medium.Total,
			"medium_remaining": l.Medium.Remaining,
			"medium_facebook":  l.Medium.Facebook,
			"medium_instagram": l.Medium.Instagram,
			"medium_shopee":    l.Medium.Shopee,
			"large_total":      l.Large.Total,
			"large_remaining":  l.Large.Remaining,
			"large_facebook":   l.Large.Facebook,
			"large_instagram":  l.Large.Instagram,
			"large_shopee":     l.Large.Shopee,
			"version":          read + 1,
			"updated_at":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConcurrencyConflict
	}
	l.Version = read + 1
	l.UpdatedAt = now
	return nil
}
