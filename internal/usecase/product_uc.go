package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/tiendaropa/internal/domain"
)

type ProductUC struct {
	Products   domain.ProductRepo
	Storage    domain.FileStorage
	MaxRetries int
}

type ProductInput struct {
	Name     string
	Category domain.Category
	Price    decimal.Decimal
	Stock    domain.StockCounts
}

// ProductPatch: los campos nil no se tocan.
type ProductPatch struct {
	Name     *string
	Category *domain.Category
	Price    *decimal.Decimal
	Small    *int
	Medium   *int
	Large    *int
}

func (p ProductPatch) stock(s domain.Size) *int {
	switch s {
	case domain.SizeSmall:
		return p.Small
	case domain.SizeMedium:
		return p.Medium
	case domain.SizeLarge:
		return p.Large
	}
	return nil
}

func validateName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", domain.NewValidationError("name", "Product name is required")
	}
	return n, nil
}

// normalizePrice redondea a centavos y valida el valor redondeado.
func normalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	p := price.Round(2)
	if !p.IsPositive() {
		return p, domain.NewValidationError("price", "Price must be greater than zero")
	}
	if p.GreaterThan(domain.MaxAmount) {
		return p, domain.NewValidationError("price", "Price cannot exceed %s", domain.MaxAmount.StringFixed(2))
	}
	return p, nil
}

func validateCategory(c domain.Category) error {
	if !c.Valid() {
		return domain.NewValidationError("category", "Invalid category %q", c)
	}
	return nil
}

func (uc *ProductUC) Create(ctx context.Context, in ProductInput, img *domain.ImageUpload) (*domain.Product, error) {
	name, err := validateName(in.Name)
	if err != nil {
		return nil, err
	}
	price, err := normalizePrice(in.Price)
	if err != nil {
		return nil, err
	}
	if err := validateCategory(in.Category); err != nil {
		return nil, err
	}
	ledger, err := domain.NewStockLedger(in.Stock)
	if err != nil {
		return nil, err
	}
	p := &domain.Product{
		Name:     name,
		Category: in.Category,
		Price:    price,
		Sizes:    ledger,
	}
	if p.ImagePath, err = uc.saveImage(ctx, img); err != nil {
		return nil, err
	}
	if err := uc.Products.Create(ctx, p); err != nil {
		uc.removeImage(ctx, p.ImagePath)
		return nil, fmt.Errorf("create product: %w", err)
	}
	log.Info().Uint("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return p, nil
}

func (uc *ProductUC) Get(ctx context.Context, id uint) (*domain.Product, error) {
	return uc.Products.FindByID(ctx, id)
}

func (uc *ProductUC) List(ctx context.Context) ([]domain.Product, error) {
	return uc.Products.List(ctx)
}

// Update aplica el patch. Un nuevo stock fija el total del talle y
// recalcula remaining = total - vendido; si el total queda por debajo de lo
// vendido la edición se rechaza.
func (uc *ProductUC) Update(ctx context.Context, id uint, patch ProductPatch, img *domain.ImageUpload) (*domain.Product, error) {
	var name string
	if patch.Name != nil {
		n, err := validateName(*patch.Name)
		if err != nil {
			return nil, err
		}
		name = n
	}
	var price decimal.Decimal
	if patch.Price != nil {
		p, err := normalizePrice(*patch.Price)
		if err != nil {
			return nil, err
		}
		price = p
	}
	if patch.Category != nil {
		if err := validateCategory(*patch.Category); err != nil {
			return nil, err
		}
	}
	for _, s := range domain.Sizes {
		if n := patch.stock(s); n != nil && *n < 0 {
			return nil, domain.NewValidationError(string(s), "%s stock cannot be negative", s)
		}
	}

	newPath, err := uc.saveImage(ctx, img)
	if err != nil {
		return nil, err
	}
	var oldPath string
	p, err := retryOnConflict(ctx, uc.MaxRetries, "update_product", func() (*domain.Product, error) {
		return uc.Products.Update(ctx, id, func(p *domain.Product) error {
			oldPath = p.ImagePath
			if patch.Name != nil {
				p.Name = name
			}
			if patch.Category != nil {
				p.Category = *patch.Category
			}
			if patch.Price != nil {
				p.Price = price
			}
			for _, s := range domain.Sizes {
				if n := patch.stock(s); n != nil {
					if err := p.Sizes.Restock(s, *n); err != nil {
						return err
					}
				}
			}
			if newPath != "" {
				p.ImagePath = newPath
			}
			return nil
		})
	})
	if err != nil {
		uc.removeImage(ctx, newPath)
		return nil, err
	}
	if newPath != "" && oldPath != "" && oldPath != newPath {
		uc.removeImage(ctx, oldPath)
	}
	return p, nil
}

// Delete borra órdenes, ledger y producto en una transacción. La imagen se
// aparta dentro de la transacción y se borra recién después del commit; si
// la transacción falla se restaura.
func (uc *ProductUC) Delete(ctx context.Context, id uint) error {
	var trashed string
	err := uc.Products.Delete(ctx, id, func(p *domain.Product) error {
		if p.ImagePath == "" || uc.Storage == nil {
			return nil
		}
		if err := uc.Storage.Trash(ctx, p.ImagePath); err != nil {
			return fmt.Errorf("delete image: %w", err)
		}
		trashed = p.ImagePath
		return nil
	})
	if err != nil {
		if trashed != "" {
			if rerr := uc.Storage.Restore(context.WithoutCancel(ctx), trashed); rerr != nil {
				log.Error().Err(rerr).Str("path", trashed).Msg("could not restore image")
			}
		}
		return err
	}
	if trashed != "" {
		if err := uc.Storage.Purge(context.WithoutCancel(ctx), trashed); err != nil {
			log.Warn().Err(err).Str("path", trashed).Msg("could not purge image")
		}
	}
	log.Info().Uint("product_id", id).Msg("product deleted")
	return nil
}

func (uc *ProductUC) saveImage(ctx context.Context, img *domain.ImageUpload) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", nil
	}
	if uc.Storage == nil {
		return "", errors.New("image storage not configured")
	}
	path, err := uc.Storage.SaveImage(ctx, img.Filename, img.Data)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return path, nil
}

func (uc *ProductUC) removeImage(ctx context.Context, path string) {
	if path == "" || uc.Storage == nil {
		return
	}
	if err := uc.Storage.Delete(ctx, path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not remove image")
	}
}
