package postgres

import (
	"gorm.io/gorm"

	"github.com/phenrril/tiendaropa/internal/domain"
)

// AutoMigrate crea o actualiza las tablas de productos, ledgers y órdenes.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Product{},
		&domain.StockLedger{},
		&domain.Order{},
	)
}
