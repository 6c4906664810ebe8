package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxAmount es el mayor valor que admiten las columnas decimal(12,2) de
// precio y monto.
var MaxAmount = decimal.RequireFromString("9999999999.99")

type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:180;not null" json:"name"`
	Category  Category        `gorm:"size:30;index" json:"category,omitempty"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	ImagePath string          `gorm:"size:255" json:"imagePath,omitempty"`
	Sizes     StockLedger     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"sizes"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ImageUpload es el archivo recibido en un alta o edición.
type ImageUpload struct {
	Filename string
	Data     []byte
}
