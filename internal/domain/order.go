package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order es una venta. Sólo IsPaid cambia después del alta.
type Order struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	ProductID    uint            `gorm:"not null;index" json:"productId"`
	Product      *Product        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CustomerName string          `gorm:"size:140;not null" json:"customerName"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Size         Size            `gorm:"type:varchar(10);not null" json:"size"`
	Platform     Platform        `gorm:"type:varchar(20);not null;index" json:"platform"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	IsPaid       bool            `gorm:"not null;default:false" json:"isPaid"`
	OrderDate    time.Time       `gorm:"not null;index" json:"orderDate"`
}

// NewOrder congela el monto con el precio vigente del producto.
func NewOrder(p *Product, customer string, size Size, platform Platform, quantity int, at time.Time) Order {
	return Order{
		ProductID:    p.ID,
		CustomerName: customer,
		Quantity:     quantity,
		Size:         size,
		Platform:     platform,
		TotalAmount:  p.Price.Mul(decimal.NewFromInt(int64(quantity))),
		OrderDate:    at,
	}
}

// OrderPlaced se publica después de confirmar la venta.
type OrderPlaced struct {
	OrderID      uint            `json:"orderId"`
	ProductID    uint            `json:"productId"`
	CustomerName string          `json:"customerName"`
	Size         Size            `json:"size"`
	Platform     Platform        `json:"platform"`
	Quantity     int             `json:"quantity"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	OrderDate    time.Time       `json:"orderDate"`
}

func (OrderPlaced) EventType() string { return "OrderPlaced" }

func OrderPlacedFrom(o *Order) OrderPlaced {
	return OrderPlaced{
		OrderID:      o.ID,
		ProductID:    o.ProductID,
		CustomerName: o.CustomerName,
		Size:         o.Size,
		Platform:     o.Platform,
		Quantity:     o.Quantity,
		TotalAmount:  o.TotalAmount,
		OrderDate:    o.OrderDate,
	}
}
