package domain

import (
	"fmt"
	"time"
)

// SizeStock guarda los contadores de un talle.
// Invariante: Facebook + Instagram + Shopee + Remaining == Total.
type SizeStock struct {
	Total     int `gorm:"not null" json:"total"`
	Remaining int `gorm:"not null" json:"remaining"`
	Facebook  int `gorm:"not null" json:"facebook"`
	Instagram int `gorm:"not null" json:"instagram"`
	Shopee    int `gorm:"not null" json:"shopee"`
}

// Sold es lo ya atribuido a alguna plataforma.
func (s SizeStock) Sold() int { return s.Facebook + s.Instagram + s.Shopee }

func (s SizeStock) Platform(p Platform) int {
	if b := s.bucket(p); b != nil {
		return *b
	}
	return 0
}

func (s *SizeStock) bucket(p Platform) *int {
	switch p {
	case PlatformFacebook:
		return &s.Facebook
	case PlatformInstagram:
		return &s.Instagram
	case PlatformShopee:
		return &s.Shopee
	}
	return nil
}

type StockCounts struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

func (c StockCounts) For(s Size) int {
	switch s {
	case SizeSmall:
		return c.Small
	case SizeMedium:
		return c.Medium
	case SizeLarge:
		return c.Large
	}
	return 0
}

// StockLedger es el stock por talle y plataforma de un producto (1:1).
type StockLedger struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	ProductID uint      `gorm:"uniqueIndex;not null" json:"-"`
	Small     SizeStock `gorm:"embedded;embeddedPrefix:small_" json:"small"`
	Medium    SizeStock `gorm:"embedded;embeddedPrefix:medium_" json:"medium"`
	Large     SizeStock `gorm:"embedded;embeddedPrefix:large_" json:"large"`
	Version   int       `gorm:"not null" json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func NewStockLedger(c StockCounts) (StockLedger, error) {
	var l StockLedger
	for _, s := range Sizes {
		n := c.For(s)
		if n < 0 {
			return StockLedger{}, NewValidationError(string(s), "%s stock cannot be negative", s)
		}
		st := l.size(s)
		st.Total = n
		st.Remaining = n
	}
	return l, nil
}

func (l *StockLedger) size(s Size) *SizeStock {
	switch s {
	case SizeSmall:
		return &l.Small
	case SizeMedium:
		return &l.Medium
	case SizeLarge:
		return &l.Large
	}
	return nil
}

// For devuelve una copia de los contadores del talle.
func (l StockLedger) For(s Size) SizeStock {
	if st := l.size(s); st != nil {
		return *st
	}
	return SizeStock{}
}

// Attribute mueve quantity unidades de Remaining al bucket de la plataforma.
// Si falla, el ledger queda intacto.
func (l *StockLedger) Attribute(size Size, platform Platform, quantity int) error {
	st := l.size(size)
	if st == nil {
		return NewValidationError("size", "Invalid size %q: must be one of small, medium, large", size)
	}
	bucket := st.bucket(platform)
	if bucket == nil {
		return NewValidationError("platform", "Invalid platform %q: must be one of facebook, instagram, shopee", platform)
	}
	if quantity < 1 {
		return NewValidationError("quantity", "Quantity must be at least 1")
	}
	if quantity > st.Remaining {
		return &InsufficientStockError{Size: size, Available: st.Remaining}
	}
	st.Remaining -= quantity
	*bucket += quantity
	return nil
}

// Restock fija el total de un talle y recalcula Remaining = total - vendido.
// Rechaza totales menores a lo ya vendido para no dejar Remaining negativo.
func (l *StockLedger) Restock(size Size, total int) error {
	st := l.size(size)
	if st == nil {
		return NewValidationError("size", "Invalid size %q: must be one of small, medium, large", size)
	}
	if total < 0 {
		return NewValidationError(string(size), "%s stock cannot be negative", size)
	}
	sold := st.Sold()
	if total < sold {
		return NewValidationError(string(size), "Cannot set %s stock to %d: %d already sold", size, total, sold)
	}
	st.Total = total
	st.Remaining = total - sold
	return nil
}

// Totals suma todos los talles.
func (l StockLedger) Totals() (total, remaining, sold int) {
	for _, s := range Sizes {
		st := l.For(s)
		total += st.Total
		remaining += st.Remaining
		sold += st.Sold()
	}
	return total, remaining, sold
}

// Check verifica el invariante de cada talle.
func (l StockLedger) Check() error {
	for _, s := range Sizes {
		st := l.For(s)
		if st.Remaining < 0 || st.Remaining > st.Total {
			return fmt.Errorf("ledger %s: remaining %d out of range [0,%d]", s, st.Remaining, st.Total)
		}
		if st.Sold()+st.Remaining != st.Total {
			return fmt.Errorf("ledger %s: sold %d + remaining %d != total %d", s, st.Sold(), st.Remaining, st.Total)
		}
	}
	return nil
}
