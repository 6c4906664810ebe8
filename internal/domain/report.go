package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodDay, nil
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodAll:
		return p, nil
	}
	return "", NewValidationError("period", "Invalid period %q: must be one of day, week, month, all", s)
}

type SalesFilter struct {
	Date     time.Time
	Period   Period
	Platform Platform
	Category Category
	Query    string
	Sort     string
	Desc     bool
}

// Range devuelve [from, to) en UTC. Para PeriodAll devuelve tiempos cero.
// La semana va de domingo a sábado.
func (f SalesFilter) Range() (from, to time.Time) {
	if f.Period == PeriodAll {
		return time.Time{}, time.Time{}
	}
	d := f.Date.UTC()
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	switch f.Period {
	case PeriodWeek:
		from = day.AddDate(0, 0, -int(day.Weekday()))
		return from, from.AddDate(0, 0, 7)
	case PeriodMonth:
		from = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(0, 1, 0)
	default:
		return day, day.AddDate(0, 0, 1)
	}
}

type SaleRow struct {
	OrderID      uint            `json:"orderId"`
	Date         time.Time       `json:"date"`
	CustomerName string          `json:"customer"`
	ProductID    uint            `json:"productId"`
	ProductName  string          `json:"product"`
	Category     Category        `json:"category,omitempty"`
	Quantity     int             `json:"quantity"`
	Size         Size            `json:"size"`
	Platform     Platform        `json:"platform"`
	Amount       decimal.Decimal `json:"amount"`
	IsPaid       bool            `json:"isPaid"`
}

type NamedAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"value"`
}

type DailySales struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
	Orders int             `json:"orders"`
}

type SalesReport struct {
	From              string          `json:"from,omitempty"`
	To                string          `json:"to,omitempty"`
	Period            Period          `json:"period"`
	Rows              []SaleRow       `json:"orders"`
	OrderCount        int             `json:"orderCount"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	TotalItems        int             `json:"totalItems"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	UnpaidAmount      decimal.Decimal `json:"unpaidAmount"`
	Platforms         []NamedAmount   `json:"platformSummary"`
	Categories        []NamedAmount   `json:"categorySummary"`
	Daily             []DailySales    `json:"dailySales"`
}

type SizeSummary struct {
	Size      Size `json:"size"`
	Total     int  `json:"total"`
	Remaining int  `json:"remaining"`
	Sold      int  `json:"sold"`
}

type ChannelSummary struct {
	Platform Platform        `json:"platform"`
	Units    int             `json:"units"`
	Orders   int             `json:"orders"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type LowStockItem struct {
	ProductID uint   `json:"productId"`
	Name      string `json:"name"`
	Size      Size   `json:"size"`
	Remaining int    `json:"remaining"`
}

type Dashboard struct {
	ProductCount   int              `json:"productCount"`
	TotalStock     int              `json:"totalStock"`
	RemainingStock int              `json:"remainingStock"`
	SoldStock      int              `json:"soldStock"`
	Sizes          []SizeSummary    `json:"sizes"`
	OrderCount     int              `json:"orderCount"`
	Revenue        decimal.Decimal  `json:"totalRevenue"`
	PaidRevenue    decimal.Decimal  `json:"paidRevenue"`
	UnpaidRevenue  decimal.Decimal  `json:"unpaidRevenue"`
	Channels       []ChannelSummary `json:"salesChannels"`
	LowStock       []LowStockItem   `json:"lowStock"`
}
