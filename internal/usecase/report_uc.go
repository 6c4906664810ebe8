package usecase

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/phenrril/tiendaropa/internal/domain"
)

const DefaultLowStockThreshold = 3

const dayLayout = "2006-01-02"

// Uncategorized agrupa en los resúmenes los productos sin categoría.
const Uncategorized = "uncategorized"

type ReportUC struct {
	Orders            domain.OrderRepo
	Products          domain.ProductRepo
	LowStockThreshold int
}

var saleSorts = map[string]func(a, b domain.SaleRow) int{
	"date": func(a, b domain.SaleRow) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.OrderID, b.OrderID)
	},
	"customer": func(a, b domain.SaleRow) int {
		return cmp.Compare(strings.ToLower(a.CustomerName), strings.ToLower(b.CustomerName))
	},
	"product": func(a, b domain.SaleRow) int {
		return cmp.Compare(strings.ToLower(a.ProductName), strings.ToLower(b.ProductName))
	},
	"quantity": func(a, b domain.SaleRow) int { return cmp.Compare(a.Quantity, b.Quantity) },
	"amount":   func(a, b domain.SaleRow) int { return a.Amount.Cmp(b.Amount) },
	"platform": func(a, b domain.SaleRow) int { return cmp.Compare(a.Platform, b.Platform) },
}

// SalesHistory arma el historial de ventas del período con sus totales.
// Sin Sort ordena por fecha, más recientes primero.
func (uc *ReportUC) SalesHistory(ctx context.Context, f domain.SalesFilter) (*domain.SalesReport, error) {
	if f.Period == "" {
		f.Period = domain.PeriodDay
	}
	if f.Sort == "" {
		f.Sort, f.Desc = "date", true
	}
	less, ok := saleSorts[f.Sort]
	if !ok {
		return nil, domain.NewValidationError("sort", "Invalid sort key %q", f.Sort)
	}
	if f.Platform != "" && !f.Platform.Valid() {
		return nil, domain.NewValidationError("platform", "Invalid platform %q: must be one of facebook, instagram, shopee", f.Platform)
	}
	if !f.Category.Valid() {
		return nil, domain.NewValidationError("category", "Invalid category %q", f.Category)
	}

	from, to := f.Range()
	orders, err := uc.Orders.ListInRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	rows := make([]domain.SaleRow, 0, len(orders))
	for i := range orders {
		r := saleRow(&orders[i])
		if f.Platform != "" && r.Platform != f.Platform {
			continue
		}
		if f.Category != "" && r.Category != f.Category {
			continue
		}
		if q != "" && !matches(r, q) {
			continue
		}
		rows = append(rows, r)
	}
	slices.SortStableFunc(rows, func(a, b domain.SaleRow) int {
		if f.Desc {
			return less(b, a)
		}
		return less(a, b)
	})

	rep := &domain.SalesReport{
		Period:       f.Period,
		Rows:         rows,
		TotalAmount:  decimal.Zero,
		PaidAmount:   decimal.Zero,
		UnpaidAmount: decimal.Zero,
	}
	if f.Period != domain.PeriodAll {
		rep.From = from.Format(dayLayout)
		rep.To = to.AddDate(0, 0, -1).Format(dayLayout)
	}

	byPlatform := map[domain.Platform]decimal.Decimal{}
	byCategory := map[string]decimal.Decimal{}
	daily := map[string]*domain.DailySales{}
	for _, r := range rows {
		rep.OrderCount++
		rep.TotalItems += r.Quantity
		rep.TotalAmount = rep.TotalAmount.Add(r.Amount)
		if r.IsPaid {
			rep.PaidAmount = rep.PaidAmount.Add(r.Amount)
		} else {
			rep.UnpaidAmount = rep.UnpaidAmount.Add(r.Amount)
		}
		byPlatform[r.Platform] = byPlatform[r.Platform].Add(r.Amount)
		cat := string(r.Category)
		if cat == "" {
			cat = Uncategorized
		}
		byCategory[cat] = byCategory[cat].Add(r.Amount)

		d := r.Date.UTC().Format(dayLayout)
		ds, ok := daily[d]
		if !ok {
			ds = &domain.DailySales{Date: d, Amount: decimal.Zero}
			daily[d] = ds
		}
		ds.Amount = ds.Amount.Add(r.Amount)
		ds.Orders++
	}
	rep.AverageOrderValue = decimal.Zero
	if rep.OrderCount > 0 {
		rep.AverageOrderValue = rep.TotalAmount.Div(decimal.NewFromInt(int64(rep.OrderCount))).Round(2)
	}

	for _, p := range domain.Platforms {
		rep.Platforms = append(rep.Platforms, domain.NamedAmount{Name: string(p), Amount: byPlatform[p]})
	}
	for name, amount := range byCategory {
		rep.Categories = append(rep.Categories, domain.NamedAmount{Name: name, Amount: amount})
	}
	slices.SortFunc(rep.Categories, func(a, b domain.NamedAmount) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	if rep.Categories == nil {
		rep.Categories = []domain.NamedAmount{}
	}

	rep.Daily = []domain.DailySales{}
	if f.Period != domain.PeriodAll {
		for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
			key := d.Format(dayLayout)
			if ds, ok := daily[key]; ok {
				rep.Daily = append(rep.Daily, *ds)
			} else {
				rep.Daily = append(rep.Daily, domain.DailySales{Date: key, Amount: decimal.Zero})
			}
		}
	} else {
		for _, ds := range daily {
			rep.Daily = append(rep.Daily, *ds)
		}
		slices.SortFunc(rep.Daily, func(a, b domain.DailySales) int { return cmp.Compare(a.Date, b.Date) })
	}
	return rep, nil
}

func saleRow(o *domain.Order) domain.SaleRow {
	r := domain.SaleRow{
		OrderID:      o.ID,
		Date:         o.OrderDate,
		CustomerName: o.CustomerName,
		ProductID:    o.ProductID,
		Quantity:     o.Quantity,
		Size:         o.Size,
		Platform:     o.Platform,
		Amount:       o.TotalAmount,
		IsPaid:       o.IsPaid,
	}
	if o.Product != nil {
		r.ProductName = o.Product.Name
		r.Category = o.Product.Category
	}
	return r
}

func matches(r domain.SaleRow, q string) bool {
	for _, s := range []string{r.CustomerName, r.ProductName, string(r.Category), string(r.Platform)} {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// Dashboard resume stock, ingresos y canales de venta.
// Las unidades por canal salen de los buckets del ledger, los montos de las órdenes.
func (uc *ReportUC) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	products, err := uc.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := uc.Orders.ListInRange(ctx, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	d := &domain.Dashboard{
		ProductCount:  len(products),
		Revenue:       decimal.Zero,
		PaidRevenue:   decimal.Zero,
		UnpaidRevenue: decimal.Zero,
		LowStock:      []domain.LowStockItem{},
	}
	sizes := map[domain.Size]*domain.SizeSummary{}
	for _, s := range domain.Sizes {
		sizes[s] = &domain.SizeSummary{Size: s}
	}
	channels := map[domain.Platform]*domain.ChannelSummary{}
	for _, p := range domain.Platforms {
		channels[p] = &domain.ChannelSummary{Platform: p, Revenue: decimal.Zero}
	}

	for _, p := range products {
		total, remaining, sold := p.Sizes.Totals()
		d.TotalStock += total
		d.RemainingStock += remaining
		d.SoldStock += sold
		for _, s := range domain.Sizes {
			st := p.Sizes.For(s)
			sum := sizes[s]
			sum.Total += st.Total
			sum.Remaining += st.Remaining
			sum.Sold += st.Sold()
			for _, pl := range domain.Platforms {
				channels[pl].Units += st.Platform(pl)
			}
			if st.Total > 0 && st.Remaining <= uc.LowStockThreshold {
				d.LowStock = append(d.LowStock, domain.LowStockItem{ProductID: p.ID, Name: p.Name, Size: s, Remaining: st.Remaining})
			}
		}
	}
	for _, o := range orders {
		d.OrderCount++
		d.Revenue = d.Revenue.Add(o.TotalAmount)
		if o.IsPaid {
			d.PaidRevenue = d.PaidRevenue.Add(o.TotalAmount)
		} else {
			d.UnpaidRevenue = d.UnpaidRevenue.Add(o.TotalAmount)
		}
		if c, ok := channels[o.Platform]; ok {
			c.Orders++
			c.Revenue = c.Revenue.Add(o.TotalAmount)
		}
	}

	for _, s := range domain.Sizes {
		d.Sizes = append(d.Sizes, *sizes[s])
	}
	for _, p := range domain.Platforms {
		d.Channels = append(d.Channels, *channels[p])
	}
	slices.SortStableFunc(d.LowStock, func(a, b domain.LowStockItem) int {
		if c := cmp.Compare(a.Remaining, b.Remaining); c != 0 {
			return c
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return d, nil
}
