package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/tiendaropa/internal/domain"
)

func seedSales(t *testing.T, e *env) (dress, hat *domain.Product) {
	t.Helper()
	ctx := context.Background()
	var err error
	dress, err = e.productUC.Create(ctx, ProductInput{Name: "Floral Dress", Category: domain.CategoryDress, Price: decimal.NewFromInt(100), Stock: domain.StockCounts{Small: 10, Medium: 10}}, nil)
	require.NoError(t, err)
	hat, err = e.productUC.Create(ctx, ProductInput{Name: "Straw Hat", Category: domain.CategoryHats, Price: decimal.RequireFromString("33.33"), Stock: domain.StockCounts{Large: 4}}, nil)
	require.NoError(t, err)

	sales := []struct {
		at       time.Time
		p        *domain.Product
		customer string
		size     domain.Size
		platform domain.Platform
		qty      int
	}{
		{time.Date(2025, 5, 11, 10, 0, 0, 0, time.UTC), dress, "Ana", domain.SizeSmall, domain.PlatformFacebook, 2},   // domingo
		{time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC), dress, "Bruno", domain.SizeMedium, domain.PlatformShopee, 1},   // lunes
		{time.Date(2025, 5, 12, 18, 0, 0, 0, time.UTC), hat, "Carla", domain.SizeLarge, domain.PlatformInstagram, 3},  // lunes
		{time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC), dress, "Dario", domain.SizeSmall, domain.PlatformInstagram, 1}, // otra semana
		{time.Date(2025, 4, 30, 12, 0, 0, 0, time.UTC), hat, "Eva", domain.SizeLarge, domain.PlatformFacebook, 1},      // otro mes
	}
	for _, s := range sales {
		e.orderUC.Now = func() time.Time { return s.at }
		_, err := e.orderUC.PlaceOrder(ctx, s.p.ID, PlaceOrderInput{CustomerName: s.customer, Size: s.size, Platform: s.platform, Quantity: s.qty})
		require.NoError(t, err)
	}
	return dress, hat
}

func TestSalesHistoryPeriods(t *testing.T) {
	e := newEnv(t)
	seedSales(t, e)
	ctx := context.Background()
	date := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

	day, err := e.reportUC.SalesHistory(ctx, domain.SalesFilter{Date: date, Period: domain.PeriodDay})
	require.NoError(t, err)
	require.Equal(t, 2, day.OrderCount)
	assert.Equal(t, "Carla", day.Rows[0].CustomerName, "newest first")
	assert.Equal(t, "2025-05-12", day.From)
	assert.Equal(t, "2025-05-12", day.To)
	assert.True(t, day.TotalAmount.Equal(decimal.RequireFromString("199.99")))
	assert.Equal(t, 4, day.TotalItems)
	assert.True(t, day.AverageOrderValue.Equal(decimal.RequireFromString("100.00")))
	require.Len(t, day.Daily, 1)

	week, err := e.reportUC.SalesHistory(ctx, domain.SalesFilter{Date: date, Period: domain.PeriodWeek})
	require.NoError(t, err)
	assert.Equal(t, 3, week.OrderCount)
	assert.Equal(t, "2025-05-11", week.From)
	assert.Equal(t, "2025-05-17", week.To)
	require.Len(t, week.Daily, 7)
	assert.Equal(t, 1, week.Daily[0].Orders)
	assert.Equal(t, 2, week.Daily[1].Orders)
	assert.True(t, week.Daily[2].Amount.IsZero())

	month, err := e.reportUC.SalesHistory(ctx, domain.SalesFilter{Date: date, Period: domain.PeriodMonth})
	require.NoError(t, err)
	assert.Equal(t, 4, month.OrderCount)
	assert.Len(t, month.Daily, 31)

	all, err := e.reportUC.SalesHistory(ctx, domain.SalesFilter{Period: domain.PeriodAll})
	require.NoError(t, err)
	assert.Equal(t, 5, all.OrderCount)
	assert.Empty(t, all.From)
	assert.Len(t, all.Daily, 4)
	assert.Equal(t, "2025-04-30", all.Daily[0].Date)
}

func TestSalesHistoryFiltersAndSummaries(t *testing.T) {
	e := newEnv(t)
	seedSales(t, e)
	ctx := context.Background()

	rep, err := e.reportUC.SalesHistory(ctx, domain.SalesFilter{Period: domain.PeriodAll, Platform: domain.PlatformInstagram})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.OrderCount)
	for _, r := range rep.Rows {
		assert.Equal(t, domain.PlatformInstagram, r.Platform)
	}

	rep, err = e.reportUC.SalesHistory(ctx, domain.SalesFilter{Period: domain.PeriodAll, Category: domain.CategoryHats})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.OrderCount)
	require.Len(t, rep.Categories, 1)
	assert.Equal(t, "hats", rep.Categories[0].Name)

	rep, err = e.reportUC.SalesHistory(ctx, domain.SalesFilter{Period: domain.PeriodAll, Query: "STRAW"})
	require.NoError(t, err)
	assert.Equal(t, 2, rep.OrderCount)

	rep, err = e.reportUC.SalesHistory(ctx, domain.SalesFilter{Period: domain.PeriodAll, Sort: "customer"})
	require.NoError(t, err)
	names := []string{}
	for _, r := range rep.Rows {
		names = append(names, r.CustomerName)
	}
	assert.Equal(t, []string{"Ana", "Bruno", "Carla", "Dario", "Eva"}, names)

	rep, err = e.reportUC.SalesHistory(ctx, domain.SalesFilter{Period: domain.PeriodAll, Sort: "amount", Desc: true})
	require.NoError(t, err)
	assert.Equal(t, "Ana", rep.Rows[0].CustomerName)
	assert.True(t, rep.PaidAmount.IsZero())
	assert.True(t, rep.UnpaidAmount.Equal(rep.TotalAmount))
	require.Len(t, rep.Platforms, 3)
	assert.Equal(t, "facebook", rep.Platforms[0].Name)
	assert.True(t, rep.Platforms[0].Amount.Equal(decimal.RequireFromString("233.33")))

	_, err = e.reportUC.SalesHistory(ctx, domain.SalesFilter{Period: domain.PeriodAll, Sort: "color"})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDashboard(t *testing.T) {
	e := newEnv(t)
	_, hat := seedSales(t, e)
	ctx := context.Background()

	orders, err := e.orderUC.ListByProduct(ctx, hat.ID)
	require.NoError(t, err)
	_, err = e.orderUC.SetPaymentStatus(ctx, orders[0].ID, true)
	require.NoError(t, err)

	d, err := e.reportUC.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, d.ProductCount)
	assert.Equal(t, 24, d.TotalStock)
	assert.Equal(t, 8, d.SoldStock)
	assert.Equal(t, 16, d.RemainingStock)
	assert.Equal(t, 5, d.OrderCount)
	assert.True(t, d.Revenue.Equal(decimal.RequireFromString("533.32")))
	assert.True(t, d.PaidRevenue.Equal(decimal.RequireFromString("99.99")))
	assert.True(t, d.UnpaidRevenue.Equal(decimal.RequireFromString("433.33")))

	require.Len(t, d.Channels, 3)
	assert.Equal(t, domain.PlatformInstagram, d.Channels[1].Platform)
	assert.Equal(t, 4, d.Channels[1].Units)
	assert.Equal(t, 2, d.Channels[1].Orders)

	require.Len(t, d.LowStock, 1)
	assert.Equal(t, hat.ID, d.LowStock[0].ProductID)
	assert.Equal(t, domain.SizeLarge, d.LowStock[0].Size)
	assert.Equal(t, 0, d.LowStock[0].Remaining)
}

func TestSalesHistoryGroupsProductsWithoutCategory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	p := e.createProduct(t, "Mystery Box", "10", domain.StockCounts{Small: 3})
	_, err := e.orderUC.PlaceOrder(ctx, p.ID, PlaceOrderInput{CustomerName: "Noa", Size: domain.SizeSmall, Platform: domain.PlatformShopee, Quantity: 2})
	require.NoError(t, err)

	rep, err := e.reportUC.SalesHistory(ctx, domain.SalesFilter{Period: domain.PeriodAll})
	require.NoError(t, err)
	require.Len(t, rep.Categories, 1)
	assert.Equal(t, "uncategorized", rep.Categories[0].Name)
	assert.True(t, rep.Categories[0].Amount.Equal(decimal.NewFromInt(20)))
}
