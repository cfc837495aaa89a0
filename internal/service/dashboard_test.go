package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildnchill-server/internal/model"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func order(username, product string, price int64, status string, createdAt time.Time) model.Order {
	return model.Order{
		ID:         fmt.Sprintf("ord-%s-%s-%d", username, product, createdAt.UnixNano()),
		MCUsername: username,
		Product:    product,
		Price:      price,
		Status:     status,
		Delivered:  status == model.OrderStatusDelivered,
		CreatedAt:  createdAt,
	}
}

func TestAggregateRevenueCountsOnlyPaidOrders(t *testing.T) {
	orders := []model.Order{
		order("Steve", "VIP", 100000, model.OrderStatusPaid, testNow),
		order("Alex", "MVP", 200000, model.OrderStatusDelivered, testNow),
		order("Herobrine", "VIP", 999999, model.OrderStatusPending, testNow),
	}

	stats := Aggregate(orders, DateRange{}, testNow)

	assert.Equal(t, int64(300000), stats.TotalRevenue)
	assert.Equal(t, 3, stats.TotalOrders) // counts include pending
	assert.Equal(t, int64(300000), stats.MonthlyRevenue)
	assert.Equal(t, int64(300000), stats.YearlyRevenue)
}

func TestAggregateTotalsIgnoreDateWindow(t *testing.T) {
	orders := []model.Order{
		order("Steve", "VIP", 100000, model.OrderStatusPaid, testNow.AddDate(0, 0, -60)),
		order("Alex", "MVP", 200000, model.OrderStatusPaid, testNow),
	}

	// A window excluding everything must not change the global figures.
	narrow := DateRange{
		Start: testNow.AddDate(0, 0, 1),
		End:   testNow.AddDate(0, 0, 2),
	}
	withWindow := Aggregate(orders, narrow, testNow)
	withoutWindow := Aggregate(orders, DateRange{}, testNow)

	assert.Equal(t, withoutWindow.TotalRevenue, withWindow.TotalRevenue)
	assert.Equal(t, withoutWindow.MonthlyRevenue, withWindow.MonthlyRevenue)
	assert.Equal(t, withoutWindow.YearlyRevenue, withWindow.YearlyRevenue)
	assert.Equal(t, withoutWindow.TotalOrders, withWindow.TotalOrders)

	// Only the donator ranking reacts to the window.
	assert.Empty(t, withWindow.TopDonators)
	assert.Len(t, withoutWindow.TopDonators, 2)
}

func TestAggregateMonthlyYearlyPartition(t *testing.T) {
	orders := []model.Order{
		order("Steve", "VIP", 100000, model.OrderStatusPaid, testNow),                    // this month
		order("Alex", "MVP", 200000, model.OrderStatusPaid, testNow.AddDate(0, -1, 0)),   // this year, last month
		order("Notch", "ELITE", 400000, model.OrderStatusPaid, testNow.AddDate(-1, 0, 0)), // last year
	}

	stats := Aggregate(orders, DateRange{}, testNow)

	assert.Equal(t, int64(100000), stats.MonthlyRevenue)
	assert.Equal(t, 1, stats.MonthlyOrders)
	assert.Equal(t, int64(300000), stats.YearlyRevenue)
	assert.Equal(t, 2, stats.YearlyOrders)
	assert.Equal(t, int64(700000), stats.TotalRevenue)
	assert.Equal(t, 3, stats.TotalOrders)
}

func TestAggregateDenseRanking(t *testing.T) {
	orders := []model.Order{
		order("Steve", "VIP", 200000, model.OrderStatusPaid, testNow),
		order("Alex", "VIP", 200000, model.OrderStatusPaid, testNow),
		order("Notch", "MVP", 150000, model.OrderStatusPaid, testNow),
	}

	stats := Aggregate(orders, DateRange{}, testNow)

	require.Len(t, stats.TopDonators, 3)
	assert.Equal(t, 1, stats.TopDonators[0].Rank)
	assert.Equal(t, 1, stats.TopDonators[1].Rank)
	assert.Equal(t, 2, stats.TopDonators[2].Rank)
	assert.Equal(t, int64(150000), stats.TopDonators[2].Total)
	assert.Equal(t, "Notch", stats.TopDonators[2].Name)
}

func TestAggregateRankingAdvancesAfterTie(t *testing.T) {
	spending := map[string]int64{
		"a": 500, "b": 500, "c": 500, "d": 300, "e": 100,
	}
	ranked := rankSpending(spending, 10)

	require.Len(t, ranked, 5)
	assert.Equal(t, []int{1, 1, 1, 2, 3}, []int{ranked[0].Rank, ranked[1].Rank, ranked[2].Rank, ranked[3].Rank, ranked[4].Rank})
}

func TestAggregateTopDonatorsWindowed(t *testing.T) {
	inWindow := testNow.AddDate(0, 0, -5)
	outOfWindow := testNow.AddDate(0, 0, -40)
	orders := []model.Order{
		order("Steve", "VIP", 100000, model.OrderStatusPaid, inWindow),
		order("Steve", "VIP", 500000, model.OrderStatusPaid, outOfWindow),
		order("Alex", "MVP", 200000, model.OrderStatusPaid, inWindow),
	}

	window := DateRange{Start: testNow.AddDate(0, 0, -30), End: testNow}
	stats := Aggregate(orders, window, testNow)

	require.Len(t, stats.TopDonators, 2)
	assert.Equal(t, "Alex", stats.TopDonators[0].Name)
	assert.Equal(t, int64(200000), stats.TopDonators[0].Total)
	assert.Equal(t, "Steve", stats.TopDonators[1].Name)
	assert.Equal(t, int64(100000), stats.TopDonators[1].Total)
}

func TestAggregateWindowBoundsAreInclusiveCalendarDays(t *testing.T) {
	startDay := time.Date(2026, time.March, 1, 17, 30, 0, 0, time.UTC)
	endDay := time.Date(2026, time.March, 10, 3, 0, 0, 0, time.UTC)
	orders := []model.Order{
		order("Steve", "VIP", 100000, model.OrderStatusPaid, startDay),
		order("Alex", "MVP", 200000, model.OrderStatusPaid, endDay.Add(20*time.Hour)), // still March 10
	}

	window := DateRange{
		Start: time.Date(2026, time.March, 1, 23, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC),
	}
	stats := Aggregate(orders, window, testNow)

	// Both orders fall on window days, so both count despite the times.
	require.Len(t, stats.TopDonators, 2)
}

func TestAggregateRevenueByDaySevenEntriesOldestFirst(t *testing.T) {
	orders := []model.Order{
		order("Steve", "VIP", 100000, model.OrderStatusPaid, testNow),                  // today
		order("Alex", "MVP", 50000, model.OrderStatusPaid, testNow.AddDate(0, 0, -6)),  // oldest shown day
		order("Notch", "VIP", 70000, model.OrderStatusPaid, testNow.AddDate(0, 0, -7)), // off the chart
		order("Null", "VIP", 90000, model.OrderStatusPending, testNow),                 // pending, no revenue
	}

	stats := Aggregate(orders, DateRange{}, testNow)

	require.Len(t, stats.RevenueByDay, 7)
	assert.Equal(t, testNow.AddDate(0, 0, -6).Format("2006-01-02"), stats.RevenueByDay[0].FullDay)
	assert.Equal(t, testNow.Format("2006-01-02"), stats.RevenueByDay[6].FullDay)
	assert.Equal(t, int64(50000), stats.RevenueByDay[0].Revenue)
	assert.Equal(t, int64(100000), stats.RevenueByDay[6].Revenue)

	var total int64
	for _, day := range stats.RevenueByDay {
		total += day.Revenue
	}
	assert.Equal(t, int64(150000), total)
}

func TestAggregateTopProductsStableTies(t *testing.T) {
	orders := []model.Order{
		order("a", "Fly", 1, model.OrderStatusPaid, testNow),
		order("b", "VIP", 1, model.OrderStatusPaid, testNow),
		order("c", "Fly", 1, model.OrderStatusPaid, testNow),
		order("d", "VIP", 1, model.OrderStatusPaid, testNow),
		order("e", "Home", 1, model.OrderStatusPaid, testNow),
	}

	stats := Aggregate(orders, DateRange{}, testNow)

	require.Len(t, stats.TopProducts, 3)
	// Fly and VIP tie at 2; Fly appeared first in the collection.
	assert.Equal(t, "Fly", stats.TopProducts[0].Name)
	assert.Equal(t, 2, stats.TopProducts[0].Count)
	assert.Equal(t, "VIP", stats.TopProducts[1].Name)
	assert.Equal(t, "Home", stats.TopProducts[2].Name)
}

func TestAggregateTopProductsCapsAtFive(t *testing.T) {
	var orders []model.Order
	for i := 0; i < 8; i++ {
		orders = append(orders, order("u", fmt.Sprintf("P%d", i), 1, model.OrderStatusPaid, testNow))
	}

	stats := Aggregate(orders, DateRange{}, testNow)
	assert.Len(t, stats.TopProducts, 5)
}

func TestAggregatePendingOrdersArePaidNotDelivered(t *testing.T) {
	paidNotDelivered := order("Steve", "VIP", 1, model.OrderStatusPaid, testNow)
	delivered := order("Alex", "VIP", 1, model.OrderStatusDelivered, testNow)
	pending := order("Notch", "VIP", 1, model.OrderStatusPending, testNow)

	stats := Aggregate([]model.Order{paidNotDelivered, delivered, pending}, DateRange{}, testNow)
	assert.Equal(t, 1, stats.PendingOrders)
}

func TestAggregateRecentOrdersTopFive(t *testing.T) {
	var orders []model.Order
	for i := 0; i < 7; i++ {
		orders = append(orders, order(fmt.Sprintf("u%d", i), "VIP", 1, model.OrderStatusPaid, testNow.Add(-time.Duration(i)*time.Hour)))
	}

	stats := Aggregate(orders, DateRange{}, testNow)

	require.Len(t, stats.RecentOrders, 5)
	assert.Equal(t, "u0", stats.RecentOrders[0].MCUsername)
}

func TestFormatVND(t *testing.T) {
	assert.Equal(t, "100.000 VNĐ", formatVND(100000))
	assert.Equal(t, "1.234.567 VNĐ", formatVND(1234567))
	assert.Equal(t, "0 VNĐ", formatVND(0))
	assert.Equal(t, "-50.000 VNĐ", formatVND(-50000))
}
