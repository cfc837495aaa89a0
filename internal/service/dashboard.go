package service

import (
	"context"
	"sort"
	"time"

	"buildnchill-server/internal/model"
	"buildnchill-server/internal/repository"
)

// DateRange is a caller-supplied window with calendar-day granularity, both
// ends inclusive. Zero values leave that end open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

type ProductCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DonatorRank struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Total int64  `json:"total"`
}

type DayRevenue struct {
	Date    string `json:"date"`      // DD/MM for charting
	FullDay string `json:"full_date"` // YYYY-MM-DD
	Revenue int64  `json:"revenue"`
}

// DashboardStats is a read-only snapshot; callers recompute from scratch on
// every refresh. Monthly/yearly/total figures are always since the start of
// data and never depend on the date window; only TopDonators is windowed.
type DashboardStats struct {
	PendingOrders  int   `json:"pending_orders"` // paid, not yet delivered
	MonthlyOrders  int   `json:"monthly_orders"`
	YearlyOrders   int   `json:"yearly_orders"`
	TotalOrders    int   `json:"total_orders"`
	MonthlyRevenue int64 `json:"monthly_revenue"`
	YearlyRevenue  int64 `json:"yearly_revenue"`
	TotalRevenue   int64 `json:"total_revenue"`

	RevenueByDay   []DayRevenue    `json:"revenue_by_day"`
	TopProducts    []ProductCount  `json:"top_products"`
	TopDonators    []DonatorRank   `json:"top_donators"`
	RecentOrders   []model.Order   `json:"recent_orders"`
	RecentContacts []model.Contact `json:"recent_contacts"`
}

type DashboardService interface {
	Stats(ctx context.Context, window DateRange) (*DashboardStats, error)
	TopDonators(ctx context.Context, window DateRange, limit int) ([]DonatorRank, error)
}

type dashboardServiceImpl struct {
	orderRepo   repository.OrderRepository
	contactRepo repository.ContactRepository
	now         func() time.Time
}

func NewDashboardService(orderRepo repository.OrderRepository, contactRepo repository.ContactRepository) DashboardService {
	return &dashboardServiceImpl{
		orderRepo:   orderRepo,
		contactRepo: contactRepo,
		now:         time.Now,
	}
}

func (s *dashboardServiceImpl) Stats(ctx context.Context, window DateRange) (*DashboardStats, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	contacts, err := s.contactRepo.List(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats := Aggregate(orders, window, s.now())
	stats.RecentContacts = contacts
	return stats, nil
}

func (s *dashboardServiceImpl) TopDonators(ctx context.Context, window DateRange, limit int) ([]DonatorRank, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	ranked := rankDonators(orders, normalizeWindow(window))
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// Aggregate computes the dashboard snapshot from an already-fetched,
// soft-delete-filtered order collection. It is a pure function of its
// arguments; orders are expected newest first (the repository's default
// ordering) so the first five are the recent ones.
func Aggregate(orders []model.Order, window DateRange, now time.Time) *DashboardStats {
	currentYear, currentMonth, _ := now.Date()
	win := normalizeWindow(window)

	days := trailingDays(now, 7)
	dayIndex := make(map[string]int, len(days))
	for i, d := range days {
		dayIndex[d.FullDay] = i
	}

	stats := &DashboardStats{
		TotalOrders:  len(orders),
		RevenueByDay: days,
	}

	productCounts := make(map[string]int)
	var productOrder []string
	userSpending := make(map[string]int64)

	for _, order := range orders {
		if order.Status == model.OrderStatusPaid && !order.Delivered {
			stats.PendingOrders++
		}

		paid := isRevenue(order)

		if paid {
			stats.TotalRevenue += order.Price

			name := order.Product
			if name == "" {
				name = "Ẩn danh"
			}
			if _, seen := productCounts[name]; !seen {
				productOrder = append(productOrder, name)
			}
			productCounts[name]++

			if win.contains(order.CreatedAt) {
				username := order.MCUsername
				if username == "" {
					username = "Ẩn danh"
				}
				userSpending[username] += order.Price
			}
		}

		if order.CreatedAt.Year() == currentYear {
			stats.YearlyOrders++
			if paid {
				stats.YearlyRevenue += order.Price
			}
			if order.CreatedAt.Month() == currentMonth {
				stats.MonthlyOrders++
				if paid {
					stats.MonthlyRevenue += order.Price
				}
			}
		}

		if paid {
			if i, ok := dayIndex[order.CreatedAt.Format("2006-01-02")]; ok {
				stats.RevenueByDay[i].Revenue += order.Price
			}
		}
	}

	stats.TopProducts = topProducts(productCounts, productOrder, 5)
	stats.TopDonators = rankSpending(userSpending, 10)
	if len(stats.TopDonators) > 5 {
		stats.TopDonators = stats.TopDonators[:5]
	}

	if len(orders) > 5 {
		stats.RecentOrders = orders[:5]
	} else {
		stats.RecentOrders = orders
	}
	return stats
}

// isRevenue reports whether an order contributes revenue: only paid or
// delivered orders count, a pending order contributes zero.
func isRevenue(order model.Order) bool {
	return order.Status == model.OrderStatusPaid ||
		order.Status == model.OrderStatusDelivered ||
		order.Delivered
}

// topProducts sorts product counts descending, ties broken by first
// occurrence in the collection (stable).
func topProducts(counts map[string]int, order []string, limit int) []ProductCount {
	out := make([]ProductCount, 0, len(order))
	for _, name := range order {
		out = append(out, ProductCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func rankDonators(orders []model.Order, win dayWindow) []DonatorRank {
	spending := make(map[string]int64)
	for _, order := range orders {
		if !isRevenue(order) {
			continue
		}
		if !win.contains(order.CreatedAt) {
			continue
		}
		username := order.MCUsername
		if username == "" {
			username = "Ẩn danh"
		}
		spending[username] += order.Price
	}
	return rankSpending(spending, 10)
}

// rankSpending sorts totals descending and assigns dense ranks: equal
// totals share a rank and the next distinct total takes the following
// rank, so [500, 500, 300] ranks as [1, 1, 2].
func rankSpending(spending map[string]int64, limit int) []DonatorRank {
	names := make([]string, 0, len(spending))
	for name := range spending {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if spending[names[i]] != spending[names[j]] {
			return spending[names[i]] > spending[names[j]]
		}
		return names[i] < names[j]
	})

	ranked := make([]DonatorRank, 0, len(names))
	currentRank := 0
	lastTotal := int64(-1)
	for _, name := range names {
		total := spending[name]
		if total != lastTotal {
			currentRank++
			lastTotal = total
		}
		ranked = append(ranked, DonatorRank{Rank: currentRank, Name: name, Total: total})
	}
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// trailingDays builds the revenue-by-day skeleton: n calendar days ending
// today, oldest first.
func trailingDays(now time.Time, n int) []DayRevenue {
	days := make([]DayRevenue, n)
	for i := 0; i < n; i++ {
		d := now.AddDate(0, 0, -(n - 1 - i))
		days[i] = DayRevenue{
			Date:    d.Format("02/01"),
			FullDay: d.Format("2006-01-02"),
		}
	}
	return days
}

// dayWindow is a DateRange widened to whole calendar days.
type dayWindow struct {
	start time.Time
	end   time.Time
}

func normalizeWindow(window DateRange) dayWindow {
	w := dayWindow{}
	if !window.Start.IsZero() {
		y, m, d := window.Start.Date()
		w.start = time.Date(y, m, d, 0, 0, 0, 0, window.Start.Location())
	}
	if !window.End.IsZero() {
		y, m, d := window.End.Date()
		w.end = time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), window.End.Location())
	}
	return w
}

func (w dayWindow) contains(t time.Time) bool {
	if !w.start.IsZero() && t.Before(w.start) {
		return false
	}
	if !w.end.IsZero() && t.After(w.end) {
		return false
	}
	return true
}
