package core

import "sort"

type (
	// MonthTotal is the summed amount for one year-month.
	MonthTotal struct {
		Month string  `json:"month"`
		Total float64 `json:"total"`
	}

	// UserTotal is the summed amount for one payer.
	UserTotal struct {
		User  string  `json:"user"`
		Total float64 `json:"total"`
	}

	// CategoryTotal is the summed amount for one category.
	CategoryTotal struct {
		Category string  `json:"type"`
		Total    float64 `json:"total"`
	}

	// OverallStats is the full-ledger summary view.
	OverallStats struct {
		Total      float64         `json:"total"`
		ByMonth    []MonthTotal    `json:"by_month"`
		ByUser     []UserTotal     `json:"by_user"`
		ByCategory []CategoryTotal `json:"by_category"`
	}

	// MonthBreakdown splits a single month's spending by payer and by
	// category.
	MonthBreakdown struct {
		Month      string          `json:"month"`
		ByUser     []UserTotal     `json:"by_user"`
		ByCategory []CategoryTotal `json:"by_category"`
	}
)

// accumulator sums amounts per string key while remembering the set of
// keys, so grouped views stay a single pass over the records.
type accumulator map[string]float64

func (a accumulator) add(key string, amount float64) {
	a[key] += amount
}

func (a accumulator) sortedKeys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// byTotalDesc orders grouping keys by total descending, key ascending on
// equal totals. Ties must resolve the same way on every call.
func (a accumulator) byTotalDesc() []string {
	keys := a.sortedKeys()
	sort.SliceStable(keys, func(i, j int) bool {
		return a[keys[i]] > a[keys[j]]
	})
	return keys
}

// ComputeOverallStats derives the overall summary from the full record
// set. An empty input yields a zero total and empty lists, not nulls.
func ComputeOverallStats(records []Expense) OverallStats {
	byMonth := accumulator{}
	byUser := accumulator{}
	byCategory := accumulator{}

	stats := OverallStats{
		ByMonth:    []MonthTotal{},
		ByUser:     []UserTotal{},
		ByCategory: []CategoryTotal{},
	}
	for _, r := range records {
		stats.Total += r.Amount
		byMonth.add(r.Date.MonthKey(), r.Amount)
		byUser.add(r.PaidBy, r.Amount)
		byCategory.add(r.Category, r.Amount)
	}

	// YYYY-MM keys sort chronologically as strings.
	for _, month := range byMonth.sortedKeys() {
		stats.ByMonth = append(stats.ByMonth, MonthTotal{Month: month, Total: byMonth[month]})
	}
	for _, user := range byUser.byTotalDesc() {
		stats.ByUser = append(stats.ByUser, UserTotal{User: user, Total: byUser[user]})
	}
	for _, cat := range byCategory.byTotalDesc() {
		stats.ByCategory = append(stats.ByCategory, CategoryTotal{Category: cat, Total: byCategory[cat]})
	}
	return stats
}

// ComputeMonthlyBreakdown derives the per-month payer and category
// split. The output covers the union of months seen in either grouping,
// most recent month first; a month missing from one grouping keeps an
// empty list for it.
func ComputeMonthlyBreakdown(records []Expense) []MonthBreakdown {
	userByMonth := map[string]accumulator{}
	categoryByMonth := map[string]accumulator{}

	for _, r := range records {
		month := r.Date.MonthKey()
		if userByMonth[month] == nil {
			userByMonth[month] = accumulator{}
		}
		if categoryByMonth[month] == nil {
			categoryByMonth[month] = accumulator{}
		}
		userByMonth[month].add(r.PaidBy, r.Amount)
		categoryByMonth[month].add(r.Category, r.Amount)
	}

	monthSet := map[string]struct{}{}
	for m := range userByMonth {
		monthSet[m] = struct{}{}
	}
	for m := range categoryByMonth {
		monthSet[m] = struct{}{}
	}
	months := make([]string, 0, len(monthSet))
	for m := range monthSet {
		months = append(months, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	breakdown := make([]MonthBreakdown, 0, len(months))
	for _, month := range months {
		entry := MonthBreakdown{
			Month:      month,
			ByUser:     []UserTotal{},
			ByCategory: []CategoryTotal{},
		}
		if users := userByMonth[month]; users != nil {
			for _, user := range users.byTotalDesc() {
				entry.ByUser = append(entry.ByUser, UserTotal{User: user, Total: users[user]})
			}
		}
		if cats := categoryByMonth[month]; cats != nil {
			for _, cat := range cats.byTotalDesc() {
				entry.ByCategory = append(entry.ByCategory, CategoryTotal{Category: cat, Total: cats[cat]})
			}
		}
		breakdown = append(breakdown, entry)
	}
	return breakdown
}
