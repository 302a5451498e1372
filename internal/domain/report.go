package domain

// Summary totals income and expenses over a date range.
type Summary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// MonthlyRow is one month's income/expense breakdown, month formatted
// as "2006-01".
type MonthlyRow struct {
	Month   string  `json:"month"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// CategoryTotal is one category's transaction total.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// CategoryBreakdown carries per-category totals ordered largest first.
// Labels and Totals repeat the Items columns for chart consumers.
type CategoryBreakdown struct {
	Labels []string        `json:"labels"`
	Totals []float64       `json:"totals"`
	Items  []CategoryTotal `json:"items"`
}
