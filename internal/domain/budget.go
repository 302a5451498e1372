package domain

import (
	"errors"
	"time"
)

var (
	ErrBudgetNotFound = errors.New("budget not found")
	ErrBudgetExists   = errors.New("budget already exists for this category and month")
)

type Budget struct {
	ID         int64
	UserID     int64
	CategoryID int64
	Amount     float64
	Month      time.Time
}

// BudgetSummaryRow compares one category's budget for a month against
// what was actually spent in it.
type BudgetSummaryRow struct {
	CategoryID     int64   `json:"category_id"`
	CategoryName   string  `json:"category_name"`
	BudgetAmount   float64 `json:"budget_amount"`
	Spent          float64 `json:"spent"`
	Remaining      float64 `json:"remaining"`
	PercentageUsed float64 `json:"percentage_used"`
}
