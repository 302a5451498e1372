// seed inserts a demo user with categories, budgets, and a batch of
// transactions into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/medetbek/finance-tracker/internal/auth"
	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/infrastructure/postgres"
)

const (
	seedEmail    = "demo@fintrack.local"
	seedUsername = "demo"
	seedPassword = "demo-password-123"
)

type categorySpec struct {
	name   string
	ctype  domain.CategoryType
	budget float64
}

var categories = []categorySpec{
	{"Salary", domain.CategoryIncome, 0},
	{"Groceries", domain.CategoryExpense, 400},
	{"Rent", domain.CategoryExpense, 1200},
	{"Entertainment", domain.CategoryExpense, 150},
	{"Transport", domain.CategoryExpense, 100},
}

type transactionSpec struct {
	category    string
	amount      float64
	ctype       domain.TransactionType
	description string
	daysAgo     int
}

var transactions = []transactionSpec{
	{"Salary", 3500, domain.TransactionIncome, "Monthly salary", 25},
	{"Rent", 1200, domain.TransactionExpense, "September rent", 24},
	{"Groceries", 86.40, domain.TransactionExpense, "Weekly shop", 20},
	{"Groceries", 42.15, domain.TransactionExpense, "Top-up shop", 16},
	{"Transport", 49.90, domain.TransactionExpense, "Metro pass", 15},
	{"Entertainment", 31.00, domain.TransactionExpense, "Cinema", 12},
	{"Groceries", 97.80, domain.TransactionExpense, "Weekly shop", 9},
	{"Entertainment", 64.50, domain.TransactionExpense, "Concert tickets", 6},
	{"Groceries", 58.25, domain.TransactionExpense, "Weekly shop", 2},
	{"Transport", 18.00, domain.TransactionExpense, "Taxi", 1},
}

func main() {
	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	if err := postgres.Migrate(ctx, dsn); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)

	hash, err := auth.NewPasswordHasher().Hash(seedPassword)
	if err != nil {
		log.Fatalf("hash seed password: %v", err)
	}

	user, err := userRepo.Create(ctx, &domain.User{
		Username:     seedUsername,
		Email:        seedEmail,
		PasswordHash: hash,
	})
	if errors.Is(err, domain.ErrEmailTaken) {
		log.Fatalf("database already seeded (user %s exists)", seedEmail)
	}
	if err != nil {
		log.Fatalf("create user: %v", err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	categoryIDs := make(map[string]int64, len(categories))
	for _, spec := range categories {
		cat, err := categoryRepo.Create(ctx, &domain.Category{
			Name:   spec.name,
			Type:   spec.ctype,
			UserID: user.ID,
		})
		if err != nil {
			log.Fatalf("create category %s: %v", spec.name, err)
		}
		categoryIDs[spec.name] = cat.ID

		if spec.budget > 0 {
			if _, err := budgetRepo.Create(ctx, &domain.Budget{
				UserID:     user.ID,
				CategoryID: cat.ID,
				Amount:     spec.budget,
				Month:      monthStart,
			}); err != nil {
				log.Fatalf("create budget for %s: %v", spec.name, err)
			}
		}
	}

	for _, spec := range transactions {
		desc := spec.description
		if _, err := transactionRepo.Create(ctx, &domain.Transaction{
			Amount:      spec.amount,
			Description: &desc,
			Date:        now.AddDate(0, 0, -spec.daysAgo),
			Type:        spec.ctype,
			OwnerID:     user.ID,
			CategoryID:  categoryIDs[spec.category],
		}); err != nil {
			log.Fatalf("create transaction %q: %v", spec.description, err)
		}
	}

	fmt.Printf("seeded user %s (password %q) with %d categories and %d transactions\n",
		seedEmail, seedPassword, len(categories), len(transactions))
}
