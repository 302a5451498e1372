package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/email"
	"github.com/medetbek/finance-tracker/internal/repository"
)

type TransactionUsecase struct {
	transactions repository.TransactionRepository
	categories   repository.CategoryRepository
	budgets      repository.BudgetRepository
	email        email.Sender
	logger       *slog.Logger
}

func NewTransactionUsecase(
	transactions repository.TransactionRepository,
	categories repository.CategoryRepository,
	budgets repository.BudgetRepository,
	emailSender email.Sender,
	logger *slog.Logger,
) *TransactionUsecase {
	return &TransactionUsecase{
		transactions: transactions,
		categories:   categories,
		budgets:      budgets,
		email:        emailSender,
		logger:       logger.With("component", "transaction_usecase"),
	}
}

type CreateTransactionInput struct {
	Amount      float64
	Description *string
	Date        *time.Time
	Type        domain.TransactionType
	CategoryID  int64
}

// Create records a transaction and, when the category's total spend
// now exceeds its budget, emails an overspending alert. The alert is
// best-effort and never fails the request.
func (u *TransactionUsecase) Create(ctx context.Context, user *domain.User, input CreateTransactionInput) (*domain.Transaction, error) {
	category, err := u.categories.FindByID(ctx, input.CategoryID, user.ID)
	if err != nil {
		return nil, err
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	created, err := u.transactions.Create(ctx, &domain.Transaction{
		Amount:      input.Amount,
		Description: input.Description,
		Date:        date,
		Type:        input.Type,
		OwnerID:     user.ID,
		CategoryID:  input.CategoryID,
	})
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	u.checkOverspending(ctx, user, category)

	return created, nil
}

func (u *TransactionUsecase) List(ctx context.Context, ownerID int64, filter domain.TransactionFilter) ([]*domain.Transaction, error) {
	if filter.Limit <= 0 {
		filter.Limit = 10
	}
	transactions, err := u.transactions.List(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

func (u *TransactionUsecase) Get(ctx context.Context, id, ownerID int64) (*domain.Transaction, error) {
	return u.transactions.FindByID(ctx, id, ownerID)
}

type UpdateTransactionInput struct {
	Amount      float64
	Description *string
	Date        *time.Time
	Type        domain.TransactionType
	CategoryID  int64
}

func (u *TransactionUsecase) Update(ctx context.Context, id, ownerID int64, input UpdateTransactionInput) (*domain.Transaction, error) {
	if _, err := u.categories.FindByID(ctx, input.CategoryID, ownerID); err != nil {
		return nil, err
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}

	return u.transactions.Update(ctx, &domain.Transaction{
		ID:          id,
		OwnerID:     ownerID,
		Amount:      input.Amount,
		Description: input.Description,
		Date:        date,
		Type:        input.Type,
		CategoryID:  input.CategoryID,
	})
}

func (u *TransactionUsecase) Delete(ctx context.Context, id, ownerID int64) error {
	return u.transactions.Delete(ctx, id, ownerID)
}

func (u *TransactionUsecase) checkOverspending(ctx context.Context, user *domain.User, category *domain.Category) {
	total, err := u.transactions.SumByCategory(ctx, user.ID, category.ID)
	if err != nil {
		u.logger.ErrorContext(ctx, "sum category spend", "category_id", category.ID, "error", err)
		return
	}

	budget, err := u.budgets.FindByCategory(ctx, user.ID, category.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrBudgetNotFound) {
			u.logger.ErrorContext(ctx, "find budget", "category_id", category.ID, "error", err)
		}
		return
	}

	if total <= budget.Amount {
		return
	}

	subject, body := email.OverspendingAlert(user.Username, category.Name, total, budget.Amount)
	to := user.Email
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
		defer cancel()
		if err := u.email.Send(sendCtx, to, subject, body); err != nil {
			u.logger.Error("send overspending alert", "to", to, "error", err)
		}
	}()
}
