package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/medetbek/finance-tracker/internal/domain"
	"github.com/medetbek/finance-tracker/internal/transport/http/handler"
	"github.com/medetbek/finance-tracker/internal/transport/http/middleware"
)

type fakeReportUsecase struct {
	summary    func(ctx context.Context, ownerID int64, from, to *time.Time) (domain.Summary, error)
	byCategory func(ctx context.Context, ownerID int64, txType *domain.TransactionType, from *time.Time, limit int) (domain.CategoryBreakdown, error)
}

func (f *fakeReportUsecase) Summary(ctx context.Context, ownerID int64, from, to *time.Time) (domain.Summary, error) {
	return f.summary(ctx, ownerID, from, to)
}

func (f *fakeReportUsecase) Monthly(_ context.Context, _ int64, _, _ *time.Time) ([]domain.MonthlyRow, error) {
	return nil, nil
}

func (f *fakeReportUsecase) ByCategory(ctx context.Context, ownerID int64, txType *domain.TransactionType, from *time.Time, limit int) (domain.CategoryBreakdown, error) {
	return f.byCategory(ctx, ownerID, txType, from, limit)
}

func newReportEngine(uc *fakeReportUsecase) *gin.Engine {
	resolver := &fakeResolver{
		currentUser: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: 1, Email: "a@b.com", Username: "tester"}, nil
		},
	}
	h := handler.NewReportHandler(uc, discardLogger())

	r := gin.New()
	authMW := middleware.Auth(resolver)
	r.GET("/transactions/reports/summary", authMW, h.Summary)
	r.GET("/transactions/reports/by-category", authMW, h.ByCategory)
	return r
}

func getAuthed(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer token")
	engine.ServeHTTP(w, req)
	return w
}

func TestSummary_BadDate_Returns400(t *testing.T) {
	w := getAuthed(newReportEngine(&fakeReportUsecase{}), "/transactions/reports/summary?start_date=not-a-date")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestByCategory_ReturnsBreakdownShape(t *testing.T) {
	uc := &fakeReportUsecase{
		byCategory: func(_ context.Context, _ int64, txType *domain.TransactionType, from *time.Time, limit int) (domain.CategoryBreakdown, error) {
			if txType == nil || *txType != domain.TransactionExpense {
				t.Errorf("type = %v, want expense", txType)
			}
			if from == nil || from.Format("2006-01-02") != "2026-01-01" {
				t.Errorf("from = %v", from)
			}
			if limit != 3 {
				t.Errorf("limit = %d, want 3", limit)
			}
			return domain.CategoryBreakdown{
				Labels: []string{"Rent"},
				Totals: []float64{1200},
				Items:  []domain.CategoryTotal{{Category: "Rent", Total: 1200}},
			}, nil
		},
	}
	w := getAuthed(newReportEngine(uc),
		"/transactions/reports/by-category?type=expense&limit=3&start_date=2026-01-01")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Labels []string         `json:"labels"`
		Totals []float64        `json:"totals"`
		Items  []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Labels) != 1 || resp.Labels[0] != "Rent" {
		t.Errorf("labels = %v", resp.Labels)
	}
	if len(resp.Totals) != 1 || resp.Totals[0] != 1200 {
		t.Errorf("totals = %v", resp.Totals)
	}
	if len(resp.Items) != 1 || resp.Items[0]["category"] != "Rent" {
		t.Errorf("items = %v", resp.Items)
	}
}

func TestByCategory_InvalidType_Returns400(t *testing.T) {
	w := getAuthed(newReportEngine(&fakeReportUsecase{}), "/transactions/reports/by-category?type=savings")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestByCategory_InvalidLimit_Returns400(t *testing.T) {
	for _, limit := range []string{"0", "-2", "abc"} {
		w := getAuthed(newReportEngine(&fakeReportUsecase{}), "/transactions/reports/by-category?limit="+limit)
		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, w.Code)
		}
	}
}
