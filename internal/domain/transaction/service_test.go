package transaction_test

import (
	"context"
	"testing"
	"time"

	"Grana/internal/domain/transaction"
	appErrors "Grana/internal/errors"
	"Grana/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

func TestCreateTransactionValidations(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	categoryID := ulid.Make()
	ctx := context.Background()

	base := func() *transaction.Transaction {
		return &transaction.Transaction{
			UserId:      userID,
			Type:        transaction.Expense,
			Amount:      decimal.RequireFromString("99.999"),
			Description: "Mercado",
			Date:        time.Date(2024, time.March, 1, 18, 20, 0, 0, time.UTC),
		}
	}

	tests := []struct {
		name        string
		mutate      func(tr *transaction.Transaction)
		categoryErr error
		wantErrCode string
	}{
		{
			name:        "invalid type",
			mutate:      func(tr *transaction.Transaction) { tr.Type = transaction.Types("TRANSFER") },
			wantErrCode: "VALIDATION_ERROR",
		},
		{
			name:        "amount must be positive",
			mutate:      func(tr *transaction.Transaction) { tr.Amount = decimal.Zero },
			wantErrCode: "VALIDATION_ERROR",
		},
		{
			name:        "date is required",
			mutate:      func(tr *transaction.Transaction) { tr.Date = time.Time{} },
			wantErrCode: "VALIDATION_ERROR",
		},
		{
			name:        "unknown category",
			mutate:      func(tr *transaction.Transaction) { tr.CategoryId = &categoryID },
			categoryErr: appErrors.ErrCategoryNotFound,
			wantErrCode: appErrors.ErrCategoryNotFound.Code,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			checker := &fakeCategoryChecker{
				ensureFn: func(ctx context.Context, categoryID, userID ulid.ULID) error {
					return tt.categoryErr
				},
			}
			svc := newTestService(&fakeTransactionRepository{}, checker)

			tr := base()
			tt.mutate(tr)

			err := svc.CreateTransaction(ctx, tr)
			if err == nil {
				t.Fatalf("expected error")
			}
			appErr, ok := appErrors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != tt.wantErrCode {
				t.Fatalf("expected code %s, got %s", tt.wantErrCode, appErr.Code)
			}
		})
	}

	t.Run("success normalizes amount and date", func(t *testing.T) {
		var created *transaction.Transaction
		repo := &fakeTransactionRepository{
			createFn: func(ctx context.Context, tr *transaction.Transaction) error {
				created = tr
				return nil
			},
		}
		svc := newTestService(repo, &fakeCategoryChecker{})

		tr := base()
		if err := svc.CreateTransaction(ctx, tr); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created == nil {
			t.Fatalf("expected transaction persisted")
		}
		if pkg.IsEmptyULID(created.Id) {
			t.Fatalf("expected generated id")
		}
		if created.Amount.String() != "100" {
			t.Fatalf("expected amount rounded to two decimals, got %s", created.Amount)
		}
		if !created.Date.Equal(day(2024, time.March, 1)) {
			t.Fatalf("expected date truncated to midnight, got %s", created.Date)
		}
	})
}

func TestUpdateTransactionKeepsStoredDate(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	transactionID := ulid.Make()
	ctx := context.Background()

	var updated *transaction.Transaction
	repo := &fakeTransactionRepository{
		getByIDFn: func(ctx context.Context, id, uid ulid.ULID) (*transaction.Transaction, error) {
			return &transaction.Transaction{
				Id:          id,
				UserId:      uid,
				Type:        transaction.Expense,
				Amount:      decimal.NewFromInt(80),
				Description: "Internet",
				Date:        day(2024, time.February, 10),
			}, nil
		},
		updateFn: func(ctx context.Context, tr *transaction.Transaction) error {
			updated = tr
			return nil
		},
	}
	svc := newTestService(repo, &fakeCategoryChecker{})

	err := svc.UpdateTransaction(ctx, &transaction.Transaction{
		Id:          transactionID,
		UserId:      userID,
		Type:        transaction.Expense,
		Amount:      decimal.NewFromInt(95),
		Description: "Internet fibra",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated == nil {
		t.Fatalf("expected update persisted")
	}
	if !updated.Date.Equal(day(2024, time.February, 10)) {
		t.Fatalf("expected stored date preserved when the patch has none, got %s", updated.Date)
	}
	if updated.Amount.String() != "95" {
		t.Fatalf("expected new amount, got %s", updated.Amount)
	}
	if updated.Description != "Internet fibra" {
		t.Fatalf("expected new description, got %q", updated.Description)
	}
}

func TestDeleteTransactionChecksOwnership(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	transactionID := ulid.Make()

	repo := &fakeTransactionRepository{
		getByIDFn: func(ctx context.Context, id, uid ulid.ULID) (*transaction.Transaction, error) {
			return nil, appErrors.ErrTransactionNotFound
		},
	}
	svc := newTestService(repo, &fakeCategoryChecker{})

	err := svc.DeleteTransaction(context.Background(), transactionID, userID)
	if err == nil {
		t.Fatalf("expected error")
	}
	appErr, _ := appErrors.AsAppError(err)
	if appErr.Code != appErrors.ErrTransactionNotFound.Code {
		t.Fatalf("expected %s, got %s", appErrors.ErrTransactionNotFound.Code, appErr.Code)
	}
}
