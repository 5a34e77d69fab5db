package recurring_test

import (
	"context"
	"testing"
	"time"

	"Grana/internal/domain/recurring"
	"Grana/internal/domain/transaction"
	appErrors "Grana/internal/errors"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

func midSeriesRule(userID ulid.ULID) *recurring.RecurrenceRule {
	lastRun := day(2024, time.February, 1)
	categoryID := ulid.Make()
	return &recurring.RecurrenceRule{
		Id:     ulid.Make(),
		UserId: userID,
		Template: recurring.TransactionTemplate{
			Type:        transaction.Expense,
			Amount:      decimal.RequireFromString("150.00"),
			Description: "Assinatura",
			CategoryId:  &categoryID,
			Tags:        []string{"casa"},
		},
		Frequency:   recurring.FrequencyMonthly,
		Interval:    1,
		StartDate:   day(2024, time.January, 1),
		NextRunDate: day(2024, time.March, 1),
		LastRunDate: &lastRun,
		RunCount:    2,
		IsActive:    true,
	}
}

func TestPauseAndResume(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("pause deactivates without touching the cursor", func(t *testing.T) {
		rule := midSeriesRule(userID)
		updates := 0
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
			updateFn: func(ctx context.Context, r *recurring.RecurrenceRule) error {
				updates++
				return nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, &fakeCategoryValidator{})

		got, err := svc.Pause(ctx, rule.Id, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.IsActive {
			t.Fatalf("expected rule paused")
		}
		if !got.NextRunDate.Equal(day(2024, time.March, 1)) {
			t.Fatalf("cursor must not move on pause, got %s", got.NextRunDate.Format("2006-01-02"))
		}
		if updates != 1 {
			t.Fatalf("expected one update, got %d", updates)
		}

		// pausing again is a no-op
		if _, err := svc.Pause(ctx, rule.Id, userID); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updates != 1 {
			t.Fatalf("pausing a paused rule must not persist, got %d updates", updates)
		}
	})

	t.Run("resume keeps the cursor so the backlog is generated later", func(t *testing.T) {
		rule := midSeriesRule(userID)
		rule.IsActive = false
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, &fakeCategoryValidator{})

		got, err := svc.Resume(ctx, rule.Id, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.IsActive {
			t.Fatalf("expected rule active again")
		}
		if !got.NextRunDate.Equal(day(2024, time.March, 1)) {
			t.Fatalf("cursor must not move on resume, got %s", got.NextRunDate.Format("2006-01-02"))
		}
	})

	t.Run("resume past the end date is rejected", func(t *testing.T) {
		rule := midSeriesRule(userID)
		rule.IsActive = false
		endDate := day(2024, time.February, 15)
		rule.EndDate = &endDate
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, &fakeCategoryValidator{})

		_, err := svc.Resume(ctx, rule.Id, userID)
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, _ := appErrors.AsAppError(err)
		if appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected validation error, got %s", appErr.Code)
		}
	})
}

func TestSkipNext(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("advances the cursor without materializing", func(t *testing.T) {
		rule := midSeriesRule(userID)
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, &fakeCategoryValidator{})

		got, err := svc.SkipNext(ctx, rule.Id, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.NextRunDate.Equal(day(2024, time.April, 1)) {
			t.Fatalf("expected cursor on 2024-04-01, got %s", got.NextRunDate.Format("2006-01-02"))
		}
		if got.RunCount != 2 {
			t.Fatalf("skip must not count as a run, got %d", got.RunCount)
		}
		if got.LastRunDate == nil || !got.LastRunDate.Equal(day(2024, time.February, 1)) {
			t.Fatalf("skip must not touch the last run date, got %v", got.LastRunDate)
		}
	})

	t.Run("skipping past the end date deactivates", func(t *testing.T) {
		rule := midSeriesRule(userID)
		endDate := day(2024, time.March, 15)
		rule.EndDate = &endDate
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, &fakeCategoryValidator{})

		got, err := svc.SkipNext(ctx, rule.Id, userID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.IsActive {
			t.Fatalf("expected rule deactivated, cursor jumped past the end date")
		}
	})

	t.Run("paused rule cannot skip", func(t *testing.T) {
		rule := midSeriesRule(userID)
		rule.IsActive = false
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, &fakeCategoryValidator{})

		_, err := svc.SkipNext(ctx, rule.Id, userID)
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, _ := appErrors.AsAppError(err)
		if appErr.Code != appErrors.ErrRecurrenceInactive.Code {
			t.Fatalf("expected %s, got %s", appErrors.ErrRecurrenceInactive.Code, appErr.Code)
		}
	})
}

func TestEditFutureSplitsTheSeries(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("successor takes over from the split point", func(t *testing.T) {
		rule := midSeriesRule(userID)
		var persisted *recurring.RecurrenceRule
		var ended *recurring.RecurrenceRule
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
			createTxFn: func(ctx context.Context, tx interface{}, r *recurring.RecurrenceRule) error {
				persisted = r
				return nil
			},
			updateTxFn: func(ctx context.Context, tx interface{}, r *recurring.RecurrenceRule) error {
				ended = r
				return nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, &fakeCategoryValidator{})

		amount := decimal.RequireFromString("180.00")
		result, err := svc.EditFuture(ctx, rule.Id, userID, &recurring.EditFutureRequest{
			Amount: &amount,
		}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		original := result.Original
		if original.EndDate == nil || !original.EndDate.Equal(day(2024, time.March, 1)) {
			t.Fatalf("expected original ended exactly at the split point, got %v", original.EndDate)
		}
		if original.IsActive {
			t.Fatalf("expected original deactivated")
		}
		if original.RunCount != 2 || original.LastRunDate == nil {
			t.Fatalf("history must stay on the original, got runs=%d lastRun=%v", original.RunCount, original.LastRunDate)
		}

		successor := result.Successor
		if successor.Id == original.Id {
			t.Fatalf("successor must be a new rule")
		}
		if !successor.StartDate.Equal(day(2024, time.March, 1)) {
			t.Fatalf("expected successor starting at the split point, got %s", successor.StartDate.Format("2006-01-02"))
		}
		if !successor.NextRunDate.Equal(day(2024, time.April, 1)) {
			t.Fatalf("expected successor cursor strictly after the split point, got %s", successor.NextRunDate.Format("2006-01-02"))
		}
		if successor.RunCount != 0 || successor.LastRunDate != nil {
			t.Fatalf("successor must start with a clean history, got runs=%d lastRun=%v", successor.RunCount, successor.LastRunDate)
		}
		if successor.Template.Amount.String() != "180" {
			t.Fatalf("expected patched amount, got %s", successor.Template.Amount)
		}
		if successor.Template.Description != "Assinatura" {
			t.Fatalf("unpatched fields must be inherited, got %q", successor.Template.Description)
		}

		if persisted == nil || ended == nil {
			t.Fatalf("expected both rules written in the same transaction")
		}
		if repo.begins != 1 || repo.commits != 1 {
			t.Fatalf("expected one committed transaction, got begins=%d commits=%d", repo.begins, repo.commits)
		}
	})

	t.Run("keeping the current rule leaves both running", func(t *testing.T) {
		rule := midSeriesRule(userID)
		updatesInTx := 0
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
			updateTxFn: func(ctx context.Context, tx interface{}, r *recurring.RecurrenceRule) error {
				updatesInTx++
				return nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, &fakeCategoryValidator{})

		amount := decimal.RequireFromString("180.00")
		result, err := svc.EditFuture(ctx, rule.Id, userID, &recurring.EditFutureRequest{
			Amount: &amount,
		}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Original.IsActive || result.Original.EndDate != nil {
			t.Fatalf("original must keep running, got active=%v end=%v", result.Original.IsActive, result.Original.EndDate)
		}
		if updatesInTx != 0 {
			t.Fatalf("original must not be rewritten, got %d updates", updatesInTx)
		}
		if !result.Successor.IsActive {
			t.Fatalf("successor must be active")
		}
	})

	t.Run("changing the cadence reschedules the successor", func(t *testing.T) {
		rule := midSeriesRule(userID)
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, &fakeCategoryValidator{})

		frequency := recurring.FrequencyWeekly
		result, err := svc.EditFuture(ctx, rule.Id, userID, &recurring.EditFutureRequest{
			Frequency: &frequency,
		}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Successor.NextRunDate.Equal(day(2024, time.March, 8)) {
			t.Fatalf("expected weekly cursor on 2024-03-08, got %s", result.Successor.NextRunDate.Format("2006-01-02"))
		}
	})

	t.Run("successor born past its end date is inactive", func(t *testing.T) {
		rule := midSeriesRule(userID)
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, &fakeCategoryValidator{})

		endDate := day(2024, time.March, 1)
		result, err := svc.EditFuture(ctx, rule.Id, userID, &recurring.EditFutureRequest{
			EndDate: &endDate,
		}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Successor.IsActive {
			t.Fatalf("expected successor inactive, its cursor is already past the end date")
		}
	})

	t.Run("invalid patch aborts before persisting", func(t *testing.T) {
		rule := midSeriesRule(userID)
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, &fakeCategoryValidator{})

		amount := decimal.NewFromInt(-5)
		_, err := svc.EditFuture(ctx, rule.Id, userID, &recurring.EditFutureRequest{
			Amount: &amount,
		}, true)
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, _ := appErrors.AsAppError(err)
		if appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected validation error, got %s", appErr.Code)
		}
		if repo.begins != 0 {
			t.Fatalf("expected no database transaction, got %d", repo.begins)
		}
	})

	t.Run("new category is validated against the new flow", func(t *testing.T) {
		rule := midSeriesRule(userID)
		validator := &fakeCategoryValidator{}
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, validator)

		categoryID := ulid.Make()
		flow := transaction.Income
		if _, err := svc.EditFuture(ctx, rule.Id, userID, &recurring.EditFutureRequest{
			Type:       &flow,
			CategoryId: &categoryID,
		}, true); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if validator.calls != 1 {
			t.Fatalf("expected category validation, got %d calls", validator.calls)
		}
	})

	t.Run("clearing the category skips validation", func(t *testing.T) {
		rule := midSeriesRule(userID)
		validator := &fakeCategoryValidator{}
		repo := &fakeRuleRepository{
			getByIDFn: func(ctx context.Context, id ulid.ULID) (*recurring.RecurrenceRule, error) {
				return rule, nil
			},
		}
		svc := newTestService(repo, &fakeTransactionRepository{}, validator)

		result, err := svc.EditFuture(ctx, rule.Id, userID, &recurring.EditFutureRequest{
			ClearCategory: true,
		}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Successor.Template.CategoryId != nil {
			t.Fatalf("expected successor without category")
		}
		if validator.calls != 0 {
			t.Fatalf("expected no category validation, got %d calls", validator.calls)
		}
	})
}
