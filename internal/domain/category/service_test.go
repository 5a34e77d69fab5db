package category_test

import (
	"context"
	"errors"
	"testing"

	"Grana/internal/domain/category"
	"Grana/internal/domain/shared"
	"Grana/internal/domain/transaction"
	appErrors "Grana/internal/errors"
	"Grana/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type fakeCategoryRepository struct {
	createFn    func(ctx context.Context, c *category.Category) error
	updateFn    func(ctx context.Context, c *category.Category) error
	deleteFn    func(ctx context.Context, categoryID, userID ulid.ULID) error
	getByIDFn   func(ctx context.Context, categoryID, userID ulid.ULID) (*category.Category, error)
	getByUserFn func(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*category.Category, int64, error)
	getByNameFn func(ctx context.Context, name string, userID ulid.ULID) (*category.Category, error)
}

func (f *fakeCategoryRepository) Create(ctx context.Context, c *category.Category) error {
	if f.createFn != nil {
		return f.createFn(ctx, c)
	}
	return nil
}

func (f *fakeCategoryRepository) Update(ctx context.Context, c *category.Category) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, c)
	}
	return nil
}

func (f *fakeCategoryRepository) Delete(ctx context.Context, categoryID, userID ulid.ULID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, categoryID, userID)
	}
	return nil
}

func (f *fakeCategoryRepository) GetByID(ctx context.Context, categoryID, userID ulid.ULID) (*category.Category, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, categoryID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCategoryRepository) GetByUserID(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*category.Category, int64, error) {
	if f.getByUserFn != nil {
		return f.getByUserFn(ctx, userID, pagination)
	}
	return nil, 0, nil
}

func (f *fakeCategoryRepository) GetByName(ctx context.Context, name string, userID ulid.ULID) (*category.Category, error) {
	if f.getByNameFn != nil {
		return f.getByNameFn(ctx, name, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeUserGetter struct{}

func (f *fakeUserGetter) Exists(ctx context.Context, userID ulid.ULID) error { return nil }
func (f *fakeUserGetter) GetByID(ctx context.Context, userID ulid.ULID) (interface{}, error) {
	return nil, nil
}

func newTestService(repo category.Repository) category.Service {
	return category.Service{
		Repository: repo,
		BaseService: shared.BaseService{
			UserChecker: shared.NewUserCheckerService(&fakeUserGetter{}),
		},
	}
}

func TestServiceCreate(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	ctx := context.Background()

	t.Run("normalizes the name", func(t *testing.T) {
		var created *category.Category
		repo := &fakeCategoryRepository{
			createFn: func(ctx context.Context, c *category.Category) error {
				created = c
				return nil
			},
		}
		svc := newTestService(repo)

		err := svc.Create(ctx, &category.Category{
			UserId: userID,
			Name:   "  contas   FIXAS ",
			Type:   transaction.Expense,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created == nil {
			t.Fatalf("expected category persisted")
		}
		if created.Name != "Contas Fixas" {
			t.Fatalf("expected normalized name, got %q", created.Name)
		}
		if pkg.IsEmptyULID(created.Id) {
			t.Fatalf("expected generated id")
		}
	})

	t.Run("duplicate name is a conflict", func(t *testing.T) {
		repo := &fakeCategoryRepository{
			getByNameFn: func(ctx context.Context, name string, userID ulid.ULID) (*category.Category, error) {
				return &category.Category{Name: name}, nil
			},
		}
		svc := newTestService(repo)

		err := svc.Create(ctx, &category.Category{
			UserId: userID,
			Name:   "Contas",
			Type:   transaction.Expense,
		})
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, _ := appErrors.AsAppError(err)
		if appErr.Code != "CONFLICT" {
			t.Fatalf("expected conflict, got %s", appErr.Code)
		}
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		svc := newTestService(&fakeCategoryRepository{})

		err := svc.Create(ctx, &category.Category{
			UserId: userID,
			Name:   "   ",
			Type:   transaction.Expense,
		})
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, _ := appErrors.AsAppError(err)
		if appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected validation error, got %s", appErr.Code)
		}
	})
}

func TestServiceValidateForTemplate(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()
	categoryID := ulid.Make()
	ctx := context.Background()

	t.Run("flow mismatch", func(t *testing.T) {
		repo := &fakeCategoryRepository{
			getByIDFn: func(ctx context.Context, id, uid ulid.ULID) (*category.Category, error) {
				return &category.Category{Id: id, UserId: uid, Name: "Salário", Type: transaction.Income}, nil
			},
		}
		svc := newTestService(repo)

		err := svc.ValidateForTemplate(ctx, userID, categoryID, transaction.Expense)
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, _ := appErrors.AsAppError(err)
		if appErr.Code != "VALIDATION_ERROR" {
			t.Fatalf("expected validation error, got %s", appErr.Code)
		}
		if appErr.Details["categoryType"] != transaction.Income {
			t.Fatalf("expected mismatch details, got %v", appErr.Details)
		}
	})

	t.Run("matching flow passes", func(t *testing.T) {
		repo := &fakeCategoryRepository{
			getByIDFn: func(ctx context.Context, id, uid ulid.ULID) (*category.Category, error) {
				return &category.Category{Id: id, UserId: uid, Name: "Contas", Type: transaction.Expense}, nil
			},
		}
		svc := newTestService(repo)

		if err := svc.ValidateForTemplate(ctx, userID, categoryID, transaction.Expense); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("missing category", func(t *testing.T) {
		svc := newTestService(&fakeCategoryRepository{})

		err := svc.ValidateForTemplate(ctx, userID, categoryID, transaction.Expense)
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, _ := appErrors.AsAppError(err)
		if appErr.Code != appErrors.ErrCategoryNotFound.Code {
			t.Fatalf("expected %s, got %s", appErrors.ErrCategoryNotFound.Code, appErr.Code)
		}
	})
}

func TestServiceCreateDefaults(t *testing.T) {
	t.Parallel()

	userID := ulid.Make()

	var names []string
	repo := &fakeCategoryRepository{
		createFn: func(ctx context.Context, c *category.Category) error {
			if c.Name == "Transporte" {
				return errors.New(`duplicate key value violates unique constraint "idx_categories_user_name"`)
			}
			names = append(names, c.Name)
			return nil
		},
	}
	svc := newTestService(repo)

	if err := svc.CreateDefaults(context.Background(), userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != len(category.DefaultCategories)-1 {
		t.Fatalf("expected conflicts skipped and the rest created, got %d of %d", len(names), len(category.DefaultCategories))
	}
}
