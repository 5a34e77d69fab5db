package transaction

import (
	"context"
	"time"

	"Grana/internal/domain/shared"
	appErrors "Grana/internal/errors"
	"Grana/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Service struct {
	Repository Repository
	Categories CategoryChecker
	shared.BaseService
}

func NewService(repo Repository, categories CategoryChecker, userChecker *shared.UserCheckerService) *Service {
	return &Service{
		Repository:  repo,
		Categories:  categories,
		BaseService: shared.BaseService{UserChecker: userChecker},
	}
}

func (s *Service) CreateTransaction(ctx context.Context, transaction *Transaction) error {
	if err := s.EnsureUserExists(ctx, transaction.UserId); err != nil {
		return err
	}

	if err := s.validateTransaction(ctx, transaction); err != nil {
		return err
	}

	TransactionCreateStruct(transaction)

	if err := s.Repository.Create(ctx, transaction); err != nil {
		return appErrors.NewDatabaseError(err)
	}

	return nil
}

func (s *Service) UpdateTransaction(ctx context.Context, transaction *Transaction) error {
	if err := s.EnsureUserExists(ctx, transaction.UserId); err != nil {
		return err
	}

	storedTransaction, err := s.GetTransactionByID(ctx, transaction.Id, transaction.UserId)
	if err != nil {
		return err
	}

	if transaction.Date.IsZero() {
		transaction.Date = storedTransaction.Date
	}

	if err := s.validateTransaction(ctx, transaction); err != nil {
		return err
	}

	storedTransaction.Type = transaction.Type
	storedTransaction.CategoryId = transaction.CategoryId
	storedTransaction.Amount = transaction.Amount.Round(2)
	storedTransaction.Description = transaction.Description
	storedTransaction.Notes = transaction.Notes
	storedTransaction.Tags = transaction.Tags
	storedTransaction.PaymentMethod = transaction.PaymentMethod
	storedTransaction.Reference = transaction.Reference
	storedTransaction.Date = pkg.DateOnly(transaction.Date)
	storedTransaction.UpdatedAt = time.Now()

	if err := s.Repository.Update(ctx, storedTransaction); err != nil {
		return appErrors.NewDatabaseError(err)
	}

	return nil
}

func (s *Service) DeleteTransaction(ctx context.Context, transactionID ulid.ULID, userID ulid.ULID) error {
	if _, err := s.GetTransactionByID(ctx, transactionID, userID); err != nil {
		return err
	}

	if err := s.Repository.Delete(ctx, transactionID); err != nil {
		return appErrors.NewDatabaseError(err)
	}

	return nil
}

func (s *Service) GetTransactionByID(ctx context.Context, transactionID ulid.ULID, userID ulid.ULID) (*Transaction, error) {
	transaction, err := s.Repository.GetByIDAndUser(ctx, transactionID, userID)
	if err != nil {
		if appErr, ok := appErrors.AsAppError(err); ok {
			return nil, appErr
		}
		return nil, appErrors.NewDatabaseError(err)
	}
	return transaction, nil
}

func (s *Service) GetAllTransactions(ctx context.Context, userID ulid.ULID, filters *Filters, pagination *pkg.PaginationParams) ([]*Transaction, int64, error) {
	transactions, total, err := s.Repository.GetAll(ctx, userID, filters, pagination)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return transactions, total, nil
}

// GetTransactionsByRecurrence lista as transações materializadas a partir de
// uma regra de recorrência, mais recentes primeiro.
func (s *Service) GetTransactionsByRecurrence(ctx context.Context, ruleID, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Transaction, int64, error) {
	transactions, total, err := s.Repository.GetByRecurrenceRule(ctx, ruleID, userID, pagination)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}
	return transactions, total, nil
}

func (s *Service) validateTransaction(ctx context.Context, transaction *Transaction) error {
	if !transaction.Type.IsValid() {
		return appErrors.NewValidationError("type", "deve ser INCOME ou EXPENSE")
	}

	if transaction.Amount.Sign() <= 0 {
		return appErrors.NewValidationError("amount", "deve ser maior que zero")
	}

	if transaction.Date.IsZero() {
		return appErrors.NewValidationError("date", "é obrigatória")
	}

	if transaction.CategoryId != nil {
		if err := s.Categories.EnsureExists(ctx, *transaction.CategoryId, transaction.UserId); err != nil {
			return err
		}
	}

	return nil
}

func TransactionCreateStruct(transaction *Transaction) {
	transaction.Id = pkg.GenerateULIDObject()
	transaction.Amount = transaction.Amount.Round(2)
	transaction.Date = pkg.DateOnly(transaction.Date)
	now := time.Now()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now
}
