package transaction

import (
	"context"
	"time"

	"Grana/internal/pkg"

	"github.com/oklog/ulid/v2"
)

// Filters restringe listagens e exportações de transações.
type Filters struct {
	Type             *Types
	CategoryId       *ulid.ULID
	RecurrenceRuleId *ulid.ULID
	From             *time.Time
	To               *time.Time
}

type Repository interface {
	Create(ctx context.Context, transaction *Transaction) error
	CreateWithTx(ctx context.Context, tx interface{}, transaction *Transaction) error
	Update(ctx context.Context, transaction *Transaction) error
	Delete(ctx context.Context, transactionID ulid.ULID) error
	GetByIDAndUser(ctx context.Context, transactionID, userID ulid.ULID) (*Transaction, error)
	GetAll(ctx context.Context, userID ulid.ULID, filters *Filters, pagination *pkg.PaginationParams) ([]*Transaction, int64, error)
	GetAllForExport(ctx context.Context, userID ulid.ULID, filters *Filters) ([]*Transaction, error)
	GetByRecurrenceRule(ctx context.Context, ruleID, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Transaction, int64, error)
}
