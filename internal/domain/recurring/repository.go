package recurring

import (
	"context"
	"errors"
	"time"

	"Grana/internal/pkg"

	"github.com/oklog/ulid/v2"
)

// ErrCursorMoved indica que o avanço condicional do cursor não encontrou a
// regra com o cursor esperado: outra geração concorrente já a processou.
var ErrCursorMoved = errors.New("cursor da recorrência foi movido por outra geração")

type Repository interface {
	Create(ctx context.Context, rule *RecurrenceRule) error
	Update(ctx context.Context, rule *RecurrenceRule) error
	Delete(ctx context.Context, ruleID, userID ulid.ULID) error
	GetByID(ctx context.Context, ruleID ulid.ULID) (*RecurrenceRule, error)
	GetByUserID(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*RecurrenceRule, int64, error)

	// GetDue devolve, para todos os usuários, as regras ativas com cursor
	// vencido em relação a asOf e data final ainda não ultrapassada.
	GetDue(ctx context.Context, asOf time.Time) ([]*RecurrenceRule, error)

	// Advance grava o resultado de uma geração com comparação do cursor:
	// a atualização só acontece se next_run_date ainda for prevCursor.
	// Devolve ErrCursorMoved quando nenhuma linha é afetada.
	AdvanceWithTx(ctx context.Context, tx interface{}, rule *RecurrenceRule, prevCursor time.Time) error
	CreateWithTx(ctx context.Context, tx interface{}, rule *RecurrenceRule) error
	UpdateWithTx(ctx context.Context, tx interface{}, rule *RecurrenceRule) error

	BeginTx(ctx context.Context) (interface{}, error)
	CommitTx(tx interface{}) error
	RollbackTx(tx interface{}) error
}
