package transaction

import (
	"context"

	"github.com/oklog/ulid/v2"
)

// CategoryChecker é o contrato mínimo que este domínio exige do domínio de
// categorias: confirmar que a categoria existe e pertence ao usuário.
type CategoryChecker interface {
	EnsureExists(ctx context.Context, categoryID, userID ulid.ULID) error
}
