package recurring

import (
	"context"

	"Grana/internal/domain/transaction"

	"github.com/oklog/ulid/v2"
)

// CategoryValidator é o que este domínio exige do domínio de categorias:
// garantir que a categoria do molde existe, pertence ao usuário e é do mesmo
// fluxo (receita ou despesa) que o molde.
type CategoryValidator interface {
	ValidateForTemplate(ctx context.Context, userID, categoryID ulid.ULID, flow transaction.Types) error
}
