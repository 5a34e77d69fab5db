package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Grana/internal/domain/transaction"
	appErrors "Grana/internal/errors"
	"Grana/internal/logger"
	"Grana/internal/observability"
	"Grana/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type GenerationResult struct {
	Rule         *RecurrenceRule            `json:"rule"`
	Generated    int                        `json:"generated"`
	Transactions []*transaction.Transaction `json:"transactions"`
}

type RuleFailure struct {
	RuleId ulid.ULID `json:"ruleId"`
	Error  string    `json:"error"`
}

type BatchResult struct {
	Processed int           `json:"processed"`
	Generated int           `json:"generated"`
	Failures  []RuleFailure `json:"failures,omitempty"`
}

// Generate materializa todas as ocorrências vencidas de uma regra até asOf,
// inclusive. A chamada é idempotente: o cursor só anda para frente, então
// repetir a mesma data não produz transações duplicadas.
func (s *Service) Generate(ctx context.Context, ruleID, userID ulid.ULID, asOf time.Time) (*GenerationResult, error) {
	rule, err := s.GetRecurrenceByID(ctx, ruleID, userID)
	if err != nil {
		return nil, err
	}

	return s.generate(ctx, rule, asOf)
}

// GenerateDue processa todas as regras vencidas de todos os usuários. A falha
// em uma regra é registrada e não interrompe as demais.
func (s *Service) GenerateDue(ctx context.Context, asOf time.Time) (*BatchResult, error) {
	asOf = pkg.DateOnly(asOf)

	rules, err := s.Repository.GetDue(ctx, asOf)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	result := &BatchResult{}
	for _, rule := range rules {
		result.Processed++

		out, err := s.generate(ctx, rule, asOf)
		if err != nil {
			result.Failures = append(result.Failures, RuleFailure{RuleId: rule.Id, Error: err.Error()})
			observability.RecordGenerationFailure()
			logger.Error().
				Err(err).
				Str("rule_id", rule.Id.String()).
				Str("user_id", rule.UserId.String()).
				Msg("Falha ao gerar transações da recorrência")
			continue
		}

		result.Generated += out.Generated
	}

	return result, nil
}

// generate percorre o calendário da regra do cursor até asOf e grava, em uma
// única transação de banco, os lançamentos materializados e o novo estado da
// regra. O estado só é gravado se o cursor no banco ainda for o mesmo lido
// aqui; caso contrário outra geração venceu a corrida e nada é alterado.
func (s *Service) generate(ctx context.Context, rule *RecurrenceRule, asOf time.Time) (*GenerationResult, error) {
	if !rule.IsActive {
		return nil, appErrors.ErrRecurrenceInactive
	}

	asOf = pkg.DateOnly(asOf)
	prevCursor := pkg.DateOnly(rule.NextRunDate)
	cursor := prevCursor
	active := true
	now := time.Now()

	var generated []*transaction.Transaction
	for !cursor.After(asOf) {
		if rule.EndDate != nil && cursor.After(*rule.EndDate) {
			active = false
			break
		}

		if cursor.Before(rule.StartDate) {
			next, err := advanceCursor(rule, cursor)
			if err != nil {
				return nil, err
			}
			cursor = next
			continue
		}

		generated = append(generated, materialize(rule, cursor, now))
		lastRun := cursor
		rule.LastRunDate = &lastRun
		rule.RunCount++

		next, err := advanceCursor(rule, cursor)
		if err != nil {
			return nil, err
		}
		cursor = next
		if rule.EndDate != nil && cursor.After(*rule.EndDate) {
			active = false
			break
		}
	}

	changed := len(generated) > 0 || !cursor.Equal(prevCursor) || !active
	if !changed {
		return &GenerationResult{Rule: rule, Generated: 0}, nil
	}

	rule.NextRunDate = cursor
	rule.IsActive = active
	rule.UpdatedAt = now

	tx, err := s.Repository.BeginTx(ctx)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	for _, t := range generated {
		if err := s.TransactionRepo.CreateWithTx(ctx, tx, t); err != nil {
			_ = s.Repository.RollbackTx(tx)
			return nil, appErrors.NewDatabaseError(err)
		}
	}

	if err := s.Repository.AdvanceWithTx(ctx, tx, rule, prevCursor); err != nil {
		_ = s.Repository.RollbackTx(tx)
		if errors.Is(err, ErrCursorMoved) {
			observability.RecordCursorConflict()
			return nil, appErrors.ErrConcurrentGeneration
		}
		return nil, appErrors.NewDatabaseError(err)
	}

	if err := s.Repository.CommitTx(tx); err != nil {
		_ = s.Repository.RollbackTx(tx)
		return nil, appErrors.NewDatabaseError(err)
	}

	observability.RecordGenerated(len(generated))

	return &GenerationResult{
		Rule:         rule,
		Generated:    len(generated),
		Transactions: generated,
	}, nil
}

// advanceCursor falha em vez de devolver um cursor que não anda quando a
// frequência gravada na regra é inválida.
func advanceCursor(rule *RecurrenceRule, cursor time.Time) (time.Time, error) {
	next := NextOccurrence(rule.Frequency, rule.Interval, cursor)
	if !next.After(cursor) {
		return time.Time{}, appErrors.ErrInternalServer.WithError(
			fmt.Errorf("frequência inválida %q na regra %s", rule.Frequency, rule.Id))
	}
	return next, nil
}

// materialize copia o molde da regra em uma transação datada na ocorrência.
// A transação resultante é comum: editar ou excluir depois não afeta a regra.
func materialize(rule *RecurrenceRule, occurrence time.Time, now time.Time) *transaction.Transaction {
	ruleID := rule.Id

	var categoryID *ulid.ULID
	if rule.Template.CategoryId != nil {
		c := *rule.Template.CategoryId
		categoryID = &c
	}

	return &transaction.Transaction{
		Id:               pkg.GenerateULIDObject(),
		UserId:           rule.UserId,
		Type:             rule.Template.Type,
		CategoryId:       categoryID,
		RecurrenceRuleId: &ruleID,
		Amount:           rule.Template.Amount,
		Description:      rule.Template.Description,
		Notes:            rule.Template.Notes,
		Tags:             rule.Template.Tags,
		PaymentMethod:    rule.Template.PaymentMethod,
		Reference:        rule.Template.Reference,
		Date:             occurrence,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
