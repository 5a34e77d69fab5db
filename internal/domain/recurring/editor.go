package recurring

import (
	"context"
	"strings"
	"time"

	"Grana/internal/domain/transaction"
	appErrors "Grana/internal/errors"
	"Grana/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Pause suspende a geração sem tocar no cursor. Pausar uma regra já pausada
// não tem efeito.
func (s *Service) Pause(ctx context.Context, ruleID, userID ulid.ULID) (*RecurrenceRule, error) {
	rule, err := s.GetRecurrenceByID(ctx, ruleID, userID)
	if err != nil {
		return nil, err
	}

	if !rule.IsActive {
		return rule, nil
	}

	rule.IsActive = false
	rule.UpdatedAt = time.Now()

	if err := s.Repository.Update(ctx, rule); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return rule, nil
}

// Resume reativa a regra com o cursor exatamente onde parou: as ocorrências
// acumuladas durante a pausa serão materializadas na próxima geração. Uma
// regra cujo cursor já ultrapassou a data final não pode ser retomada.
func (s *Service) Resume(ctx context.Context, ruleID, userID ulid.ULID) (*RecurrenceRule, error) {
	rule, err := s.GetRecurrenceByID(ctx, ruleID, userID)
	if err != nil {
		return nil, err
	}

	if rule.IsActive {
		return rule, nil
	}

	if rule.EndDate != nil && rule.NextRunDate.After(*rule.EndDate) {
		return nil, appErrors.NewValidationError("end_date", "recorrência já ultrapassou a data final e não pode ser retomada")
	}

	rule.IsActive = true
	rule.UpdatedAt = time.Now()

	if err := s.Repository.Update(ctx, rule); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return rule, nil
}

// SkipNext avança o cursor por cima da próxima ocorrência sem materializá-la.
// Se o salto ultrapassar a data final, a regra é encerrada.
func (s *Service) SkipNext(ctx context.Context, ruleID, userID ulid.ULID) (*RecurrenceRule, error) {
	rule, err := s.GetRecurrenceByID(ctx, ruleID, userID)
	if err != nil {
		return nil, err
	}

	if !rule.IsActive {
		return nil, appErrors.ErrRecurrenceInactive
	}

	next, err := advanceCursor(rule, rule.NextRunDate)
	if err != nil {
		return nil, err
	}
	rule.NextRunDate = next
	if rule.EndDate != nil && rule.NextRunDate.After(*rule.EndDate) {
		rule.IsActive = false
	}
	rule.UpdatedAt = time.Now()

	if err := s.Repository.Update(ctx, rule); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return rule, nil
}

type SplitResult struct {
	Original  *RecurrenceRule `json:"original"`
	Successor *RecurrenceRule `json:"successor"`
}

// EditFuture muda os termos da série apenas daqui em diante, dividindo-a no
// cursor: nasce uma regra sucessora com os novos termos, iniciada no ponto de
// divisão e agendada para a primeira ocorrência estritamente posterior a ele.
// O histórico (lastRunDate, runCount e transações já materializadas) permanece
// na regra original, que com endCurrent é encerrada no próprio ponto de
// divisão. Com endCurrent falso as duas regras seguem vivas em paralelo.
func (s *Service) EditFuture(ctx context.Context, ruleID, userID ulid.ULID, req *EditFutureRequest, endCurrent bool) (*SplitResult, error) {
	rule, err := s.GetRecurrenceByID(ctx, ruleID, userID)
	if err != nil {
		return nil, err
	}

	splitPoint := pkg.DateOnly(rule.NextRunDate)
	now := time.Now()

	successor := &RecurrenceRule{
		Id:        pkg.GenerateULIDObject(),
		UserId:    rule.UserId,
		Template:  cloneTemplate(rule.Template),
		Frequency: rule.Frequency,
		Interval:  rule.Interval,
		StartDate: splitPoint,
		EndDate:   cloneDate(rule.EndDate),
		IsActive:  rule.IsActive,
		RunCount:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	applyEdit(successor, req)

	if err := s.validateSuccessor(ctx, successor); err != nil {
		return nil, err
	}

	successor.NextRunDate = NextOccurrence(successor.Frequency, successor.Interval, splitPoint)
	if successor.EndDate != nil && successor.NextRunDate.After(*successor.EndDate) {
		successor.IsActive = false
	}

	if endCurrent {
		endDate := splitPoint
		rule.EndDate = &endDate
		rule.IsActive = false
		rule.UpdatedAt = now
	}

	tx, err := s.Repository.BeginTx(ctx)
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	if endCurrent {
		if err := s.Repository.UpdateWithTx(ctx, tx, rule); err != nil {
			_ = s.Repository.RollbackTx(tx)
			return nil, appErrors.NewDatabaseError(err)
		}
	}

	if err := s.Repository.CreateWithTx(ctx, tx, successor); err != nil {
		_ = s.Repository.RollbackTx(tx)
		return nil, appErrors.NewDatabaseError(err)
	}

	if err := s.Repository.CommitTx(tx); err != nil {
		_ = s.Repository.RollbackTx(tx)
		return nil, appErrors.NewDatabaseError(err)
	}

	return &SplitResult{Original: rule, Successor: successor}, nil
}

func applyEdit(successor *RecurrenceRule, req *EditFutureRequest) {
	if req.Type != nil {
		successor.Template.Type = *req.Type
	}
	if req.Amount != nil {
		successor.Template.Amount = req.Amount.Round(2)
	}
	if req.Description != nil {
		successor.Template.Description = strings.TrimSpace(*req.Description)
	}
	if req.ClearCategory {
		successor.Template.CategoryId = nil
	} else if req.CategoryId != nil {
		categoryID := *req.CategoryId
		successor.Template.CategoryId = &categoryID
	}
	if req.Notes != nil {
		successor.Template.Notes = *req.Notes
	}
	if req.Tags != nil {
		successor.Template.Tags = datatypes.NewJSONSlice(*req.Tags)
	}
	if req.PaymentMethod != nil {
		successor.Template.PaymentMethod = strings.TrimSpace(*req.PaymentMethod)
	}
	if req.Reference != nil {
		successor.Template.Reference = strings.TrimSpace(*req.Reference)
	}
	if req.Frequency != nil {
		successor.Frequency = *req.Frequency
	}
	if req.Interval != nil {
		successor.Interval = *req.Interval
	}
	if req.ClearEndDate {
		successor.EndDate = nil
	} else if req.EndDate != nil {
		successor.EndDate = normalizeEndDate(req.EndDate)
	}
	if req.IsActive != nil {
		successor.IsActive = *req.IsActive
	}
}

func (s *Service) validateSuccessor(ctx context.Context, successor *RecurrenceRule) error {
	if !successor.Template.Type.IsValid() {
		return appErrors.NewValidationError("type", "deve ser INCOME ou EXPENSE")
	}

	if successor.Template.Amount.Sign() <= 0 {
		return appErrors.NewValidationError("amount", "deve ser maior que zero")
	}

	if !successor.Frequency.IsValid() {
		return appErrors.NewValidationError("frequency", "frequência inválida")
	}

	if successor.Frequency == FrequencyCustom && successor.Interval < 1 {
		return appErrors.NewValidationError("interval", "deve ser maior ou igual a 1 para frequência CUSTOM")
	}
	if successor.Interval < 1 {
		successor.Interval = 1
	}

	if successor.EndDate != nil && successor.EndDate.Before(successor.StartDate) {
		return appErrors.NewValidationError("end_date", "não pode ser anterior ao ponto de divisão")
	}

	if successor.Template.CategoryId != nil {
		if err := s.Categories.ValidateForTemplate(ctx, successor.UserId, *successor.Template.CategoryId, successor.Template.Type); err != nil {
			return err
		}
	}

	return nil
}

func cloneTemplate(template TransactionTemplate) TransactionTemplate {
	clone := template
	if template.CategoryId != nil {
		categoryID := *template.CategoryId
		clone.CategoryId = &categoryID
	}
	if template.Tags != nil {
		clone.Tags = datatypes.NewJSONSlice(append([]string(nil), template.Tags...))
	}
	return clone
}

func cloneDate(date *time.Time) *time.Time {
	if date == nil {
		return nil
	}
	clone := *date
	return &clone
}

type EditFutureRequest struct {
	Type          *transaction.Types
	Amount        *decimal.Decimal
	Description   *string
	CategoryId    *ulid.ULID
	ClearCategory bool
	Notes         *string
	Tags          *[]string
	PaymentMethod *string
	Reference     *string
	Frequency     *FrequencyType
	Interval      *int
	EndDate       *time.Time
	ClearEndDate  bool
	IsActive      *bool
}
