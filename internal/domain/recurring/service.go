package recurring

import (
	"context"
	"errors"
	"strings"
	"time"

	"Grana/internal/domain/shared"
	"Grana/internal/domain/transaction"
	appErrors "Grana/internal/errors"
	"Grana/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	Repository      Repository
	TransactionRepo transaction.Repository
	Categories      CategoryValidator
	shared.BaseService
}

func NewService(
	repo Repository,
	transactionRepo transaction.Repository,
	categories CategoryValidator,
	userChecker *shared.UserCheckerService,
) *Service {
	return &Service{
		Repository:      repo,
		TransactionRepo: transactionRepo,
		Categories:      categories,
		BaseService:     shared.BaseService{UserChecker: userChecker},
	}
}

func (s *Service) CreateRecurrence(ctx context.Context, req *CreateRecurrenceRequest) (*RecurrenceRule, error) {
	if err := s.EnsureUserExists(ctx, req.UserId); err != nil {
		return nil, err
	}

	if err := s.validateCreateRequest(ctx, req); err != nil {
		return nil, err
	}

	now := time.Now()
	startDate := pkg.DateOnly(req.StartDate)
	interval := req.Interval
	if interval < 1 {
		interval = 1
	}

	rule := &RecurrenceRule{
		Id:     pkg.GenerateULIDObject(),
		UserId: req.UserId,
		Template: TransactionTemplate{
			Type:          req.Type,
			Amount:        req.Amount.Round(2),
			Description:   strings.TrimSpace(req.Description),
			CategoryId:    req.CategoryId,
			Notes:         req.Notes,
			Tags:          datatypes.NewJSONSlice(req.Tags),
			PaymentMethod: strings.TrimSpace(req.PaymentMethod),
			Reference:     strings.TrimSpace(req.Reference),
		},
		Frequency:   req.Frequency,
		Interval:    interval,
		StartDate:   startDate,
		EndDate:     normalizeEndDate(req.EndDate),
		NextRunDate: startDate,
		IsActive:    true,
		RunCount:    0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Repository.Create(ctx, rule); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return rule, nil
}

// UpdateRecurrence altera apenas os campos descritivos da regra. Valor,
// fluxo, categoria e cadência mudam via EditFuture, que preserva o histórico
// dividindo a série no cursor.
func (s *Service) UpdateRecurrence(ctx context.Context, ruleID, userID ulid.ULID, req *UpdateRecurrenceRequest) (*RecurrenceRule, error) {
	rule, err := s.GetRecurrenceByID(ctx, ruleID, userID)
	if err != nil {
		return nil, err
	}

	if req.Description != nil {
		rule.Template.Description = strings.TrimSpace(*req.Description)
	}
	if req.Notes != nil {
		rule.Template.Notes = *req.Notes
	}
	if req.Tags != nil {
		rule.Template.Tags = datatypes.NewJSONSlice(*req.Tags)
	}
	if req.PaymentMethod != nil {
		rule.Template.PaymentMethod = strings.TrimSpace(*req.PaymentMethod)
	}
	if req.Reference != nil {
		rule.Template.Reference = strings.TrimSpace(*req.Reference)
	}

	if req.ClearEndDate {
		rule.EndDate = nil
	} else if req.EndDate != nil {
		endDate := pkg.DateOnly(*req.EndDate)
		if endDate.Before(rule.StartDate) {
			return nil, appErrors.NewValidationError("end_date", "não pode ser anterior à data inicial")
		}
		rule.EndDate = &endDate
	}

	// Encurtar a data final para antes do cursor encerra a regra.
	if rule.EndDate != nil && rule.NextRunDate.After(*rule.EndDate) {
		rule.IsActive = false
	}

	rule.UpdatedAt = time.Now()

	if err := s.Repository.Update(ctx, rule); err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return rule, nil
}

// DeleteRecurrence remove a regra sem tocar nas transações já materializadas.
func (s *Service) DeleteRecurrence(ctx context.Context, ruleID, userID ulid.ULID) error {
	if _, err := s.GetRecurrenceByID(ctx, ruleID, userID); err != nil {
		return err
	}

	if err := s.Repository.Delete(ctx, ruleID, userID); err != nil {
		return appErrors.NewDatabaseError(err)
	}

	return nil
}

func (s *Service) GetRecurrenceByID(ctx context.Context, ruleID, userID ulid.ULID) (*RecurrenceRule, error) {
	rule, err := s.Repository.GetByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrRecurrenceNotFound
		}
		return nil, appErrors.NewDatabaseError(err)
	}

	if rule.UserId != userID {
		return nil, appErrors.ErrResourceNotOwned
	}

	return rule, nil
}

func (s *Service) ListRecurrences(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*RecurrenceRule, int64, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	rules, total, err := s.Repository.GetByUserID(ctx, userID, pagination)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	return rules, total, nil
}

// Preview projeta as próximas ocorrências da regra sem materializar nada.
func (s *Service) Preview(ctx context.Context, ruleID, userID ulid.ULID, count int) ([]time.Time, error) {
	rule, err := s.GetRecurrenceByID(ctx, ruleID, userID)
	if err != nil {
		return nil, err
	}

	return PreviewOccurrences(rule, count), nil
}

func (s *Service) validateCreateRequest(ctx context.Context, req *CreateRecurrenceRequest) error {
	if !req.Type.IsValid() {
		return appErrors.NewValidationError("type", "deve ser INCOME ou EXPENSE")
	}

	if req.Amount.Sign() <= 0 {
		return appErrors.NewValidationError("amount", "deve ser maior que zero")
	}

	if !req.Frequency.IsValid() {
		return appErrors.NewValidationError("frequency", "frequência inválida")
	}

	if req.Frequency == FrequencyCustom && req.Interval < 1 {
		return appErrors.NewValidationError("interval", "deve ser maior ou igual a 1 para frequência CUSTOM")
	}

	if req.StartDate.IsZero() {
		return appErrors.NewValidationError("start_date", "é obrigatória")
	}

	if req.EndDate != nil && pkg.DateOnly(*req.EndDate).Before(pkg.DateOnly(req.StartDate)) {
		return appErrors.NewValidationError("end_date", "não pode ser anterior à data inicial")
	}

	if req.CategoryId != nil {
		if err := s.Categories.ValidateForTemplate(ctx, req.UserId, *req.CategoryId, req.Type); err != nil {
			return err
		}
	}

	return nil
}

func normalizeEndDate(endDate *time.Time) *time.Time {
	if endDate == nil {
		return nil
	}
	normalized := pkg.DateOnly(*endDate)
	return &normalized
}

type CreateRecurrenceRequest struct {
	UserId        ulid.ULID
	Type          transaction.Types
	Amount        decimal.Decimal
	Description   string
	CategoryId    *ulid.ULID
	Notes         string
	Tags          []string
	PaymentMethod string
	Reference     string
	Frequency     FrequencyType
	Interval      int
	StartDate     time.Time
	EndDate       *time.Time
}

type UpdateRecurrenceRequest struct {
	Description   *string
	Notes         *string
	Tags          *[]string
	PaymentMethod *string
	Reference     *string
	EndDate       *time.Time
	ClearEndDate  bool
}
