package contracts

import (
	"time"

	"Grana/internal/domain/recurring"
	"Grana/internal/domain/transaction"

	"github.com/shopspring/decimal"
)

type RecurrenceCreateRequest struct {
	Type          string          `json:"type" binding:"required,oneof=INCOME EXPENSE"`
	CategoryId    string          `json:"category_id" binding:"omitempty,len=26"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"omitempty,max=255"`
	Notes         string          `json:"notes" binding:"omitempty,max=500"`
	Tags          []string        `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,max=50"`
	Reference     string          `json:"reference" binding:"omitempty,max=100"`
	Frequency     string          `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY YEARLY CUSTOM"`
	Interval      int             `json:"interval" binding:"omitempty,min=1"`
	StartDate     time.Time       `json:"start_date" binding:"required"`
	EndDate       *time.Time      `json:"end_date" binding:"omitempty"`
}

// RecurrenceUpdateRequest cobre apenas os campos descritivos. Valor, fluxo,
// categoria e cadência mudam pela rota de divisão da série.
type RecurrenceUpdateRequest struct {
	Description   *string    `json:"description" binding:"omitempty,max=255"`
	Notes         *string    `json:"notes" binding:"omitempty,max=500"`
	Tags          *[]string  `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	PaymentMethod *string    `json:"payment_method" binding:"omitempty,max=50"`
	Reference     *string    `json:"reference" binding:"omitempty,max=100"`
	EndDate       *time.Time `json:"end_date" binding:"omitempty"`
	ClearEndDate  bool       `json:"clear_end_date" binding:"omitempty"`
}

// RecurrenceSplitRequest traz os novos termos da sucessora; campos ausentes
// herdam os da regra original. EndCurrent omitido encerra a original.
type RecurrenceSplitRequest struct {
	Type          *string          `json:"type" binding:"omitempty,oneof=INCOME EXPENSE"`
	Amount        *decimal.Decimal `json:"amount" binding:"omitempty"`
	Description   *string          `json:"description" binding:"omitempty,max=255"`
	CategoryId    *string          `json:"category_id" binding:"omitempty,len=26"`
	ClearCategory bool             `json:"clear_category" binding:"omitempty"`
	Notes         *string          `json:"notes" binding:"omitempty,max=500"`
	Tags          *[]string        `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	PaymentMethod *string          `json:"payment_method" binding:"omitempty,max=50"`
	Reference     *string          `json:"reference" binding:"omitempty,max=100"`
	Frequency     *string          `json:"frequency" binding:"omitempty,oneof=DAILY WEEKLY MONTHLY YEARLY CUSTOM"`
	Interval      *int             `json:"interval" binding:"omitempty,min=1"`
	EndDate       *time.Time       `json:"end_date" binding:"omitempty"`
	ClearEndDate  bool             `json:"clear_end_date" binding:"omitempty"`
	IsActive      *bool            `json:"is_active" binding:"omitempty"`
	EndCurrent    *bool            `json:"end_current" binding:"omitempty"`
}

type RecurrenceGenerateRequest struct {
	GenerateUntilDate *time.Time `json:"generate_until_date" binding:"omitempty"`
}

// RecurrenceView embute a regra e anexa a cadência em RRULE para clientes de
// calendário.
type RecurrenceView struct {
	*recurring.RecurrenceRule
	RRule string `json:"rrule,omitempty"`
}

func NewRecurrenceView(rule *recurring.RecurrenceRule) *RecurrenceView {
	if rule == nil {
		return nil
	}
	return &RecurrenceView{RecurrenceRule: rule, RRule: rule.RRuleString()}
}

type RecurrenceCreateResponse struct {
	Message    string          `json:"message"`
	Recurrence *RecurrenceView `json:"recurrence"`
}

type RecurrenceSingleResponse struct {
	Recurrence *RecurrenceView `json:"recurrence"`
}

type RecurrenceActionResponse struct {
	Message    string          `json:"message"`
	Recurrence *RecurrenceView `json:"recurrence"`
}

type RecurrenceSplitResponse struct {
	Message   string          `json:"message"`
	Original  *RecurrenceView `json:"original"`
	Successor *RecurrenceView `json:"successor"`
}

type RecurrenceGenerateResponse struct {
	Message      string                     `json:"message"`
	Generated    int                        `json:"generated"`
	Transactions []*transaction.Transaction `json:"transactions"`
	Recurrence   *RecurrenceView            `json:"recurrence"`
}

type RecurrencePreviewResponse struct {
	RuleId      string      `json:"ruleId"`
	Occurrences []time.Time `json:"occurrences"`
}
