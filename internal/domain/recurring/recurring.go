package recurring

import (
	"time"

	"Grana/internal/domain/transaction"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionTemplate é o molde copiado para cada transação materializada a
// partir da regra. Alterações no molde valem apenas para ocorrências futuras.
type TransactionTemplate struct {
	Type          transaction.Types           `gorm:"column:type;type:varchar(10);not null" json:"type"`
	Amount        decimal.Decimal             `gorm:"column:amount;type:decimal(15,2);not null" json:"amount"`
	Description   string                      `gorm:"column:description;type:varchar(255)" json:"description"`
	CategoryId    *ulid.ULID                  `gorm:"column:category_id;type:varchar(26)" json:"categoryId,omitempty"`
	Notes         string                      `gorm:"column:notes;type:varchar(500)" json:"notes,omitempty"`
	Tags          datatypes.JSONSlice[string] `gorm:"column:tags;type:jsonb" json:"tags,omitempty"`
	PaymentMethod string                      `gorm:"column:payment_method;type:varchar(50)" json:"paymentMethod,omitempty"`
	Reference     string                      `gorm:"column:reference;type:varchar(100)" json:"reference,omitempty"`
}

// RecurrenceRule descreve uma transação que se repete. NextRunDate é o cursor
// da regra: a primeira ocorrência ainda não materializada. A geração avança o
// cursor e nunca o recua, o que torna o reprocessamento idempotente.
type RecurrenceRule struct {
	Id          ulid.ULID           `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId      ulid.ULID           `gorm:"type:varchar(26);index:idx_recurrence_rules_user_id;not null" json:"userId"`
	Template    TransactionTemplate `gorm:"embedded;embeddedPrefix:template_" json:"template"`
	Frequency   FrequencyType       `gorm:"type:varchar(20);not null" json:"frequency"`
	Interval    int                 `gorm:"not null;default:1" json:"interval"`
	StartDate   time.Time           `gorm:"type:date;not null" json:"startDate"`
	EndDate     *time.Time          `gorm:"type:date" json:"endDate,omitempty"`
	NextRunDate time.Time           `gorm:"type:date;not null;index:idx_recurrence_rules_next_run" json:"nextRunDate"`
	IsActive    bool                `gorm:"not null;default:true;index:idx_recurrence_rules_active" json:"isActive"`
	LastRunDate *time.Time          `gorm:"type:date" json:"lastRunDate,omitempty"`
	RunCount    int                 `gorm:"not null;default:0" json:"runCount"`
	CreatedAt   time.Time           `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime;not null" json:"updatedAt"`
	DeletedAt   gorm.DeletedAt      `gorm:"index" json:"-"`
}

func (RecurrenceRule) TableName() string {
	return "recurrence_rules"
}

type FrequencyType string

const (
	FrequencyDaily   FrequencyType = "DAILY"
	FrequencyWeekly  FrequencyType = "WEEKLY"
	FrequencyMonthly FrequencyType = "MONTHLY"
	FrequencyYearly  FrequencyType = "YEARLY"
	FrequencyCustom  FrequencyType = "CUSTOM"
)

func (f FrequencyType) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly, FrequencyCustom:
		return true
	}
	return false
}
