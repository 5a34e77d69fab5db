package transaction

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Transaction struct {
	Id               ulid.ULID                   `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId           ulid.ULID                   `gorm:"type:varchar(26);index:idx_transactions_user_id;index:idx_transactions_user_date,priority:1;not null" json:"userId"`
	Type             Types                       `gorm:"type:varchar(10);not null;index:idx_transactions_type" json:"type"`
	CategoryId       *ulid.ULID                  `gorm:"type:varchar(26);index:idx_transactions_category_id" json:"categoryId,omitempty"`
	RecurrenceRuleId *ulid.ULID                  `gorm:"type:varchar(26);index:idx_transactions_recurrence_rule_id" json:"recurrenceRuleId,omitempty"`
	Amount           decimal.Decimal             `gorm:"type:decimal(15,2);not null" json:"amount"`
	Description      string                      `gorm:"type:varchar(255)" json:"description"`
	Notes            string                      `gorm:"type:varchar(500)" json:"notes,omitempty"`
	Tags             datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"tags,omitempty"`
	PaymentMethod    string                      `gorm:"type:varchar(50)" json:"paymentMethod,omitempty"`
	Reference        string                      `gorm:"type:varchar(100)" json:"reference,omitempty"`
	Date             time.Time                   `gorm:"type:date;not null;index:idx_transactions_user_date,priority:2;index:idx_transactions_date" json:"date"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Transaction) TableName() string {
	return "transactions"
}

type Types string

const (
	Income  Types = "INCOME"
	Expense Types = "EXPENSE"
)

func (t Types) IsValid() bool {
	switch t {
	case Income, Expense:
		return true
	}
	return false
}
