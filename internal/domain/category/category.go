package category

import (
	"time"

	"Grana/internal/domain/transaction"

	"github.com/oklog/ulid/v2"
)

type Category struct {
	Id        ulid.ULID         `json:"id" gorm:"type:varchar(26);primaryKey"`
	UserId    ulid.ULID         `json:"userId" gorm:"type:varchar(26);not null;uniqueIndex:idx_categories_user_name,priority:1"`
	Name      string            `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_user_name,priority:2"`
	Type      transaction.Types `json:"type" gorm:"type:varchar(10);not null;default:'EXPENSE'"`
	Icon      string            `json:"icon" gorm:"type:varchar(50)"`
	Color     string            `json:"color" gorm:"type:varchar(7)"`
	CreatedAt time.Time         `json:"createdAt" gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time         `json:"updatedAt" gorm:"autoUpdateTime;not null"`
}

func (Category) TableName() string {
	return "categories"
}

type DefaultCategoryDefinition struct {
	Name string
	Type transaction.Types
	Icon string
}

// DefaultCategories são criadas para cada usuário novo no registro.
var DefaultCategories = []DefaultCategoryDefinition{
	{Name: "Alimentação", Type: transaction.Expense, Icon: "food"},
	{Name: "Transporte", Type: transaction.Expense, Icon: "car"},
	{Name: "Saúde", Type: transaction.Expense, Icon: "health"},
	{Name: "Educação", Type: transaction.Expense, Icon: "education"},
	{Name: "Lazer", Type: transaction.Expense, Icon: "entertainment"},
	{Name: "Moradia", Type: transaction.Expense, Icon: "home"},
	{Name: "Compras", Type: transaction.Expense, Icon: "shopping"},
	{Name: "Contas", Type: transaction.Expense, Icon: "bills"},
	{Name: "Assinaturas", Type: transaction.Expense, Icon: "subscriptions"},
	{Name: "Outros", Type: transaction.Expense, Icon: "other"},
	{Name: "Salário", Type: transaction.Income, Icon: "salary"},
	{Name: "Freelance", Type: transaction.Income, Icon: "freelance"},
	{Name: "Outras Receitas", Type: transaction.Income, Icon: "income"},
}
