package infrastructure

import (
	"context"
	"time"

	"Grana/internal/domain/recurring"
	"Grana/internal/domain/transaction"
	"Grana/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RecurringRepository struct {
	DB *gorm.DB
}

var _ recurring.Repository = (*RecurringRepository)(nil)

type recurrenceRuleDB struct {
	Id                    string                      `gorm:"type:varchar(26);primaryKey;column:id"`
	UserId                string                      `gorm:"type:varchar(26);index;not null;column:user_id"`
	TemplateType          string                      `gorm:"type:varchar(10);not null;column:template_type"`
	TemplateAmount        decimal.Decimal             `gorm:"type:decimal(15,2);not null;column:template_amount"`
	TemplateDescription   string                      `gorm:"type:varchar(255);column:template_description"`
	TemplateCategoryId    *string                     `gorm:"type:varchar(26);column:template_category_id"`
	TemplateNotes         string                      `gorm:"type:varchar(500);column:template_notes"`
	TemplateTags          datatypes.JSONSlice[string] `gorm:"type:jsonb;column:template_tags"`
	TemplatePaymentMethod string                      `gorm:"type:varchar(50);column:template_payment_method"`
	TemplateReference     string                      `gorm:"type:varchar(100);column:template_reference"`
	Frequency             string                      `gorm:"type:varchar(20);not null;column:frequency"`
	Interval              int                         `gorm:"not null;default:1;column:interval"`
	StartDate             time.Time                   `gorm:"type:date;not null;column:start_date"`
	EndDate               *time.Time                  `gorm:"type:date;column:end_date"`
	NextRunDate           time.Time                   `gorm:"type:date;not null;column:next_run_date"`
	IsActive              bool                        `gorm:"not null;default:true;column:is_active"`
	LastRunDate           *time.Time                  `gorm:"type:date;column:last_run_date"`
	RunCount              int                         `gorm:"not null;default:0;column:run_count"`
	CreatedAt             time.Time                   `gorm:"not null;column:created_at"`
	UpdatedAt             time.Time                   `gorm:"not null;column:updated_at"`
	DeletedAt             gorm.DeletedAt              `gorm:"index;column:deleted_at"`
}

func (recurrenceRuleDB) TableName() string {
	return "recurrence_rules"
}

func toDomainRule(rdb *recurrenceRuleDB) (*recurring.RecurrenceRule, error) {
	id, err := pkg.ParseULID(rdb.Id)
	if err != nil {
		return nil, err
	}
	uid, err := pkg.ParseULID(rdb.UserId)
	if err != nil {
		return nil, err
	}
	cid, err := parseOptionalULID(rdb.TemplateCategoryId)
	if err != nil {
		return nil, err
	}

	return &recurring.RecurrenceRule{
		Id:     id,
		UserId: uid,
		Template: recurring.TransactionTemplate{
			Type:          transaction.Types(rdb.TemplateType),
			Amount:        rdb.TemplateAmount,
			Description:   rdb.TemplateDescription,
			CategoryId:    cid,
			Notes:         rdb.TemplateNotes,
			Tags:          rdb.TemplateTags,
			PaymentMethod: rdb.TemplatePaymentMethod,
			Reference:     rdb.TemplateReference,
		},
		Frequency:   recurring.FrequencyType(rdb.Frequency),
		Interval:    rdb.Interval,
		StartDate:   rdb.StartDate,
		EndDate:     rdb.EndDate,
		NextRunDate: rdb.NextRunDate,
		IsActive:    rdb.IsActive,
		LastRunDate: rdb.LastRunDate,
		RunCount:    rdb.RunCount,
		CreatedAt:   rdb.CreatedAt,
		UpdatedAt:   rdb.UpdatedAt,
		DeletedAt:   rdb.DeletedAt,
	}, nil
}

func toDBRule(rule *recurring.RecurrenceRule) *recurrenceRuleDB {
	return &recurrenceRuleDB{
		Id:                    rule.Id.String(),
		UserId:                rule.UserId.String(),
		TemplateType:          string(rule.Template.Type),
		TemplateAmount:        rule.Template.Amount,
		TemplateDescription:   rule.Template.Description,
		TemplateCategoryId:    ulidPtrToString(rule.Template.CategoryId),
		TemplateNotes:         rule.Template.Notes,
		TemplateTags:          rule.Template.Tags,
		TemplatePaymentMethod: rule.Template.PaymentMethod,
		TemplateReference:     rule.Template.Reference,
		Frequency:             string(rule.Frequency),
		Interval:              rule.Interval,
		StartDate:             rule.StartDate,
		EndDate:               rule.EndDate,
		NextRunDate:           rule.NextRunDate,
		IsActive:              rule.IsActive,
		LastRunDate:           rule.LastRunDate,
		RunCount:              rule.RunCount,
		CreatedAt:             rule.CreatedAt,
		UpdatedAt:             rule.UpdatedAt,
		DeletedAt:             rule.DeletedAt,
	}
}

func (r *RecurringRepository) Create(ctx context.Context, rule *recurring.RecurrenceRule) error {
	rdb := toDBRule(rule)
	return r.DB.WithContext(ctx).Create(rdb).Error
}

func (r *RecurringRepository) Update(ctx context.Context, rule *recurring.RecurrenceRule) error {
	rdb := toDBRule(rule)
	return r.DB.WithContext(ctx).Model(&recurrenceRuleDB{}).
		Where("id = ? AND user_id = ?", rdb.Id, rdb.UserId).
		Select("*").Omit("id", "created_at", "deleted_at").Updates(rdb).Error
}

func (r *RecurringRepository) Delete(ctx context.Context, ruleID, userID ulid.ULID) error {
	return r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", ruleID.String(), userID.String()).
		Delete(&recurrenceRuleDB{}).Error
}

func (r *RecurringRepository) GetByID(ctx context.Context, ruleID ulid.ULID) (*recurring.RecurrenceRule, error) {
	var rdb recurrenceRuleDB
	err := r.DB.WithContext(ctx).
		Where("id = ?", ruleID.String()).
		First(&rdb).Error
	if err != nil {
		return nil, err
	}
	return toDomainRule(&rdb)
}

func (r *RecurringRepository) GetByUserID(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*recurring.RecurrenceRule, int64, error) {
	pagination = pkg.NormalizePagination(pagination)

	baseQuery := r.DB.WithContext(ctx).Model(&recurrenceRuleDB{}).Where("user_id = ?", userID.String())

	var total int64
	if err := baseQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []recurrenceRuleDB
	err := baseQuery.Order("next_run_date ASC, created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	rules := make([]*recurring.RecurrenceRule, 0, len(rows))
	for i := range rows {
		rule, err := toDomainRule(&rows[i])
		if err != nil {
			continue
		}
		rules = append(rules, rule)
	}
	return rules, total, nil
}

func (r *RecurringRepository) GetDue(ctx context.Context, asOf time.Time) ([]*recurring.RecurrenceRule, error) {
	var rows []recurrenceRuleDB
	err := r.DB.WithContext(ctx).
		Where("is_active = ? AND next_run_date <= ?", true, asOf).
		Where("end_date IS NULL OR end_date >= ?", asOf).
		Order("next_run_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	rules := make([]*recurring.RecurrenceRule, 0, len(rows))
	for i := range rows {
		rule, err := toDomainRule(&rows[i])
		if err != nil {
			continue
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// AdvanceWithTx grava o resultado de uma geração apenas se o cursor no banco
// ainda for prevCursor e a regra continuar ativa. Uma pausa ou outra geração
// no meio do caminho zera as linhas afetadas e o chamador recebe
// ErrCursorMoved para desfazer a transação.
func (r *RecurringRepository) AdvanceWithTx(ctx context.Context, tx interface{}, rule *recurring.RecurrenceRule, prevCursor time.Time) error {
	dbTx := tx.(*gorm.DB)
	result := dbTx.WithContext(ctx).Model(&recurrenceRuleDB{}).
		Where("id = ? AND next_run_date = ? AND is_active = ?", rule.Id.String(), prevCursor, true).
		Updates(map[string]interface{}{
			"next_run_date": rule.NextRunDate,
			"is_active":     rule.IsActive,
			"last_run_date": rule.LastRunDate,
			"run_count":     rule.RunCount,
			"updated_at":    rule.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return recurring.ErrCursorMoved
	}
	return nil
}

func (r *RecurringRepository) CreateWithTx(ctx context.Context, tx interface{}, rule *recurring.RecurrenceRule) error {
	dbTx := tx.(*gorm.DB)
	rdb := toDBRule(rule)
	return dbTx.WithContext(ctx).Create(rdb).Error
}

func (r *RecurringRepository) UpdateWithTx(ctx context.Context, tx interface{}, rule *recurring.RecurrenceRule) error {
	dbTx := tx.(*gorm.DB)
	rdb := toDBRule(rule)
	return dbTx.WithContext(ctx).Model(&recurrenceRuleDB{}).
		Where("id = ? AND user_id = ?", rdb.Id, rdb.UserId).
		Select("*").Omit("id", "created_at", "deleted_at").Updates(rdb).Error
}

func (r *RecurringRepository) BeginTx(ctx context.Context) (interface{}, error) {
	return r.DB.WithContext(ctx).Begin(), nil
}

func (r *RecurringRepository) CommitTx(tx interface{}) error {
	return tx.(*gorm.DB).Commit().Error
}

func (r *RecurringRepository) RollbackTx(tx interface{}) error {
	return tx.(*gorm.DB).Rollback().Error
}
