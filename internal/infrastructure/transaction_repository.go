package infrastructure

import (
	"context"
	"errors"
	"time"

	"Grana/internal/domain/transaction"
	appErrors "Grana/internal/errors"
	"Grana/internal/pkg"
	"Grana/internal/pkg/query"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TransactionRepository struct {
	DB *gorm.DB
}

var _ transaction.Repository = (*TransactionRepository)(nil)

type transactionDB struct {
	Id               string                      `gorm:"type:varchar(26);primaryKey;column:id"`
	UserId           string                      `gorm:"type:varchar(26);index;not null;column:user_id"`
	Type             string                      `gorm:"type:varchar(10);not null;column:type"`
	CategoryId       *string                     `gorm:"type:varchar(26);index;column:category_id"`
	RecurrenceRuleId *string                     `gorm:"type:varchar(26);index;column:recurrence_rule_id"`
	Amount           decimal.Decimal             `gorm:"type:decimal(15,2);not null;column:amount"`
	Description      string                      `gorm:"size:255;column:description"`
	Notes            string                      `gorm:"size:500;column:notes"`
	Tags             datatypes.JSONSlice[string] `gorm:"type:jsonb;column:tags"`
	PaymentMethod    string                      `gorm:"size:50;column:payment_method"`
	Reference        string                      `gorm:"size:100;column:reference"`
	Date             time.Time                   `gorm:"type:date;not null;column:date"`
	CreatedAt        time.Time                   `gorm:"not null;column:created_at"`
	UpdatedAt        time.Time                   `gorm:"not null;column:updated_at"`
}

func toDomainTransaction(tdb *transactionDB) (*transaction.Transaction, error) {
	id, err := pkg.ParseULID(tdb.Id)
	if err != nil {
		return nil, err
	}
	uid, err := pkg.ParseULID(tdb.UserId)
	if err != nil {
		return nil, err
	}
	cid, err := parseOptionalULID(tdb.CategoryId)
	if err != nil {
		return nil, err
	}
	rid, err := parseOptionalULID(tdb.RecurrenceRuleId)
	if err != nil {
		return nil, err
	}

	return &transaction.Transaction{
		Id:               id,
		UserId:           uid,
		Type:             transaction.Types(tdb.Type),
		CategoryId:       cid,
		RecurrenceRuleId: rid,
		Amount:           tdb.Amount,
		Description:      tdb.Description,
		Notes:            tdb.Notes,
		Tags:             tdb.Tags,
		PaymentMethod:    tdb.PaymentMethod,
		Reference:        tdb.Reference,
		Date:             tdb.Date,
		CreatedAt:        tdb.CreatedAt,
		UpdatedAt:        tdb.UpdatedAt,
	}, nil
}

func toDBTransaction(t *transaction.Transaction) *transactionDB {
	return &transactionDB{
		Id:               t.Id.String(),
		UserId:           t.UserId.String(),
		Type:             string(t.Type),
		CategoryId:       ulidPtrToString(t.CategoryId),
		RecurrenceRuleId: ulidPtrToString(t.RecurrenceRuleId),
		Amount:           t.Amount,
		Description:      t.Description,
		Notes:            t.Notes,
		Tags:             t.Tags,
		PaymentMethod:    t.PaymentMethod,
		Reference:        t.Reference,
		Date:             t.Date,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func parseOptionalULID(value *string) (*ulid.ULID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := pkg.ParseULID(*value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func ulidPtrToString(id *ulid.ULID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	tdb := toDBTransaction(t)
	return r.DB.WithContext(ctx).Table("transactions").Create(tdb).Error
}

func (r *TransactionRepository) CreateWithTx(ctx context.Context, tx interface{}, t *transaction.Transaction) error {
	dbTx := tx.(*gorm.DB)
	tdb := toDBTransaction(t)
	return dbTx.WithContext(ctx).Table("transactions").Create(tdb).Error
}

func (r *TransactionRepository) Update(ctx context.Context, t *transaction.Transaction) error {
	tdb := toDBTransaction(t)
	return r.DB.WithContext(ctx).Table("transactions").Where("id = ?", tdb.Id).
		Select("*").Updates(tdb).Error
}

func (r *TransactionRepository) Delete(ctx context.Context, transactionID ulid.ULID) error {
	return r.DB.WithContext(ctx).Table("transactions").Where("id = ?", transactionID.String()).Delete(&transactionDB{}).Error
}

func (r *TransactionRepository) GetByIDAndUser(ctx context.Context, transactionID, userID ulid.ULID) (*transaction.Transaction, error) {
	var tdb transactionDB
	err := r.DB.WithContext(ctx).Table("transactions").
		Where("id = ? AND user_id = ?", transactionID.String(), userID.String()).
		First(&tdb).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appErrors.ErrTransactionNotFound.WithError(err)
		}
		return nil, err
	}
	return toDomainTransaction(&tdb)
}

func (r *TransactionRepository) GetAll(ctx context.Context, userID ulid.ULID, filters *transaction.Filters, pagination *pkg.PaginationParams) ([]*transaction.Transaction, int64, error) {
	countQuery := r.DB.WithContext(ctx).Table("transactions").Where("user_id = ?", userID.String())
	dataQuery := r.DB.WithContext(ctx).Table("transactions").Where("user_id = ?", userID.String())

	if filters != nil {
		if filters.Type != nil && *filters.Type != "" {
			countQuery = countQuery.Where("type = ?", string(*filters.Type))
			dataQuery = dataQuery.Where("type = ?", string(*filters.Type))
		}

		if filters.CategoryId != nil {
			countQuery = countQuery.Where("category_id = ?", filters.CategoryId.String())
			dataQuery = dataQuery.Where("category_id = ?", filters.CategoryId.String())
		}

		if filters.RecurrenceRuleId != nil {
			countQuery = countQuery.Where("recurrence_rule_id = ?", filters.RecurrenceRuleId.String())
			dataQuery = dataQuery.Where("recurrence_rule_id = ?", filters.RecurrenceRuleId.String())
		}

		if filters.From != nil {
			countQuery = countQuery.Where("date >= ?", *filters.From)
			dataQuery = dataQuery.Where("date >= ?", *filters.From)
		}

		if filters.To != nil {
			countQuery = countQuery.Where("date <= ?", *filters.To)
			dataQuery = dataQuery.Where("date <= ?", *filters.To)
		}
	}

	pagination = pkg.NormalizePagination(pagination)

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []transactionDB
	err := dataQuery.Order("date DESC, created_at DESC").
		Offset(pagination.Offset()).
		Limit(pagination.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]*transaction.Transaction, 0, len(rows))
	for i := range rows {
		item, err := toDomainTransaction(&rows[i])
		if err != nil {
			continue
		}
		out = append(out, item)
	}

	return out, total, nil
}

func (r *TransactionRepository) GetAllForExport(ctx context.Context, userID ulid.ULID, filters *transaction.Filters) ([]*transaction.Transaction, error) {
	q := query.New[transactionDB](r.DB, "transactions").
		Context(ctx).
		Where("user_id = ?", userID.String()).
		Order("date ASC, created_at ASC")

	if filters != nil {
		if filters.Type != nil && *filters.Type != "" {
			q.Where("type = ?", string(*filters.Type))
		}
		if filters.CategoryId != nil {
			q.Where("category_id = ?", filters.CategoryId.String())
		}
		if filters.RecurrenceRuleId != nil {
			q.Where("recurrence_rule_id = ?", filters.RecurrenceRuleId.String())
		}
		if filters.From != nil {
			q.Where("date >= ?", *filters.From)
		}
		if filters.To != nil {
			q.Where("date <= ?", *filters.To)
		}
	}

	return query.ExecuteAll(q, toDomainTransaction)
}

func (r *TransactionRepository) GetByRecurrenceRule(ctx context.Context, ruleID, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*transaction.Transaction, int64, error) {
	baseQuery := r.DB.WithContext(ctx).Table("transactions").
		Where("recurrence_rule_id = ? AND user_id = ?", ruleID.String(), userID.String())
	return pkg.Paginate(baseQuery, pagination, "date DESC, created_at DESC", toDomainTransaction)
}
