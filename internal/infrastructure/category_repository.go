package infrastructure

import (
	"context"
	"strings"
	"time"

	"Grana/internal/domain/category"
	"Grana/internal/domain/transaction"
	"Grana/internal/pkg"
	"Grana/internal/pkg/query"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

var _ category.Repository = (*CategoryRepository)(nil)

type categoryDB struct {
	Id        string    `gorm:"type:varchar(26);primaryKey"`
	UserId    string    `gorm:"type:varchar(26);index;not null"`
	Name      string    `gorm:"size:100;not null"`
	Type      string    `gorm:"type:varchar(10);not null"`
	Icon      string    `gorm:"size:50"`
	Color     string    `gorm:"size:20"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func toDomainCategory(cdb *categoryDB) (*category.Category, error) {
	id, err := pkg.ParseULID(cdb.Id)
	if err != nil {
		return nil, err
	}
	uid, err := pkg.ParseULID(cdb.UserId)
	if err != nil {
		return nil, err
	}
	return &category.Category{
		Id:        id,
		UserId:    uid,
		Name:      cdb.Name,
		Type:      transaction.Types(cdb.Type),
		Icon:      cdb.Icon,
		Color:     cdb.Color,
		CreatedAt: cdb.CreatedAt,
		UpdatedAt: cdb.UpdatedAt,
	}, nil
}

func toDBCategory(c *category.Category) *categoryDB {
	return &categoryDB{
		Id:        c.Id.String(),
		UserId:    c.UserId.String(),
		Name:      c.Name,
		Type:      string(c.Type),
		Icon:      c.Icon,
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (r *CategoryRepository) Create(ctx context.Context, c *category.Category) error {
	cdb := toDBCategory(c)
	return r.DB.WithContext(ctx).Table("categories").Create(cdb).Error
}

func (r *CategoryRepository) Update(ctx context.Context, c *category.Category) error {
	cdb := toDBCategory(c)
	return r.DB.WithContext(ctx).Table("categories").Where("id = ?", cdb.Id).
		Select("*").Updates(cdb).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, categoryID ulid.ULID, userID ulid.ULID) error {
	return r.DB.WithContext(ctx).Table("categories").
		Where("id = ? AND user_id = ?", categoryID.String(), userID.String()).
		Delete(&categoryDB{}).Error
}

func (r *CategoryRepository) GetByID(ctx context.Context, categoryID ulid.ULID, userID ulid.ULID) (*category.Category, error) {
	var row categoryDB
	err := r.DB.WithContext(ctx).Table("categories").
		Where("id = ? AND user_id = ?", categoryID.String(), userID.String()).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return toDomainCategory(&row)
}

func (r *CategoryRepository) GetByUserID(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*category.Category, int64, error) {
	pagination = pkg.NormalizePagination(pagination)

	q := query.New[categoryDB](r.DB, "categories").
		Context(ctx).
		Where("user_id = ?", userID.String()).
		Order("name ASC")

	result, err := query.Paginate(q, query.NewPage(pagination.Page, pagination.Limit), toDomainCategory)
	if err != nil {
		return nil, 0, err
	}
	return result.Data, result.Total, nil
}

func (r *CategoryRepository) GetByName(ctx context.Context, categoryName string, userID ulid.ULID) (*category.Category, error) {
	var row categoryDB
	searchName := strings.TrimSpace(categoryName)
	searchLower := strings.ToLower(searchName)

	err := r.DB.WithContext(ctx).Table("categories").
		Where("user_id = ? AND LOWER(TRIM(name)) = ?", userID.String(), searchLower).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return toDomainCategory(&row)
}
