package category

import (
	"context"
	"errors"
	"time"

	"Grana/internal/domain/shared"
	"Grana/internal/domain/transaction"
	appErrors "Grana/internal/errors"
	"Grana/internal/logger"
	"Grana/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type Service struct {
	Repository Repository
	shared.BaseService
}

func NewService(repo Repository, userChecker *shared.UserCheckerService) *Service {
	return &Service{
		Repository: repo,
		BaseService: shared.BaseService{
			UserChecker: userChecker,
		},
	}
}

func (s *Service) Create(ctx context.Context, category *Category) error {
	if err := s.EnsureUserExists(ctx, category.UserId); err != nil {
		return err
	}

	category.Name = shared.NormalizeName(category.Name)
	if category.Name == "" {
		return appErrors.NewValidationError("name", "é obrigatório")
	}

	if !category.Type.IsValid() {
		return appErrors.NewValidationError("type", "deve ser INCOME ou EXPENSE")
	}

	if err := s.checkNameNotExists(ctx, category.Name, category.UserId); err != nil {
		return err
	}

	s.initCategory(category)

	if err := s.Repository.Create(ctx, category); err != nil {
		if shared.IsUniqueConstraintError(err) {
			return appErrors.NewConflictError("categoria")
		}
		return appErrors.NewDatabaseError(err)
	}

	return nil
}

func (s *Service) Update(ctx context.Context, category *Category) error {
	if err := s.EnsureUserExists(ctx, category.UserId); err != nil {
		return err
	}

	existing, err := s.Repository.GetByID(ctx, category.Id, category.UserId)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appErrors.ErrCategoryNotFound
	}
	if err != nil {
		return appErrors.NewDatabaseError(err)
	}

	category.Name = shared.NormalizeName(category.Name)
	if category.Name == "" {
		return appErrors.NewValidationError("name", "é obrigatório")
	}

	if !category.Type.IsValid() {
		return appErrors.NewValidationError("type", "deve ser INCOME ou EXPENSE")
	}

	if existing.Name != category.Name {
		if err := s.checkNameNotExists(ctx, category.Name, category.UserId); err != nil {
			return err
		}
	}

	existing.Name = category.Name
	existing.Type = category.Type
	existing.Icon = category.Icon
	existing.Color = category.Color
	existing.UpdatedAt = time.Now()

	if err := s.Repository.Update(ctx, existing); err != nil {
		return appErrors.NewDatabaseError(err)
	}

	return nil
}

func (s *Service) Delete(ctx context.Context, categoryID, userID ulid.ULID) error {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return err
	}

	if _, err := s.Repository.GetByID(ctx, categoryID, userID); errors.Is(err, gorm.ErrRecordNotFound) {
		return appErrors.ErrCategoryNotFound
	} else if err != nil {
		return appErrors.NewDatabaseError(err)
	}

	return s.Repository.Delete(ctx, categoryID, userID)
}

func (s *Service) GetByID(ctx context.Context, categoryID, userID ulid.ULID) (*Category, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, err
	}

	category, err := s.Repository.GetByID(ctx, categoryID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, appErrors.ErrCategoryNotFound
	}
	if err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	return category, nil
}

func (s *Service) GetAll(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*Category, int64, error) {
	if err := s.EnsureUserExists(ctx, userID); err != nil {
		return nil, 0, err
	}

	categories, total, err := s.Repository.GetByUserID(ctx, userID, pagination)
	if err != nil {
		return nil, 0, appErrors.NewDatabaseError(err)
	}

	return categories, total, nil
}

// EnsureExists confirma que a categoria existe e pertence ao usuário.
func (s *Service) EnsureExists(ctx context.Context, categoryID, userID ulid.ULID) error {
	_, err := s.Repository.GetByID(ctx, categoryID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appErrors.ErrCategoryNotFound
	}
	if err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return nil
}

// ValidateForTemplate verifica se a categoria pode ser usada em um modelo de
// transação do fluxo informado: além de existir, o tipo da categoria precisa
// coincidir com o tipo do lançamento.
func (s *Service) ValidateForTemplate(ctx context.Context, userID, categoryID ulid.ULID, flow transaction.Types) error {
	category, err := s.Repository.GetByID(ctx, categoryID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appErrors.ErrCategoryNotFound
	}
	if err != nil {
		return appErrors.NewDatabaseError(err)
	}

	if category.Type != flow {
		return appErrors.NewValidationError("category_id", "categoria não corresponde ao tipo do lançamento").WithDetails(map[string]interface{}{
			"categoryType": category.Type,
			"templateType": flow,
		})
	}

	return nil
}

// CreateDefaults semeia as categorias padrão de um usuário recém-registrado.
// Conflitos de nome são ignorados para que o registro nunca falhe por isso.
func (s *Service) CreateDefaults(ctx context.Context, userID ulid.ULID) error {
	for _, def := range DefaultCategories {
		category := &Category{
			UserId: userID,
			Name:   shared.NormalizeName(def.Name),
			Type:   def.Type,
			Icon:   def.Icon,
		}
		s.initCategory(category)

		if err := s.Repository.Create(ctx, category); err != nil {
			if shared.IsUniqueConstraintError(err) {
				continue
			}
			logger.Warn().Err(err).Str("category", def.Name).Msg("Falha ao criar categoria padrão")
		}
	}

	return nil
}

func (s *Service) checkNameNotExists(ctx context.Context, name string, userID ulid.ULID) error {
	_, err := s.Repository.GetByName(ctx, name, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return appErrors.NewDatabaseError(err)
	}
	return appErrors.NewConflictError("categoria")
}

func (s *Service) initCategory(category *Category) {
	category.Id = pkg.GenerateULIDObject()
	now := time.Now()
	category.CreatedAt = now
	category.UpdatedAt = now
}
