package fx

import (
	"Grana/config"
	"Grana/internal/infrastructure"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		newDatabase,
		newUserRepository,
		newTransactionRepository,
		newCategoryRepository,
		newRecurringRepository,
		newResourceCounter,
	),
)

func newDatabase(cfg *config.Config) (*gorm.DB, error) {
	return infrastructure.NewDb(cfg)
}

func newUserRepository(db *gorm.DB) *infrastructure.UserRepository {
	return &infrastructure.UserRepository{DB: db}
}

func newTransactionRepository(db *gorm.DB) *infrastructure.TransactionRepository {
	return &infrastructure.TransactionRepository{DB: db}
}

func newCategoryRepository(db *gorm.DB) *infrastructure.CategoryRepository {
	return &infrastructure.CategoryRepository{DB: db}
}

func newRecurringRepository(db *gorm.DB) *infrastructure.RecurringRepository {
	return &infrastructure.RecurringRepository{DB: db}
}

func newResourceCounter(db *gorm.DB) *infrastructure.ResourceCounter {
	return &infrastructure.ResourceCounter{DB: db}
}
