package fx

import (
	"Grana/internal/domain/auth"
	"Grana/internal/domain/category"
	"Grana/internal/domain/recurring"
	"Grana/internal/domain/shared"
	"Grana/internal/domain/transaction"
	"Grana/internal/domain/user"
	"Grana/internal/infrastructure"

	"go.uber.org/fx"
)

// DomainModule fornece todos os services do domínio
var DomainModule = fx.Module("domain",
	fx.Provide(
		// User services
		newUserService,
		newUserServiceAdapter,
		newUserCheckerService,

		// Auth service
		newAuthService,

		// Category service
		newCategoryService,

		// Transaction service
		newTransactionService,

		// Recurring service
		newRecurringService,
	),
)

func newUserService(repo *infrastructure.UserRepository) *user.Service {
	return user.NewService(repo)
}

func newUserServiceAdapter(userSvc *user.Service) *user.UserServiceAdapter {
	return user.NewUserServiceAdapter(userSvc)
}

func newUserCheckerService(adapter *user.UserServiceAdapter) *shared.UserCheckerService {
	return shared.NewUserCheckerService(adapter)
}

func newAuthService(
	repo *infrastructure.UserRepository,
	userSvc *user.Service,
) *auth.Service {
	return auth.NewService(repo, userSvc)
}

func newCategoryService(
	repo *infrastructure.CategoryRepository,
	userChecker *shared.UserCheckerService,
) *category.Service {
	return category.NewService(repo, userChecker)
}

func newTransactionService(
	repo *infrastructure.TransactionRepository,
	categorySvc *category.Service,
	userChecker *shared.UserCheckerService,
) *transaction.Service {
	return transaction.NewService(repo, categorySvc, userChecker)
}

func newRecurringService(
	repo *infrastructure.RecurringRepository,
	transactionRepo *infrastructure.TransactionRepository,
	categorySvc *category.Service,
	userChecker *shared.UserCheckerService,
) *recurring.Service {
	return recurring.NewService(repo, transactionRepo, categorySvc, userChecker)
}
