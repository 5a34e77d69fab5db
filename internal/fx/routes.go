package fx

import (
	"time"

	"Grana/internal/domain/auth"
	"Grana/internal/domain/category"
	"Grana/internal/domain/recurring"
	"Grana/internal/domain/transaction"
	"Grana/internal/domain/user"
	"Grana/internal/infrastructure"
	"Grana/internal/middleware"
	"Grana/internal/routes"
	"Grana/internal/scheduler"

	"go.uber.org/fx"
)

// RoutesModule fornece handlers e rate limiters
var RoutesModule = fx.Module("routes",
	fx.Provide(
		newHandler,
		newAuthRateLimiter,
	),
)

func newHandler(
	userSvc *user.Service,
	jwtSvc *middleware.JwtService,
	authSvc *auth.Service,
	transactionSvc *transaction.Service,
	categorySvc *category.Service,
	recurringSvc *recurring.Service,
	resourceCounter *infrastructure.ResourceCounter,
	sched *scheduler.Scheduler,
) *routes.Handler {
	return &routes.Handler{
		UserService:        *userSvc,
		JwtService:         jwtSvc,
		AuthService:        *authSvc,
		TransactionService: *transactionSvc,
		CategoryService:    *categorySvc,
		RecurringService:   *recurringSvc,
		ResourceCounter:    resourceCounter,
		Scheduler:          sched,
	}
}

func newAuthRateLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(100, time.Minute)
}
