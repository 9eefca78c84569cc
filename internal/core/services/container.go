package services

import (
	portsrepo "github.com/syncpay/guardianpay/internal/core/ports/repositories"
	portssvc "github.com/syncpay/guardianpay/internal/core/ports/services"
	"github.com/syncpay/guardianpay/pkg/config"
)

// NewServiceContainer creates the service container with its dependencies
// wired. The recorder is deliberately separate from the payment service so
// the attempt record commits in its own scope.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	recorder := NewPaymentRecorder(repos.PaymentRepo)

	return &portssvc.ServiceContainer{
		Auth:    NewAuthService(repos.UserRepo, repos.StudentRepo, repos.ParentRepo, cfg),
		Payment: NewPaymentService(repos.StudentRepo, repos.ParentRepo, repos.PaymentRepo, recorder),
	}
}
