package services

import (
	portsrepo "github.com/SscSPs/user_accounts_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/user_accounts_app/internal/core/ports/services"
	"github.com/SscSPs/user_accounts_app/internal/metrics"
	"github.com/SscSPs/user_accounts_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	uploader portssvc.MediaUploaderSvc,
	recorder metrics.AuthMetricsRecorder,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.TokenService = NewTokenService(cfg)
	container.Media = uploader
	container.User = NewUserService(
		repos.UserRepo,
		container.TokenService,
		container.Media,
		WithAuthMetrics(recorder),
	)

	return container
}
