// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/studio-one/portfolio-api/internal/application/services"
	"github.com/studio-one/portfolio-api/internal/domain/deletion"
	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	"github.com/studio-one/portfolio-api/internal/domain/user"
	"github.com/studio-one/portfolio-api/internal/infrastructure/email"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/performance"
	activityrepo "github.com/studio-one/portfolio-api/internal/infrastructure/persistence/activity"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/bulk"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/content"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/database"
	"github.com/studio-one/portfolio-api/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Admin Services (stateless singletons)
	DeletionService       *services.DeletionService
	ActivityService       *services.ActivityService
	StorageMetricsService *services.StorageMetricsService
	ContactService        *services.ContactService
	AuthService           *services.AuthService

	// Infrastructure Dependencies
	DB          *database.DB
	Objects     repositories.ObjectStore
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// Dependencies are the connections opened during startup.
type Dependencies struct {
	DB          *database.DB
	Objects     repositories.ObjectStore
	Mailer      email.Service // nil when no email provider is configured
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(deps Dependencies) (*Container, error) {
	registry, err := deletion.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to build section registry: %w", err)
	}

	logger := deps.Logger
	rows := bulk.NewSQLRowStore(deps.DB, logger)
	activityLog := activityrepo.NewSQLActivityRepository(deps.DB, logger)
	audit := services.NewAuditRecorder(activityLog, logger)

	emptier := services.NewBucketEmptier(deps.Objects, services.BucketEmptierConfig{
		PageSize:       config.BucketListPageSize,
		MaxRemoveBatch: config.BucketRemoveBatchSize,
		SafetyMargin:   config.BucketDeadlineMargin,
	}, logger)

	deletionService := services.NewDeletionService(registry, rows, emptier, audit, services.DeletionConfig{
		Enabled:    config.DangerZoneEnabled,
		TimeBudget: config.DeletionTimeBudget,
	}, logger)

	metricsService := services.NewStorageMetricsService(rows, deps.Objects, services.StorageMetricsConfig{
		TimeBudget:             config.MetricsTimeBudget,
		PageSize:               config.BucketListPageSize,
		MaxFilesPerBucket:      config.MaxFilesPerBucketScan,
		PlanDBMaxSizeMB:        config.PlanDBMaxSizeMB,
		PlanBucketMaxSizeMB:    config.PlanBucketMaxSizeMB,
		ExcludedBucketPrefixes: config.ExcludedBucketPrefixes,
	}, logger)

	authService := services.NewAuthService(services.AuthConfig{
		JWTSecret:     config.JWTSecret,
		AdminPassword: config.AdminPassword,
		AdminUserID:   config.AdminUserID,
		TokenTTL:      config.TokenTTL,
		Policy: user.AccessPolicy{
			Roles:   config.AdminRoles,
			UserIDs: config.AdminUserIDs,
		},
	}, logger)

	return &Container{
		DeletionService:       deletionService,
		ActivityService:       services.NewActivityService(activityLog, audit, logger),
		StorageMetricsService: metricsService,
		ContactService:        services.NewContactService(content.NewContactRepository(deps.DB, logger), deps.Mailer, audit, logger),
		AuthService:           authService,

		DB:          deps.DB,
		Objects:     deps.Objects,
		Logger:      logger,
		PerfTracker: deps.PerfTracker,
	}, nil
}
