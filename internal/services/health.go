package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aniruddh-code-002/moodmart/internal/database"
)

// HealthService probes the engine's dependencies. PostgreSQL is critical;
// both Redis tiers are not, since the pipeline degrades without them.
type HealthService struct {
	logger *logrus.Logger
	db     *database.Database
	index  *SemanticIndex
}

type HealthStatus struct {
	Status      string            `json:"status"`
	Timestamp   time.Time         `json:"timestamp"`
	Services    map[string]string `json:"services"`
	Critical    []string          `json:"critical_failures,omitempty"`
	NonCritical []string          `json:"non_critical_failures,omitempty"`
	Details     map[string]any    `json:"details,omitempty"`
}

func NewHealthService(db *database.Database, index *SemanticIndex, logger *logrus.Logger) *HealthService {
	return &HealthService{
		logger: logger,
		db:     db,
		index:  index,
	}
}

func (s *HealthService) CheckHealth() *HealthStatus {
	status := &HealthStatus{
		Timestamp: time.Now(),
		Services:  make(map[string]string),
		Details: map[string]any{
			"indexed_products": s.index.Size(),
		},
	}

	criticalServices := map[string]func() error{
		"postgresql": s.checkPostgreSQL,
	}

	nonCriticalServices := map[string]func() error{
		"redis_warm": s.checkRedisWarm,
		"redis_cold": s.checkRedisCold,
	}

	allCriticalHealthy := true
	for name, checkFunc := range criticalServices {
		if err := checkFunc(); err != nil {
			status.Services[name] = "unhealthy"
			status.Critical = append(status.Critical, name)
			allCriticalHealthy = false
			s.logger.WithError(err).Errorf("Critical service %s is unhealthy", name)
		} else {
			status.Services[name] = "healthy"
		}
	}

	for name, checkFunc := range nonCriticalServices {
		if err := checkFunc(); err != nil {
			status.Services[name] = "unhealthy"
			status.NonCritical = append(status.NonCritical, name)
			s.logger.WithError(err).Warnf("Non-critical service %s is unhealthy", name)
		} else {
			status.Services[name] = "healthy"
		}
	}

	if allCriticalHealthy {
		if len(status.NonCritical) == 0 {
			status.Status = "healthy"
		} else {
			status.Status = "degraded"
		}
	} else {
		status.Status = "unhealthy"
	}

	return status
}

func (s *HealthService) checkPostgreSQL() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.db.PG.Ping(ctx)
}

func (s *HealthService) checkRedisWarm() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.db.Redis.Warm.Ping(ctx).Err()
}

func (s *HealthService) checkRedisCold() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.db.Redis.Cold.Ping(ctx).Err()
}
