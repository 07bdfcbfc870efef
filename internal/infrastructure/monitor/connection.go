package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Check probes a single dependency.
type Check func(ctx context.Context) error

// MongoCheck pings the primary of the given client.
func MongoCheck(client *mongo.Client) Check {
	return func(ctx context.Context) error {
		if client == nil {
			return fmt.Errorf("mongodb client not configured")
		}
		return client.Ping(ctx, readpref.Primary())
	}
}

// RedisCheck pings the given client.
func RedisCheck(client *redislib.Client) Check {
	return func(ctx context.Context) error {
		if client == nil {
			return fmt.Errorf("redis client not configured")
		}
		return client.Ping(ctx).Err()
	}
}

type Monitor struct {
	checks  map[string]Check
	timeout time.Duration

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(checks map[string]Check, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		checks:   checks,
		timeout:  3 * time.Second,
		interval: interval,
		logger:   logger,
	}
}

// Start probes once synchronously and then on the configured schedule.
func (m *Monitor) Start() error {
	m.Refresh(context.Background())

	m.cron = cron.New(cron.WithSeconds())
	schedule := fmt.Sprintf("@every %s", m.interval)
	if _, err := m.cron.AddFunc(schedule, func() { m.Refresh(context.Background()) }); err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

// Stop waits for a running probe to finish or ctx to expire.
func (m *Monitor) Stop(ctx context.Context) {
	if m.cron == nil {
		return
	}
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) IsOnline() bool {
	return m.GetStatus().Healthy()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	services := make(map[string]bool, len(m.status.Services))
	for name, ok := range m.status.Services {
		services[name] = ok
	}
	return Status{Services: services, LastCheck: m.status.LastCheck}
}

// Refresh runs every check and stores the result.
func (m *Monitor) Refresh(ctx context.Context) {
	services := make(map[string]bool, len(m.checks))
	for name, check := range m.checks {
		services[name] = m.probe(ctx, name, check)
	}

	m.mu.Lock()
	m.status = Status{Services: services, LastCheck: time.Now()}
	m.mu.Unlock()
}

func (m *Monitor) probe(ctx context.Context, name string, check Check) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if err := check(probeCtx); err != nil {
		m.logger.Warn("dependency check failed", zap.String("service", name), zap.Error(err))
		return false
	}
	return true
}
