package app

import (
	"context"
	"errors"
	"time"

	"nasu-match/internal/config"
	"nasu-match/internal/database"
	dbpostgres "nasu-match/internal/database/postgres"
	"nasu-match/internal/domain/matching"
	"nasu-match/internal/infrastructure/cache"
	"nasu-match/internal/logger"
	"nasu-match/internal/repository"
	"nasu-match/internal/usecase"
	"nasu-match/internal/ws"

	"go.uber.org/zap"
)

// Container owns every long-lived dependency of the service.
type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
	Hub    *ws.Hub

	Leads    *usecase.Lead
	Matching *usecase.Matching
}

func NewContainer(cfg config.Config, log *zap.Logger) (*Container, error) {
	log = logger.OrNop(log)
	c := &Container{Config: cfg, Logger: log}

	var counters repository.LeadCounterRepository
	switch cfg.Database.Driver {
	case config.StoreDriverMemory:
		log.Warn("using in-memory lead store, counts are lost on restart")
		counters = repository.NewMemoryLeadCounterRepository()
	default:
		timeout := cfg.Database.ConnectTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		c.DB = db
		counters = repository.NewPostgresLeadCounterRepository(db)
	}

	c.Cache = cache.NewRedis(cfg.Redis, log.Named("cache"))
	c.Hub = ws.NewHub(log.Named("ws"))

	c.Leads = usecase.NewLeadUsecase(counters, c.Cache, c.Hub, log.Named("lead"), usecase.LeadOptions{
		Multiplier:   cfg.Lead.Multiplier,
		MatchesLimit: cfg.Lead.MatchesLimit,
	})
	c.Matching = usecase.NewMatchingUsecase(matching.NewScorer(ScorerWeights(cfg.Scoring)))

	return c, nil
}

// ScorerWeights maps configured weights onto the scorer; zero fields keep
// their defaults.
func ScorerWeights(sc config.ScoringConfig) matching.Weights {
	return matching.Weights{
		Salary:        sc.SalaryWeight,
		Category:      sc.CategoryWeight,
		SkillPerMatch: sc.SkillPerMatch,
		SkillCap:      sc.SkillCap,
		Location:      sc.LocationWeight,
		Ceiling:       sc.Ceiling,
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}

	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
