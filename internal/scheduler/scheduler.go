package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Mimoh123/saleTracker/internal/config"
	"github.com/Mimoh123/saleTracker/internal/domain/models"
	"github.com/Mimoh123/saleTracker/internal/service/sales"
)

// Scheduler manages scheduled tasks. Its single job logs a digest of the
// previous day's sales; it runs only when a cron schedule is configured.
type Scheduler struct {
	cron     *cron.Cron
	salesSvc *sales.Service
	cfg      config.DigestConfig
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.DigestConfig, salesSvc *sales.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(),
		salesSvc: salesSvc,
		cfg:      cfg,
		logger:   logger,
	}
}

// Start registers the digest job and starts the cron loop. With no schedule
// configured this is a no-op.
func (s *Scheduler) Start() {
	if s.cfg.CronSchedule == "" {
		s.logger.Info("digest schedule not configured, scheduler disabled")
		return
	}

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.logDailyDigest); err != nil {
		s.logger.Error("failed to schedule daily digest", zap.Error(err))
		return
	}

	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))
	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) logDailyDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res := s.salesSvc.List(ctx)
	if res.Error != "" {
		s.logger.Error("failed to build daily digest", zap.String("error", res.Error))
		return
	}

	now := s.salesSvc.Now()
	all := sales.Summarize(res.Entries, sales.PeriodYesterday, sales.PaymentFilterAll, now)
	cash := sales.Summarize(res.Entries, sales.PeriodYesterday, string(models.PaymentCash), now)
	qr := sales.Summarize(res.Entries, sales.PeriodYesterday, string(models.PaymentQR), now)
	loan := sales.Summarize(res.Entries, sales.PeriodYesterday, string(models.PaymentLoan), now)

	s.logger.Info("daily sales digest",
		zap.String("day", now.AddDate(0, 0, -1).Format("2006-01-02")),
		zap.Int("sales", all.Count),
		zap.Float64("total", all.Total),
		zap.Float64("cash", cash.Total),
		zap.Float64("qr", qr.Total),
		zap.Float64("loan", loan.Total))
}
