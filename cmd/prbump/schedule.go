package main

import (
	"context"
	"fmt"

	"pr-bump-notifier/internal/domain"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// schedule запускает цели по cron-выражению до отмены контекста.
func (a *app) schedule(ctx context.Context) error {
	targets := a.cfg.ScheduleTargets
	for _, target := range targets {
		if _, _, err := a.notifierFor(target); err != nil {
			return err
		}
	}

	cronLogger := cron.PrintfLogger(a.logger)
	c := cron.New(cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)))

	_, err := c.AddFunc(a.cfg.Schedule, func() {
		a.tick(ctx, targets)
	})
	if err != nil {
		a.logger.WithError(err).WithField("schedule", a.cfg.Schedule).Error("Invalid schedule")
		return fmt.Errorf("%w: invalid SCHEDULE %q: %w", domain.ErrConfig, a.cfg.Schedule, err)
	}

	c.Start()
	a.logger.WithFields(logrus.Fields{
		"schedule": a.cfg.Schedule,
		"targets":  targets,
	}).Info("Scheduler started")

	<-ctx.Done()

	a.logger.Info("Shutting down scheduler...")
	<-c.Stop().Done()
	a.logger.Info("Scheduler exited")

	return nil
}

// tick прогоняет все цели; ошибка одной цели не останавливает планировщик.
func (a *app) tick(ctx context.Context, targets []string) {
	for _, target := range targets {
		if err := a.run(ctx, target); err != nil {
			a.logger.WithError(err).WithField("target", target).Error("Scheduled run failed")
		}
	}
}
