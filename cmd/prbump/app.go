package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pr-bump-notifier/internal/config"
	"pr-bump-notifier/internal/domain"
	"pr-bump-notifier/internal/notifier"
	"pr-bump-notifier/internal/repository"
	"pr-bump-notifier/internal/usecase"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	targetSlack      = "slack"
	targetGoogleChat = "gchat"
	targetDigest     = "digest"
)

type app struct {
	cfg     config.Config
	logger  *logrus.Logger
	table   *domain.RoutingTable
	prRepo  domain.PRRepository
	webhook *notifier.WebhookClient
	now     func() time.Time
}

// newApp собирает все зависимости одного процесса.
func newApp() (*app, error) {
	// Логгер
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Конфиг
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warnf(".env not found: %v", err)
	}
	configureLogger(logger, cfg)

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Error("Invalid configuration")
		return nil, err
	}

	// Таблица маршрутизации
	table, err := repository.NewRoutingRepository().Load(cfg.RoutingFile)
	if err != nil {
		logger.WithError(err).Error("Failed to load routing table")
		return nil, err
	}

	// Клиенты
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	ghClient, err := repository.NewGitHubClient(cfg.GitHubAPIURL, cfg.GitHubToken, httpClient)
	if err != nil {
		logger.WithError(err).Error("Failed to create GitHub client")
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"repositories": len(cfg.Repositories),
		"rules":        len(table.Rules),
		"fallback":     table.Fallback != nil,
	}).Info("Configuration loaded")

	return &app{
		cfg:     cfg,
		logger:  logger,
		table:   table,
		prRepo:  repository.NewGitHubRepository(ghClient),
		webhook: notifier.NewWebhookClient(httpClient, cfg.DeliveryRate),
		now:     time.Now,
	}, nil
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("unknown LOG_LEVEL %q, using info", cfg.LogLevel)
	}

	if strings.EqualFold(cfg.LogFormat, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func (a *app) notifierFor(target string) (domain.Notifier, bool, error) {
	switch target {
	case targetSlack:
		return notifier.NewSlackNotifier(a.webhook, a.now), false, nil
	case targetGoogleChat:
		return notifier.NewGoogleChatNotifier(a.webhook, a.now), false, nil
	case targetDigest:
		return notifier.NewDigestNotifier(a.webhook, a.now), true, nil
	default:
		return nil, false, fmt.Errorf("%w: unknown target %q", domain.ErrConfig, target)
	}
}

// run выполняет один полный проход: сбор, раскладка по корзинам, рассылка.
func (a *app) run(ctx context.Context, target string) error {
	n, raw, err := a.notifierFor(target)
	if err != nil {
		return err
	}

	runLog := a.logger.WithFields(logrus.Fields{
		"run_id": uuid.NewString(),
		"target": target,
	})
	runLog.Info("Run started")

	collect := usecase.NewCollectUseCase(a.prRepo, a.table, runLog)

	var buckets *domain.Buckets
	if raw {
		buckets, err = collect.CollectRaw(ctx, a.cfg.Repositories)
	} else {
		buckets, err = collect.Collect(ctx, a.cfg.Repositories)
	}
	if err != nil {
		runLog.WithError(err).Error("Run aborted")
		return err
	}

	if buckets.IsEmpty() {
		runLog.Info("No matching pull requests found for configured rules")
		return nil
	}

	report := usecase.NewDispatchUseCase(n, a.cfg, runLog).Dispatch(ctx, buckets)

	runLog.WithFields(logrus.Fields{
		"sent":    len(report.Sent),
		"skipped": len(report.Skipped),
		"failed":  len(report.Failed),
	}).Info("Run finished")

	return nil
}
