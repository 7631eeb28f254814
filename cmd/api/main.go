package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bayraktare/pmt/internal/config"
	"github.com/bayraktare/pmt/internal/handler"
	"github.com/bayraktare/pmt/internal/httpserver"
	"github.com/bayraktare/pmt/internal/model"
	"github.com/bayraktare/pmt/internal/service/auth"
	"github.com/bayraktare/pmt/internal/service/project"
	"github.com/bayraktare/pmt/internal/store"
	"github.com/bayraktare/pmt/pkg/circuitbreaker"
	"github.com/bayraktare/pmt/pkg/logger"
	"github.com/bayraktare/pmt/pkg/mq"
	redisclient "github.com/bayraktare/pmt/pkg/redis"
	"github.com/bayraktare/pmt/pkg/util"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger().Fatal("failed to load config", zap.Error(err))
	}

	log := logger.New(cfg.Log)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init Store
	data, err := store.SampleData(store.SeedOptions{
		ProjectName:      cfg.Project.Name,
		LeadOrganization: cfg.Project.LeadOrganization,
		Partners:         cfg.Project.Partners,
		Today:            model.DateOf(time.Now()),
	})
	if err != nil {
		log.Fatal("failed to build seed data", zap.Error(err))
	}
	if !cfg.Project.Seed {
		// 只保留账号，其余数据通过 import 导入
		data = store.Data{Users: data.Users}
	}
	st := store.New()
	st.Seed(data)
	log.Info("Store seeded",
		zap.Bool("sample_data", cfg.Project.Seed),
		zap.Int("tasks", len(data.Tasks)),
		zap.Int("reports", len(data.Reports)),
		zap.Int("users", len(data.Users)),
	)

	checks := map[string]httpserver.ReadinessCheck{}

	// Init MQ Publisher
	var publisher mq.EventPublisher = mq.NopPublisher{}
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			log.Fatal("failed to init MQ publisher", zap.Error(err))
		}
		defer p.Close()
		guarded := mq.NewBreakerPublisher(p, circuitbreaker.DefaultConfig(), log)
		publisher = guarded
		checks["mq"] = func(context.Context) error {
			if !p.IsConnected() {
				return errors.New("mq connection closed")
			}
			if guarded.State() == circuitbreaker.StateOpen {
				return circuitbreaker.ErrOpen
			}
			return nil
		}
	}

	// Init Redis（未配置时 token 吊销只保存在内存中）
	var revoker util.TokenRevoker = util.NewMemoryRevoker()
	if cfg.Redis.Addr != "" {
		rdb, err := redisclient.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Redis initialization failed", zap.Error(err))
		}
		defer rdb.Close()
		revoker = util.NewRedisRevoker(rdb)
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}

	// Init Services
	projectService := project.NewService(st, publisher, cfg.Project.LeadOrganization, log)
	authService := auth.NewService(st, cfg.JWT, revoker)

	// Init Handlers
	handlers := httpserver.Handlers{
		Auth:   handler.NewAuthHandler(authService, log),
		Meta:   handler.NewMetaHandler(cfg.Project.Name, cfg.Project.LeadOrganization, cfg.Project.Partners),
		Task:   handler.NewTaskHandler(projectService, cfg.Project.Partners, log),
		Report: handler.NewReportHandler(projectService, cfg.Project.Partners, log),
		Feed:   handler.NewFeedHandler(projectService, log),
		Chart:  handler.NewChartHandler(projectService, cfg.Project.Partners, log),
		Export: handler.NewExportHandler(projectService, log),
	}

	// Router
	router := httpserver.NewRouter(handlers, authService, cfg.CORS, checks, log)
	srv := router.Server(cfg.Server.Port)

	go func() {
		log.Info("Starting API server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
}
