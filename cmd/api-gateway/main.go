package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/riseresearch/rise-api/api/swagger"
	"github.com/riseresearch/rise-api/internal/handler"
	internalmiddleware "github.com/riseresearch/rise-api/internal/middleware"
	"github.com/riseresearch/rise-api/internal/repository"
	"github.com/riseresearch/rise-api/internal/service"
	"github.com/riseresearch/rise-api/pkg/airtable"
	"github.com/riseresearch/rise-api/pkg/cache"
	"github.com/riseresearch/rise-api/pkg/config"
	"github.com/riseresearch/rise-api/pkg/googleid"
	"github.com/riseresearch/rise-api/pkg/jobs"
	"github.com/riseresearch/rise-api/pkg/logger"
	corsmiddleware "github.com/riseresearch/rise-api/pkg/middleware/cors"
	"github.com/riseresearch/rise-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/riseresearch/rise-api/pkg/middleware/requestid"
	"github.com/riseresearch/rise-api/pkg/signedurl"
)

// @title RISE Research API
// @version 1.0.0
// @description Identity, scheduling, invoicing and reporting proxy over the RISE record store
// @BasePath /api
// @schemes http https

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	missing := cfg.MissingStoreIdentifiers()
	if len(missing) > 0 {
		logr.Warn("record store configuration incomplete", zap.Strings("missing", missing))
	}

	metricsSvc := service.NewMetricsService()
	validate := service.NewValidator()

	store := newStore(cfg, metricsSvc, logr)

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, continuing without cache", zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.DefaultTTL, logr, redisClient != nil)

	schema := cfg.Schema
	contactRepo := repository.NewContactRepository(store, cfg.Store.ContactBaseID)
	enrollmentRepo := repository.NewEnrollmentRepository(store, cfg.Store.ScheduleBaseID, schema.Enrollments)
	availabilityRepo := repository.NewAvailabilityRepository(store, cfg.Store.ScheduleBaseID, schema.Availability)
	classRepo := repository.NewClassRepository(store, cfg.Store.InvoicingBaseID, schema.Classes)
	invoiceRepo := repository.NewInvoiceRepository(store, cfg.Store.InvoicingBaseID, schema.Invoices)
	reportRepo := repository.NewReportRepository(store, cfg.Store.ReportsBaseID, cfg.Store.ReportsTableID)
	studentRepo := repository.NewStudentRepository(store, cfg.Store.ContactBaseID, schema.Students)

	lookupPool := jobs.NewPool("role-lookup", jobs.PoolConfig{Workers: len(schema.RoleTables), Logger: logr})
	confirmPool := jobs.NewPool("class-confirm", jobs.PoolConfig{Workers: 4, Logger: logr})

	verifier := googleid.NewVerifier(googleid.Options{
		ClientID:        cfg.Identity.GoogleClientID,
		VerifySignature: cfg.Identity.VerifySignature,
		CertsURL:        cfg.Identity.CertsURL,
		RefreshInterval: cfg.Identity.RefreshInterval,
	})
	if !verifier.Verifies() {
		logr.Warn("google credential signatures are not verified; set GOOGLE_CLIENT_ID to enable")
	}

	identitySvc := service.NewIdentityService(verifier, contactRepo, cacheSvc, lookupPool, service.IdentityServiceConfig{
		RoleTables:   schema.RoleTables,
		RoleCacheTTL: cfg.Identity.RoleCacheTTL,
	}, validate, logr)
	scheduleSvc := service.NewScheduleService(enrollmentRepo, availabilityRepo, metricsSvc, service.ScheduleServiceConfig{
		PreWriteCheck:   cfg.Scheduler.PreWriteCheck,
		DefaultTimezone: cfg.Scheduler.DefaultTimezone,
	}, validate, logr)
	calendarSvc := service.NewCalendarService(scheduleSvc, signedurl.NewSigner(cfg.Calendar.SignedURLSecret, cfg.Calendar.SignedURLTTL), service.CalendarServiceConfig{
		PublicBaseURL: cfg.Calendar.PublicBaseURL,
		FeedPath:      handler.FeedPath(cfg.APIPrefix),
	}, logr)
	invoicingSvc := service.NewInvoicingService(contactRepo, classRepo, invoiceRepo, confirmPool, service.InvoicingServiceConfig{
		RateTables: []string{schema.Mentors, schema.WritingCoaches},
	}, validate, logr)
	reportSvc := service.NewReportService(reportRepo, logr)
	studentSvc := service.NewStudentService(studentRepo, logr)

	checks := map[string]handler.ReadinessCheck{}
	if redisClient != nil {
		checks["redis"] = cacheRepo.Ping
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(internalmiddleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewStore(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst).OnReject(metricsSvc.RecordRateLimited)
		r.Use(ratelimit.Middleware(limiter, logr))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Bundle{
		Identity:  handler.NewIdentityHandler(identitySvc),
		Scheduler: handler.NewSchedulerHandler(scheduleSvc),
		Calendar:  handler.NewCalendarHandler(calendarSvc),
		Invoicing: handler.NewInvoicingHandler(invoicingSvc),
		Reports:   handler.NewReportHandler(reportSvc),
		Students:  handler.NewStudentHandler(studentSvc),
		Metrics:   handler.NewMetricsHandler(metricsSvc, missing, checks),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logr.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("server forced to shutdown", zap.Error(err))
	}
}

func newStore(cfg *config.Config, metricsSvc *service.MetricsService, logr *zap.Logger) airtable.Store {
	if cfg.Store.Driver == config.StoreDriverMemory {
		logr.Info("using in-memory record store")
		return airtable.NewMemoryStore()
	}
	return airtable.NewClient(airtable.ClientOptions{
		BaseURL:    cfg.Store.BaseURL,
		Token:      cfg.Store.Token,
		Timeout:    cfg.Store.Timeout,
		GetRetries: cfg.Store.GetRetries,
		Observer:   metricsSvc.ObserveUpstreamCall,
		Logger:     logr,
	})
}
