package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	auditservice "github.com/smallbiznis/returnly/internal/audit/service"
	"github.com/smallbiznis/returnly/internal/config"
	eligibilitydomain "github.com/smallbiznis/returnly/internal/eligibility/domain"
	"github.com/smallbiznis/returnly/internal/iban"
	"github.com/smallbiznis/returnly/internal/observability/logger"
	"github.com/smallbiznis/returnly/internal/observability/metrics"
	returndomain "github.com/smallbiznis/returnly/internal/returnrequest/domain"
	settingsdomain "github.com/smallbiznis/returnly/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Server wires the HTTP surface to the return services.
type Server struct {
	cfg            config.Config
	log            *zap.Logger
	db             *gorm.DB
	settingsSvc    settingsdomain.Service
	eligibilitySvc eligibilitydomain.Service
	returnSvc      returndomain.Service
	ibanValidator  iban.Validator
	auditSvc       *auditservice.Service
	limiter        *rateLimiter
}

type ServerParam struct {
	fx.In

	Cfg            config.Config
	Log            *zap.Logger
	DB             *gorm.DB
	SettingsSvc    settingsdomain.Service
	EligibilitySvc eligibilitydomain.Service
	ReturnSvc      returndomain.Service
	IBANValidator  iban.Validator
	AuditSvc       *auditservice.Service `optional:"true"`
}

func NewServer(p ServerParam) *Server {
	return &Server{
		cfg:            p.Cfg,
		log:            p.Log.Named("server"),
		db:             p.DB,
		settingsSvc:    p.SettingsSvc,
		eligibilitySvc: p.EligibilitySvc,
		returnSvc:      p.ReturnSvc,
		ibanValidator:  p.IBANValidator,
		auditSvc:       p.AuditSvc,
		limiter:        newRateLimiter(p.Cfg.RateLimit, p.Cfg.RateLimitWindow),
	}
}

type EngineParam struct {
	fx.In

	Cfg         config.Config
	Log         *zap.Logger
	Server      *Server
	HTTPMetrics *metrics.HTTPMetrics `optional:"true"`
}

// NewEngine builds the gin engine with logging and metrics middleware and
// registers every route.
func NewEngine(p EngineParam) *gin.Engine {
	if p.Cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	p.Server.registerIBANBinding()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		Logger:    p.Log,
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	if p.HTTPMetrics != nil {
		engine.Use(metrics.GinMiddleware(p.HTTPMetrics))
	}

	p.Server.RegisterRoutes(engine)
	return engine
}

// registerIBANBinding teaches the request binder the "iban" tag so malformed
// account numbers are rejected before the draft reaches the service.
func (s *Server) registerIBANBinding() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("iban", func(fl validator.FieldLevel) bool {
		return s.ibanValidator.Valid(fl.Field().String())
	})
}

// RegisterRoutes mounts the public and admin API.
func (s *Server) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", s.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")

	returns := api.Group("/returns")
	returns.Use(s.CustomerRequired())
	returns.GET("/eligible-orders", s.EligibleOrders)
	returns.POST("", s.CreateReturn)
	returns.GET("", s.ListReturns)
	returns.GET("/:id", s.GetReturn)

	admin := api.Group("/admin")
	admin.GET("/settings", s.GetSettings)
	admin.PUT("/settings", s.UpdateSettings)
	admin.PUT("/returns/:id/status", s.UpdateReturnStatus)
}

// Health reports process liveness.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

var Module = fx.Module("server",
	fx.Provide(NewServer),
	fx.Provide(NewEngine),
	fx.Invoke(RunHTTP),
)
