package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/returnly/internal/audit"
	"github.com/smallbiznis/returnly/internal/clock"
	"github.com/smallbiznis/returnly/internal/config"
	"github.com/smallbiznis/returnly/internal/eligibility"
	"github.com/smallbiznis/returnly/internal/events"
	"github.com/smallbiznis/returnly/internal/iban"
	"github.com/smallbiznis/returnly/internal/migration"
	"github.com/smallbiznis/returnly/internal/notification"
	"github.com/smallbiznis/returnly/internal/observability"
	"github.com/smallbiznis/returnly/internal/order"
	"github.com/smallbiznis/returnly/internal/returnrequest"
	"github.com/smallbiznis/returnly/internal/scheduler"
	"github.com/smallbiznis/returnly/internal/seed"
	"github.com/smallbiznis/returnly/internal/server"
	"github.com/smallbiznis/returnly/internal/settings"
	"github.com/smallbiznis/returnly/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Invoke(func(log *zap.Logger, cfg config.Config) {
			log.Info("starting returnly",
				zap.String("version", version),
				zap.String("environment", cfg.Environment),
			)
		}),
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			return seed.EnsureDefaultSettings(conn)
		}),
		clock.Module,
		audit.Module,
		events.Module,
		iban.Module,
		notification.Module,
		settings.Module,
		order.Module,
		eligibility.Module,
		returnrequest.Module,
		scheduler.Module,
		server.Module,
	)
	app.Run()
}
