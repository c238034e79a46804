// Package db wires the gorm connection into the fx graph.
package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/returnly/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Module provides the database connection.
var Module = fx.Module("db",
	fx.Provide(Open),
)

// Params collects the dependencies needed to open the connection.
type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

// Open connects to the configured database.
func Open(p Params) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(p.Cfg.DatabaseDriver))

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dsn := p.Cfg.DatabaseDSN
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		dialector = sqlite.Open(dsn)
	case "postgres", "":
		if p.Cfg.DatabaseDSN == "" {
			return nil, fmt.Errorf("database dsn is required for driver %q", driver)
		}
		dialector = postgres.Open(p.Cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	p.Log.Info("database connected", zap.String("driver", driver))
	return conn, nil
}
