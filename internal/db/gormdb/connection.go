package gormdb

import (
	"strings"

	"github.com/oggyb/mollie-sms/internal/db"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GormDB struct {
	conn *gorm.DB
}

// New opens a Postgres connection. logLevel follows the application's level
// names; anything below warn keeps GORM's SQL tracing quiet. Driver errors
// are translated to GORM's (e.g. gorm.ErrDuplicatedKey).
func New(dsn, logLevel string) (*GormDB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(gormLogLevel(logLevel)),
	})
	if err != nil {
		return nil, err
	}
	return &GormDB{conn: conn}, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug":
		return logger.Info
	case "warn", "warning":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

func (g *GormDB) Conn() any {
	return g.conn
}

// Close releases the underlying connection pool.
func (g *GormDB) Close() error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// verify it satisfies db.DB
var _ db.DB = (*GormDB)(nil)
