package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	_ "modernc.org/sqlite" // pure Go SQLite driver, no cgo

	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/errs"
)

type Database struct {
	projectRepo       *ProjectRepo
	certificationRepo *CertificationRepo
	contactRepo       *ContactRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:       NewProjectRepo(db),
		certificationRepo: NewCertificationRepo(db),
		contactRepo:       NewContactRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) CertificationRepo() *CertificationRepo {
	return d.certificationRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

// gormLogWriter routes gorm's slow-query and error output through zerolog
type gormLogWriter struct {
	logger zerolog.Logger
}

func (w gormLogWriter) Printf(format string, args ...any) {
	w.logger.Warn().Msgf(format, args...)
}

func newGormLogger() logger.Interface {
	return logger.New(
		gormLogWriter{logger: log.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// Open connects to the configured store. Postgres is the production Document Store;
// SQLite serves local development and tests.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		PrepareStmt:    false,
		Logger:         newGormLogger(),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Type {
	case "postgres":
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  cfg.DSN,
			PreferSimpleProtocol: true,
		}), gormCfg)
	case "sqlite":
		db, err = OpenSQLite(cfg.SQLitePath, gormCfg)
	default:
		return nil, errs.NewConfigError("DB_TYPE", fmt.Errorf("unsupported value %q", cfg.Type))
	}
	if err != nil {
		return nil, errs.NewDatabaseError("connect to", cfg.Type, err)
	}

	if cfg.ReplicaDSN != "" && cfg.Type == "postgres" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  cfg.ReplicaDSN,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, errs.NewDatabaseError("register replica for", cfg.Type, err)
		}
		log.Info().Msg("read replica registered")
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, errs.NewDatabaseError("ping", cfg.Type, err)
	}

	return db, nil
}

// OpenSQLite opens path through modernc.org/sqlite. One open connection keeps writers serialized.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: newGormLogger(), TranslateError: true}
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Exec("PRAGMA journal_mode = WAL;").Error; err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	return db, nil
}

// Close releases the underlying connection pool
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
