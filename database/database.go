package database

import (
	"eduverse/config"
	"eduverse/models"
	"eduverse/models/course"
	"eduverse/models/quiz"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, sizes the pool and stores the
// handle in Database.
func ConnectDb(cfg *config.Config) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Database.Driver {
	case "sqlite":
		db, err = OpenSQLite(cfg.Database.SQLitePath, gormLogger.Warn)
	default:
		db, err = openPostgres(cfg)
	}
	if err != nil {
		return nil, err
	}

	Database = DbInstance{Db: db}
	return db, nil
}

func openPostgres(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)
	return OpenPostgres(dsn, gormLogger.Warn)
}

// OpenPostgres connects with the given DSN.
func OpenPostgres(dsn string, level gormLogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), gormConfig(level))
	if err != nil {
		return nil, errors.Wrap(err, "connect to postgres")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get database instance")
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// OpenSQLite opens a sqlite database. In-memory DSNs must use shared cache
// (file:name?mode=memory&cache=shared) so the pool sees one database.
func OpenSQLite(dsn string, level gormLogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(level))
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get database instance")
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

// MemoryDSN names a private in-memory sqlite database.
func MemoryDSN(name string) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

func gormConfig(level gormLogger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         NewGormLogger(level),
		TranslateError: true,
	}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	LogMigration("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.OTP{},
		&models.LoginHistory{},
		&models.BalanceHistory{},
		&models.RewardHistory{},
		&models.PaymentOrder{},
		&models.SalaryPayout{},
		&course.Course{},
		&course.Module{},
		&course.CourseContent{},
		&course.Enrollment{},
		&course.EnrollmentModule{},
		&course.SaleEvent{},
		&quiz.Quiz{},
		&quiz.Question{},
		&quiz.QuizAttempt{},
		&quiz.Leaderboard{},
		&quiz.LeaderboardEntry{},
	)
	if err != nil {
		return errors.Wrap(err, "migration failed")
	}

	LogMigration("Migrations completed successfully.")
	return nil
}
