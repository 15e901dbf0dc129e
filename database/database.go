package database

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trainr/config"
	"trainr/logger"
	"trainr/models"
	"trainr/models/course"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, runs migrations and stores the handle globally.
func ConnectDb() {
	conf := config.AppConfig

	db, err := Open(conf.DBDriver, DSN(conf))
	if err != nil {
		logger.Log.Fatal("failed to connect to database", "driver", conf.DBDriver, "error", err)
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Fatal("failed to get database instance", "error", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(db); err != nil {
		logger.Log.Fatal("migration failed", "error", err)
	}

	Database = DbInstance{Db: db}
}

// DSN builds the connection string for the configured driver. For sqlite DB_NAME is the file path.
func DSN(conf *config.Config) string {
	switch conf.DBDriver {
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			conf.DBUser, conf.DBPassword, conf.DBHost, conf.DBPort, conf.DBName)
	case "sqlite":
		return conf.DBName
	default:
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			conf.DBHost, conf.DBUser, conf.DBPassword, conf.DBName, conf.DBPort)
	}
}

// Open connects with one of the supported gorm drivers.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s database", driver)
	}
	return db, nil
}

// Migrate performs database migrations
func Migrate(db *gorm.DB) error {
	logger.Log.Info("running migrations")

	err := db.AutoMigrate(
		&models.User{},
		&course.Course{},
		&course.Module{},
		&course.Lesson{},
		&course.ProgressRecord{},
		&course.Enrollment{},
	)
	if err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	logger.Log.Info("migrations completed")
	return nil
}
