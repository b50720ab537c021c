package db

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oxagroupe/oxa-crm/internal/models"
)

func allModels() []interface{} {
	return []interface{}{
		&models.User{}, &models.Client{}, &models.Article{},
		&models.Devis{}, &models.Commande{}, &models.Facture{},
		&models.DevisHistory{}, &models.DevisComment{},
	}
}

func gormConfig() *gorm.Config {
	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	return &gorm.Config{Logger: logger.Default.LogMode(logLevel)}
}

// ConnectAndMigrate opens the postgres database, retries while it
// comes up, then applies migrations. MIGRATIONS=1 runs the SQL files
// via golang-migrate; otherwise AutoMigrate keeps the schema current.
func ConnectAndMigrate(log *zap.Logger) (*gorm.DB, error) {
	dsn := GetNormalizedDSN()
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_DSN est vide, vérifiez la configuration de l'environnement")
	}
	var db *gorm.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = gorm.Open(postgres.Open(dsn), gormConfig())
		if err == nil {
			break
		}
		log.Warn("db connection retry", zap.Error(err))
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}

	if pingErr := db.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Info("db connected", zap.String("dsn", MaskDSN(dsn)))

	if v := strings.ToLower(os.Getenv("MIGRATIONS")); v == "1" || v == "true" || v == "yes" {
		if err := runSQLMigrations(dsn); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else {
		for _, m := range allModels() {
			if migErr := db.AutoMigrate(m); migErr != nil {
				return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
			}
		}
	}

	for _, table := range []string{"users", "clients", "devis"} {
		if !db.Migrator().HasTable(table) {
			return nil, errors.New("missing table after migration: " + table)
		}
	}
	return db, nil
}

// OpenDemo opens an in-memory sqlite database and loads the demo
// dataset. Used when no DATABASE_DSN is configured.
func OpenDemo(log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file:oxacrm_demo?mode=memory&cache=shared"), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open demo sqlite: %w", err)
	}
	for _, m := range allModels() {
		if migErr := db.AutoMigrate(m); migErr != nil {
			return nil, fmt.Errorf("automigrate %T: %w", m, migErr)
		}
	}
	if err := SeedDemo(db); err != nil {
		return nil, fmt.Errorf("seed demo: %w", err)
	}
	log.Info("demo mode: in-memory database seeded")
	return db, nil
}

// runSQLMigrations executes migrations in ./migrations using golang-migrate file source.
func runSQLMigrations(dsn string) error {
	m, err := migrate.New("file://migrations", dsn)
	if err != nil {
		return err
	}
	if err = m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
