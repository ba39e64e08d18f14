package database

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dlsystem/blogbackend/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenSQLite opens (and creates if needed) the SQLite database at path and
// migrates the schema.
func OpenSQLite(path string, debug bool) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, fs.ModePerm); err != nil {
			return nil, err
		}
	}

	gormLogger := logger.Discard
	if debug {
		gormLogger = logger.Default
	}

	c := &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *gorm.DB) error {
	for _, model := range []interface{}{
		&models.User{},
		&models.Blog{},
		&models.Comment{},
	} {
		if err := db.AutoMigrate(model); err != nil {
			return err
		}
	}
	return nil
}

// CloseSQLite releases the underlying connection pool.
func CloseSQLite(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
