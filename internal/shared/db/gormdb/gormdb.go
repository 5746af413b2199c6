package gormdb

import (
	"fmt"
	"strings"

	"github.com/covergen/covergen-api/internal/shared/config"
	"github.com/covergen/covergen-api/internal/shared/logutil"
	"github.com/jinzhu/gorm"
	_ "github.com/mattes/migrate/database/postgres" // init pg driver
	_ "github.com/mattes/migrate/database/sqlite3"  // init sqlite driver
	"github.com/pkg/errors"
)

func GetDBConnString(cfg config.Config) (string, error) {
	dbURL := cfg.GetString("DATABASE_URL")
	if dbURL != "" {
		dbURL = strings.Replace(dbURL, "postgresql", "postgres", 1)
		return dbURL, nil
	}

	dbPath := cfg.GetString("DB_PATH")
	if dbPath == "" {
		dbPath = "database.sqlite"
	}

	return fmt.Sprintf("sqlite3://%s", dbPath), nil
}

// openString converts a connection string to the form the adapter's
// driver expects: the sqlite driver takes a bare file path, not a URL.
func openString(adapter, connString string) string {
	if adapter == "sqlite3" {
		return strings.TrimPrefix(connString, "sqlite3://")
	}
	return connString
}

func GetDB(cfg config.Config, log logutil.Log, connString string) (*gorm.DB, error) {
	if connString == "" {
		var err error
		connString, err = GetDBConnString(cfg)
		if err != nil {
			return nil, err
		}
	}
	adapter := strings.Split(connString, "://")[0]
	isDebug := cfg.GetBool("DEBUG_DB", false)
	if isDebug {
		log.Infof("Connecting to database %s", connString)
	}

	db, err := gorm.Open(adapter, openString(adapter, connString))
	if err != nil {
		return nil, errors.Wrap(err, "can't open db connection")
	}

	if isDebug {
		db = db.Debug()
	}

	db.SetLogger(logger{
		log: log,
	})

	return db, nil
}
