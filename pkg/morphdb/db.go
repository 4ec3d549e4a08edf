package morphdb

import (
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/filemorph/morph/pkg/morphdb/model"
	"github.com/mitchellh/go-homedir"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultDBPath returns the sqlite database location (~/.morph/morph.db),
// unless MORPH_DB overrides it.
func DefaultDBPath() string {
	if p := os.Getenv("MORPH_DB"); p != "" {
		return p
	}

	dir, err := homedir.Dir()
	if err != nil {
		return "morph.db"
	}

	return filepath.Join(dir, ".morph", "morph.db")
}

const maxDBRetries = 5

// MustConnectToDB opens the sqlite database, retrying maxDBRetries times
// before giving up with log.Fatalf. Between attempts it sleeps for 3 seconds.
// The snapshots table is migrated on a successful connect.
func MustConnectToDB(dbPath string) *gorm.DB {
	var (
		err error
		db  *gorm.DB
	)

	if dir := filepath.Dir(dbPath); dir != "." {
		_ = os.MkdirAll(dir, 0755)
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	retryCount := 1
	for {
		db, err = gorm.Open(sqlite.Open(dbPath), gormConfig)
		switch {
		case err == nil:
			if err := db.AutoMigrate(&model.Snapshot{}); err != nil {
				log.Fatalf("Failed to migrate db (%s): %s", dbPath, err)
			}
			return db
		case retryCount >= maxDBRetries:
			log.Fatalf("Failed to open db (%s): %s", dbPath, err)
		default:
			retryCount++
			time.Sleep(3 * time.Second)
		}
	}
}
