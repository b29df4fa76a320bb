// path: database/database.go
package database

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the MySQL handle. The caller owns the returned *gorm.DB and
// closes it via Close; there is no package-level singleton.
func Connect(log *zap.SugaredLogger) (*gorm.DB, error) {
	dsn, reason := resolveDSN()
	log.Infow("mysql: connecting", "dsn", redactDSN(dsn), "why", reason)

	start := time.Now()
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("mysql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(5)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}

	log.Infow("mysql: connected", "took", time.Since(start).Round(time.Millisecond))
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// resolveDSN returns the chosen DSN and a human-readable reason.
// An explicit DB_DSN always wins; otherwise the DSN is assembled from parts.
func resolveDSN() (string, string) {
	if dsn := strings.TrimSpace(os.Getenv("DB_DSN")); dsn != "" {
		return dsn, "explicit DB_DSN"
	}
	host := getenv("DB_HOST", "127.0.0.1")
	port := getenv("DB_PORT", "3306")
	user := getenv("DB_USER", "root")
	pass := os.Getenv("DB_PASS")
	name := getenv("DB_NAME", "cidade_perfeita")
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, pass, host, port, name)
	return dsn, "assembled from DB_HOST/DB_PORT/DB_USER/DB_PASS/DB_NAME"
}

// redactDSN masks the password portion of a user:pass@tcp(...) DSN for logs.
func redactDSN(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return dsn
	}
	colon := strings.Index(dsn[:at], ":")
	if colon < 0 {
		return dsn
	}
	return dsn[:colon] + ":****" + dsn[at:]
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
