package storage

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lachiem1/daypace/internal/keystore"
)

type Mode string

const (
	ModeSecure Mode = "secure"
	ModePlain  Mode = "plain"
)

const schemaVersion = 2

type Config struct {
	Mode Mode
	Path string
}

// Open opens the local preference database and applies migrations. Builds
// tagged sqlcipher encrypt the file with a key held in the OS keyring; other
// builds use a plain sqlite file.
func Open(ctx context.Context) (*sql.DB, Config, error) {
	cfg, err := configFromEnv()
	if err != nil {
		return nil, Config{}, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, Config{}, fmt.Errorf("create db directory: %w", err)
	}

	var db *sql.DB
	if cfg.Mode == ModeSecure {
		key, created, err := ensureDBKey()
		if err != nil {
			return nil, Config{}, fmt.Errorf("ensure secure db key: %w", err)
		}
		if created {
			if err := resetLocalDBFiles(cfg.Path); err != nil {
				return nil, Config{}, fmt.Errorf("reset db after key creation: %w", err)
			}
		}
		db, err = openSecureSQLite(cfg.Path, key)
		if err != nil {
			return nil, Config{}, err
		}
	} else {
		db, err = openPlainSQLite(cfg.Path)
		if err != nil {
			return nil, Config{}, err
		}
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, Config{}, err
	}

	return db, cfg, nil
}

// Wipe removes local database files for the resolved DB path and reports
// whether anything was there.
func Wipe() (Config, bool, error) {
	cfg, err := configFromEnv()
	if err != nil {
		return Config{}, false, err
	}
	existed, err := hasLocalDBFiles(cfg.Path)
	if err != nil {
		return Config{}, false, fmt.Errorf("inspect local db files: %w", err)
	}
	if err := resetLocalDBFiles(cfg.Path); err != nil {
		return Config{}, false, fmt.Errorf("wipe local db files: %w", err)
	}
	return cfg, existed, nil
}

// SecureModeSupported reports whether this build encrypts the database.
func SecureModeSupported() bool {
	return secureSQLiteSupported()
}

func configFromEnv() (Config, error) {
	mode := ModePlain
	if secureSQLiteSupported() {
		mode = ModeSecure
	}

	if dbPath := strings.TrimSpace(os.Getenv("DAYPACE_DB_PATH")); dbPath != "" {
		return Config{
			Mode: mode,
			Path: dbPath,
		}, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve user config directory: %w", err)
	}

	return Config{
		Mode: mode,
		Path: filepath.Join(configDir, "daypace", "daypace.db"),
	}, nil
}

func ensureDBKey() (key string, created bool, err error) {
	key, err = keystore.LoadDBKey()
	if err == nil && strings.TrimSpace(key) != "" {
		return key, false, nil
	}

	newKey, err := generateRandomKey()
	if err != nil {
		return "", false, err
	}

	if err := keystore.SaveDBKey(newKey); err != nil {
		return "", false, err
	}
	return newKey, true, nil
}

func generateRandomKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate random bytes: %w", err)
	}
	return base64.RawStdEncoding.EncodeToString(buf), nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	const bootstrapSchema = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  version INTEGER NOT NULL
);

INSERT OR IGNORE INTO schema_migrations (id, version) VALUES (1, 1);
`
	if _, err := db.ExecContext(ctx, bootstrapSchema); err != nil {
		return fmt.Errorf("run sqlite migrations: %w", err)
	}

	var currentVersion int
	if err := db.QueryRowContext(ctx, "SELECT version FROM schema_migrations WHERE id = 1").Scan(&currentVersion); err != nil {
		return fmt.Errorf("read sqlite schema version: %w", err)
	}

	if currentVersion < 2 {
		if err := applyV2Migrations(ctx, db); err != nil {
			return err
		}
		currentVersion = 2
	}

	if currentVersion > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", currentVersion, schemaVersion)
	}

	return nil
}

func applyV2Migrations(ctx context.Context, db *sql.DB) (err error) {
	const schema = `
CREATE TABLE IF NOT EXISTS app_config (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sqlite migration v2 transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("run sqlite v2 migrations: %w", err)
	}
	if _, err = tx.ExecContext(ctx, "UPDATE schema_migrations SET version = 2 WHERE id = 1"); err != nil {
		return fmt.Errorf("update sqlite schema version to 2: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit sqlite v2 migrations: %w", err)
	}
	return nil
}

func localDBFiles(path string) []string {
	return []string{
		path,
		path + "-wal",
		path + "-shm",
	}
}

func hasLocalDBFiles(path string) (bool, error) {
	for _, p := range localDBFiles(path) {
		_, err := os.Stat(p)
		if err == nil {
			return true, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return false, err
		}
	}
	return false, nil
}

func resetLocalDBFiles(path string) error {
	for _, p := range localDBFiles(path) {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}
