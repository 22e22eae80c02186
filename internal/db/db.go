package db

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"multitool/internal/models"
	_ "modernc.org/sqlite"
)

const (
	keySummaryLength   = "summary.length"
	keySummaryStrategy = "summary.strategy"
	keyChatMaxTokens   = "chat.max_tokens"
	keyChatTemperature = "chat.temperature"
	keyLastDir         = "upload.last_dir"
)

// OpenPrefsDB opens (creating if needed) <dir>/prefs.db. Only settings live
// here; chat and summary content are never stored.
func OpenPrefsDB(dir string) (*sql.DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "prefs.db"))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// GetPref returns the stored value and whether it was present.
func GetPref(db *sql.DB, key string) (string, bool, error) {
	var v string
	err := db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func SetPref(db *sql.DB, key, value string, nowUnix int64) error {
	_, err := db.Exec(
		`INSERT INTO preferences(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key,
		value,
		nowUnix,
	)
	return err
}

// LoadSummarySettings overlays stored values on the defaults, ignoring
// anything that is no longer a recognized option.
func LoadSummarySettings(db *sql.DB) (models.SummarySettings, error) {
	s := models.DefaultSummarySettings()
	if v, ok, err := GetPref(db, keySummaryLength); err != nil {
		return s, err
	} else if ok && contains(models.SummaryLengths, v) {
		s.Length = v
	}
	if v, ok, err := GetPref(db, keySummaryStrategy); err != nil {
		return s, err
	} else if ok && contains(models.SummaryStrategies, v) {
		s.Strategy = v
	}
	return s, nil
}

func SaveSummarySettings(db *sql.DB, s models.SummarySettings) error {
	now := time.Now().Unix()
	if err := SetPref(db, keySummaryLength, s.Length, now); err != nil {
		return err
	}
	return SetPref(db, keySummaryStrategy, s.Strategy, now)
}

func LoadChatSettings(db *sql.DB) (models.ChatSettings, error) {
	s := models.DefaultChatSettings()
	if v, ok, err := GetPref(db, keyChatMaxTokens); err != nil {
		return s, err
	} else if ok {
		if n, perr := strconv.Atoi(v); perr == nil && n > 0 {
			s.MaxTokens = n
		}
	}
	if v, ok, err := GetPref(db, keyChatTemperature); err != nil {
		return s, err
	} else if ok {
		if f, perr := strconv.ParseFloat(v, 64); perr == nil && f >= 0 && f <= 1 {
			s.Temperature = f
		}
	}
	return s, nil
}

func SaveChatSettings(db *sql.DB, s models.ChatSettings) error {
	now := time.Now().Unix()
	if err := SetPref(db, keyChatMaxTokens, strconv.Itoa(s.MaxTokens), now); err != nil {
		return err
	}
	return SetPref(db, keyChatTemperature, strconv.FormatFloat(s.Temperature, 'f', -1, 64), now)
}

// LastUploadDir is the directory of the last chosen file, for prefilling the path input.
func LastUploadDir(db *sql.DB) string {
	v, _, err := GetPref(db, keyLastDir)
	if err != nil {
		return ""
	}
	return v
}

func SetLastUploadDir(db *sql.DB, dir string) error {
	return SetPref(db, keyLastDir, dir, time.Now().Unix())
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
