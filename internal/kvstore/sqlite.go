package kvstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver.
)

// SQLiteStore — файловое key-value хранилище поверх SQLite.
// Одна таблица kv(key, value), одна запись на ключ.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite открывает (или создаёт) файл хранилища по указанному пути
// и готовит схему. Родительские каталоги создаются при необходимости.
func OpenSQLite(path string) (*SQLiteStore, error) {
	const op = "kvstore.OpenSQLite"

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	// SQLite допускает только одного пишущего.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get возвращает значение по ключу и признак его наличия.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	const op = "kvstore.Get"
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return value, true, nil
}

// Set записывает значение по ключу, перезаписывая существующее.
func (s *SQLiteStore) Set(key, value string) error {
	const op = "kvstore.Set"
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет ключ; отсутствие ключа не является ошибкой.
func (s *SQLiteStore) Delete(key string) error {
	const op = "kvstore.Delete"
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает подключение к файлу хранилища.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
