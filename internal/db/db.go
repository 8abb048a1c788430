package db

import (
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

const defaultName = "damagecontrol"

type Config struct {
	// Name isolates one in-memory database from another in the same process.
	Name string
}

func dsn(name string) string {
	if name == "" {
		name = defaultName
	}
	return fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", url.PathEscape(name))
}

// Open opens the in-memory SQLite store. The pool holds a single connection
// that is never recycled, so the database lives until Close.
func Open(cfg Config) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dsn(cfg.Name))
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}
