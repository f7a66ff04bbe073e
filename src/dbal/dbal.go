/*
Copyright (c) CrossDB, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package dbal provides a uniform connection façade over PostgreSQL,
// YugabyteDB, MySQL, Oracle and SQLite. Statements are written with `?`
// placeholders and typed positional parameters; the dialect layer translates
// both to whatever the backend driver expects, including large-object binds.
package dbal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/godror/godror"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/crossdb-io/crossdb/src/queryredact"
	"github.com/crossdb-io/crossdb/src/types"
)

// ColumnValue is one column of an INSERT/UPDATE row, or one predicate of a
// WHERE clause, with the logical type governing how the value is bound.
type ColumnValue struct {
	Column string
	Value  any
	Type   types.Type
}

type Conn struct {
	conf          *Config
	db            *sql.DB
	dialect       Dialect
	caps          Capabilities
	serverVersion string
}

var driverNames = map[string]string{
	POSTGRESQL: "pgx",
	YUGABYTEDB: "pgx",
	MYSQL:      "mysql",
	ORACLE:     "godror",
	SQLITE:     "sqlite3",
}

// Open connects to the backend described by conf, pings it, and detects the
// server version and driver capabilities.
func Open(ctx context.Context, conf *Config) (*Conn, error) {
	dialect := newDialect(conf.DBType)
	if dialect == nil {
		return nil, fmt.Errorf("unknown database type %q", conf.DBType)
	}
	uri, err := conf.GetConnectionUri()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driverNames[conf.DBType], uri)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", conf.DBType, err)
	}
	if conf.NumConnections > 0 {
		db.SetMaxOpenConns(conf.NumConnections)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", conf.DBType, err)
	}
	conn := &Conn{conf: conf, db: db, dialect: dialect}
	conn.serverVersion, err = conn.queryServerVersion(ctx)
	if err != nil {
		log.Warnf("could not detect %s server version: %v", conf.DBType, err)
	}
	conn.caps = detectCapabilities(conf.DBType, conn.serverVersion)
	log.Infof("Connected to %s (server version %q)", conf.DBType, conn.serverVersion)
	return conn, nil
}

// OpenDB wraps an existing database/sql handle with the dialect for dbType.
// Used by tests (sqlmock) and callers that manage the handle themselves.
func OpenDB(db *sql.DB, dbType string) (*Conn, error) {
	dialect := newDialect(dbType)
	if dialect == nil {
		return nil, fmt.Errorf("unknown database type %q", dbType)
	}
	return &Conn{
		conf:    &Config{DBType: dbType},
		db:      db,
		dialect: dialect,
		caps:    detectCapabilities(dbType, ""),
	}, nil
}

func (c *Conn) queryServerVersion(ctx context.Context) (string, error) {
	var query string
	switch c.conf.DBType {
	case POSTGRESQL, YUGABYTEDB:
		query = "SELECT setting FROM pg_settings WHERE name = 'server_version'"
	case MYSQL:
		query = "SELECT VERSION()"
	case ORACLE:
		query = "SELECT version FROM v$instance"
	case SQLITE:
		query = "SELECT sqlite_version()"
	}
	var v string
	if err := c.db.QueryRowContext(ctx, query).Scan(&v); err != nil {
		return "", err
	}
	// mysql reports "8.0.32-0ubuntu0.22.04.2" style strings.
	v, _, _ = strings.Cut(v, "-")
	return v, nil
}

func (c *Conn) Dialect() Dialect           { return c.dialect }
func (c *Conn) Capabilities() Capabilities { return c.caps }
func (c *Conn) ServerVersion() string      { return c.serverVersion }
func (c *Conn) DB() *sql.DB                { return c.db }

func (c *Conn) Close() error {
	return c.db.Close()
}

// Insert inserts one row and returns the number of rows affected.
func (c *Conn) Insert(ctx context.Context, table string, values []ColumnValue) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("insert into %s: no column values", table)
	}
	cols := make([]string, len(values))
	marks := make([]string, len(values))
	for i, cv := range values {
		cols[i] = c.dialect.QuoteIdent(cv.Column)
		marks[i] = "?"
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.dialect.QuoteIdent(table), strings.Join(cols, ", "), strings.Join(marks, ", "))
	return c.execColumnValues(ctx, query, values)
}

// Update updates the rows matching all of the where predicates (ANDed
// equality) and returns the number of rows affected.
func (c *Conn) Update(ctx context.Context, table string, set []ColumnValue, where []ColumnValue) (int64, error) {
	if len(set) == 0 {
		return 0, fmt.Errorf("update %s: no column values", table)
	}
	assignments := make([]string, len(set))
	for i, cv := range set {
		assignments[i] = c.dialect.QuoteIdent(cv.Column) + " = ?"
	}
	query := fmt.Sprintf("UPDATE %s SET %s%s",
		c.dialect.QuoteIdent(table), strings.Join(assignments, ", "), c.whereClause(where))
	return c.execColumnValues(ctx, query, append(append([]ColumnValue{}, set...), where...))
}

// Delete deletes the rows matching all of the where predicates and returns
// the number of rows affected.
func (c *Conn) Delete(ctx context.Context, table string, where []ColumnValue) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s%s", c.dialect.QuoteIdent(table), c.whereClause(where))
	return c.execColumnValues(ctx, query, where)
}

func (c *Conn) whereClause(where []ColumnValue) string {
	if len(where) == 0 {
		return ""
	}
	predicates := make([]string, len(where))
	for i, cv := range where {
		predicates[i] = c.dialect.QuoteIdent(cv.Column) + " = ?"
	}
	return " WHERE " + strings.Join(predicates, " AND ")
}

func (c *Conn) execColumnValues(ctx context.Context, query string, values []ColumnValue) (int64, error) {
	stmt, err := c.Prepare(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for i, cv := range values {
		if err := stmt.BindValue(i+1, cv.Value, cv.Type); err != nil {
			return 0, fmt.Errorf("bind %s: %w", cv.Column, err)
		}
	}
	return stmt.Execute(ctx)
}

// ExecuteStatement runs a non-row-returning statement with plain (untyped)
// arguments and returns the number of rows affected.
func (c *Conn) ExecuteStatement(ctx context.Context, query string, args ...any) (int64, error) {
	expanded := expandPlaceholders(c.dialect, query)
	log.Infof("Executing on %s: %s", c.dialect.Name(), queryredact.Redact(c.dialect.Name(), expanded))
	res, err := c.db.ExecContext(ctx, expanded, args...)
	if err != nil {
		return 0, fmt.Errorf("execute statement: %w", err)
	}
	return res.RowsAffected()
}

// FetchAllNumeric runs the query and returns every row as an ordered value
// slice, the way the drivers surface them. Use types.Type.ConvertToValue for
// typed access to individual cells.
func (c *Conn) FetchAllNumeric(ctx context.Context, query string, args ...any) ([][]any, error) {
	expanded := expandPlaceholders(c.dialect, query)
	log.Infof("Querying on %s: %s", c.dialect.Name(), queryredact.Redact(c.dialect.Name(), expanded))
	rows, err := c.db.QueryContext(ctx, expanded, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read column list: %w", err)
	}
	var result [][]any
	for rows.Next() {
		row := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range row {
			dest[i] = &row[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// FetchNumeric returns the first row of the query as an ordered value slice,
// or sql.ErrNoRows when the result set is empty.
func (c *Conn) FetchNumeric(ctx context.Context, query string, args ...any) ([]any, error) {
	all, err := c.FetchAllNumeric(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, sql.ErrNoRows
	}
	return all[0], nil
}

// FetchOne returns the first column of the first row, or sql.ErrNoRows.
func (c *Conn) FetchOne(ctx context.Context, query string, args ...any) (any, error) {
	row, err := c.FetchNumeric(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, sql.ErrNoRows
	}
	return row[0], nil
}
