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
package dbal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/godror/godror"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crossdb-io/crossdb/src/types"
)

func TestExpandPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		dbType string
		query  string
		want   string
	}{
		{
			name:   "postgres dollar markers",
			dbType: POSTGRESQL,
			query:  "INSERT INTO t (a, b) VALUES (?, ?)",
			want:   "INSERT INTO t (a, b) VALUES ($1, $2)",
		},
		{
			name:   "oracle colon markers",
			dbType: ORACLE,
			query:  "UPDATE t SET a = ? WHERE b = ?",
			want:   "UPDATE t SET a = :1 WHERE b = :2",
		},
		{
			name:   "mysql keeps question marks",
			dbType: MYSQL,
			query:  "INSERT INTO t (a) VALUES (?)",
			want:   "INSERT INTO t (a) VALUES (?)",
		},
		{
			name:   "question mark inside string literal untouched",
			dbType: POSTGRESQL,
			query:  "SELECT * FROM t WHERE a = '?' AND b = ?",
			want:   "SELECT * FROM t WHERE a = '?' AND b = $1",
		},
		{
			name:   "question mark inside quoted identifier untouched",
			dbType: POSTGRESQL,
			query:  `SELECT "odd?col" FROM t WHERE b = ?`,
			want:   `SELECT "odd?col" FROM t WHERE b = $1`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDialect(tt.dbType)
			require.NotNil(t, d)
			assert.Equal(t, tt.want, expandPlaceholders(d, tt.query))
		})
	}
}

func TestNewDialectUnknownType(t *testing.T) {
	assert.Nil(t, newDialect("mongodb"))
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"media"`, (&postgresDialect{}).QuoteIdent("media"))
	assert.Equal(t, "`media`", (&mysqlDialect{}).QuoteIdent("media"))
	assert.Equal(t, `"media"`, (&oracleDialect{}).QuoteIdent("media"))
	assert.Equal(t, `"med""ia"`, (&sqliteDialect{}).QuoteIdent(`med"ia`))
}

func TestBindLobRepresentations(t *testing.T) {
	content := []byte("payload")

	// postgres: bytea bytes, text string
	assert.Equal(t, content, (&postgresDialect{}).BindLob(content, types.Blob))
	assert.Equal(t, "payload", (&postgresDialect{}).BindLob(content, types.Clob))
	assert.Nil(t, (&postgresDialect{}).BindLob(nil, types.Blob))

	// mysql: bytes for LONGBLOB, string for LONGTEXT
	assert.Equal(t, content, (&mysqlDialect{}).BindLob(content, types.Blob))
	assert.Equal(t, "payload", (&mysqlDialect{}).BindLob(content, types.Clob))

	// oracle: godror.Lob wrapper with the CLOB flag
	lob, ok := (&oracleDialect{}).BindLob(content, types.Clob).(godror.Lob)
	require.True(t, ok)
	assert.True(t, lob.IsClob)
	blob, ok := (&oracleDialect{}).BindLob(content, types.Blob).(godror.Lob)
	require.True(t, ok)
	assert.False(t, blob.IsClob)
	assert.Nil(t, (&oracleDialect{}).BindLob(nil, types.Blob))
}

func TestDetectCapabilities(t *testing.T) {
	caps := detectCapabilities(POSTGRESQL, "15.2")
	assert.True(t, caps.SupportsStreamingLobBinds)
	assert.True(t, caps.SupportsReturning)

	caps = detectCapabilities(POSTGRESQL, "9.6")
	assert.False(t, caps.SupportsStreamingLobBinds)

	caps = detectCapabilities(MYSQL, "8.0.32")
	assert.False(t, caps.SupportsReturning)

	caps = detectCapabilities(ORACLE, "19.3.0.0.0")
	assert.True(t, caps.SupportsStreamingLobBinds)
	caps = detectCapabilities(ORACLE, "11.2.0.4")
	assert.False(t, caps.SupportsStreamingLobBinds)

	caps = detectCapabilities(SQLITE, "3.45.1")
	assert.True(t, caps.SupportsStreamingLobBinds)
	assert.False(t, caps.SupportsReturning)
}

func TestIsUndefinedTable(t *testing.T) {
	undefined := &pgconn.PgError{Code: "42P01", Message: `relation "missing" does not exist`}
	assert.True(t, IsUndefinedTable(undefined))
	assert.True(t, IsUndefinedTable(fmt.Errorf("drop table: %w", undefined)))

	assert.False(t, IsUndefinedTable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUndefinedTable(errors.New(`relation "missing" does not exist`)))
	assert.False(t, IsUndefinedTable(nil))
}
