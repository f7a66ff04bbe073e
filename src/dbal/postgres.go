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

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	version "github.com/mcuadros/go-version"

	"github.com/crossdb-io/crossdb/src/types"
)

// Minimum server version with scram-sha-256 as the default auth and fully
// supported bytea streaming through the extended protocol.
const PG_MIN_SUPPORTED_VERSION = "11.0"

type postgresDialect struct{}

func (d *postgresDialect) Name() string { return POSTGRESQL }

func (d *postgresDialect) Placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

func (d *postgresDialect) QuoteIdent(ident string) string {
	return pq.QuoteIdentifier(ident)
}

func (d *postgresDialect) BindLob(content []byte, t types.Type) any {
	if content == nil {
		return nil
	}
	if t == types.Clob {
		return string(content)
	}
	return content // bytea
}

func (d *postgresDialect) LobColumnType(t types.Type) string {
	if t == types.Clob {
		return "TEXT"
	}
	return "BYTEA"
}

func (d *postgresDialect) tableListQuery(schema string) string {
	if schema == "" {
		schema = "public"
	}
	return fmt.Sprintf(`SELECT table_name FROM information_schema.tables `+
		`WHERE table_type = 'BASE TABLE' AND table_schema = %s ORDER BY table_name`,
		pq.QuoteLiteral(schema))
}

func (d *postgresDialect) tableColumnsQuery(schema, table string) (string, []any) {
	if schema == "" {
		schema = "public"
	}
	query := `SELECT column_name, data_type, is_nullable FROM information_schema.columns ` +
		`WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`
	return query, []any{schema, table}
}

func postgresCapabilities(serverVersion string) Capabilities {
	caps := Capabilities{
		SupportsStreamingLobBinds: true,
		SupportsReturning:         true,
	}
	if serverVersion != "" && version.CompareSimple(serverVersion, PG_MIN_SUPPORTED_VERSION) < 0 {
		caps.SupportsStreamingLobBinds = false
	}
	return caps
}

// IsUndefinedTable reports whether err is the postgres "relation does not
// exist" error. Fixture cleanup uses it to ignore tables already dropped.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return false
}
