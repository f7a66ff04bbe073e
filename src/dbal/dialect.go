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
	"strings"

	"github.com/crossdb-io/crossdb/src/types"
)

// Dialect captures the per-backend SQL differences the façade has to bridge:
// placeholder syntax, identifier quoting, the driver-level representation of
// large objects, and the catalog queries used for introspection.
type Dialect interface {
	Name() string

	// Placeholder returns the positional parameter marker for the n-th
	// parameter (1-based), e.g. $1 for postgres, :1 for oracle, ? for mysql.
	Placeholder(n int) string

	QuoteIdent(ident string) string

	// BindLob converts fully materialized LOB content into the driver
	// argument for this backend. content is nil for SQL NULL.
	BindLob(content []byte, t types.Type) any

	// LobColumnType returns the DDL type name for a LOB column, used by
	// fixture helpers.
	LobColumnType(t types.Type) string

	tableListQuery(schema string) string
	tableColumnsQuery(schema, table string) (query string, args []any)
}

// expandPlaceholders rewrites `?` markers to the dialect's native positional
// markers. Quoted string literals and quoted identifiers are left untouched.
func expandPlaceholders(d Dialect, query string) string {
	if d.Placeholder(1) == "?" {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	var inQuote rune
	for _, r := range query {
		switch {
		case inQuote != 0:
			if r == inQuote {
				inQuote = 0
			}
			sb.WriteRune(r)
		case r == '\'' || r == '"':
			inQuote = r
			sb.WriteRune(r)
		case r == '?':
			n++
			sb.WriteString(d.Placeholder(n))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func newDialect(dbType string) Dialect {
	switch dbType {
	case POSTGRESQL, YUGABYTEDB:
		return &postgresDialect{}
	case MYSQL:
		return &mysqlDialect{}
	case ORACLE:
		return &oracleDialect{}
	case SQLITE:
		return &sqliteDialect{}
	}
	return nil
}
