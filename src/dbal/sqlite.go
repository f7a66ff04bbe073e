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
	"fmt"
	"strings"

	"github.com/crossdb-io/crossdb/src/types"
)

type sqliteDialect struct{}

func (d *sqliteDialect) Name() string { return SQLITE }

func (d *sqliteDialect) Placeholder(n int) string { return "?" }

func (d *sqliteDialect) QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (d *sqliteDialect) BindLob(content []byte, t types.Type) any {
	if content == nil {
		return nil
	}
	if t == types.Clob {
		return string(content)
	}
	return content
}

func (d *sqliteDialect) LobColumnType(t types.Type) string {
	if t == types.Clob {
		return "TEXT"
	}
	return "BLOB"
}

func (d *sqliteDialect) tableListQuery(schema string) string {
	return "SELECT name FROM sqlite_master WHERE type = 'table' " +
		"AND name NOT LIKE 'sqlite_%' ORDER BY name"
}

func (d *sqliteDialect) tableColumnsQuery(schema, table string) (string, []any) {
	// PRAGMA table_info does not accept bind parameters.
	return fmt.Sprintf("SELECT name, type, CASE \"notnull\" WHEN 0 THEN 'YES' ELSE 'NO' END "+
		"FROM pragma_table_info('%s')", strings.ReplaceAll(table, "'", "''")), nil
}

func sqliteCapabilities(serverVersion string) Capabilities {
	return Capabilities{
		SupportsStreamingLobBinds: true,
		SupportsReturning:         false,
	}
}
