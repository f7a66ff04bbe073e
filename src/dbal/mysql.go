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

type mysqlDialect struct{}

func (d *mysqlDialect) Name() string { return MYSQL }

func (d *mysqlDialect) Placeholder(n int) string { return "?" }

func (d *mysqlDialect) QuoteIdent(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (d *mysqlDialect) BindLob(content []byte, t types.Type) any {
	if content == nil {
		return nil
	}
	if t == types.Clob {
		return string(content)
	}
	return content
}

func (d *mysqlDialect) LobColumnType(t types.Type) string {
	if t == types.Clob {
		return "LONGTEXT"
	}
	return "LONGBLOB"
}

func (d *mysqlDialect) tableListQuery(schema string) string {
	return fmt.Sprintf("SELECT table_name FROM information_schema.tables "+
		"WHERE table_type = 'BASE TABLE' AND table_schema = '%s' ORDER BY table_name", schema)
}

func (d *mysqlDialect) tableColumnsQuery(schema, table string) (string, []any) {
	query := "SELECT column_name, data_type, is_nullable FROM information_schema.columns " +
		"WHERE table_schema = ? AND table_name = ? ORDER BY ordinal_position"
	return query, []any{schema, table}
}

func mysqlCapabilities(serverVersion string) Capabilities {
	// The mysql wire protocol has no LOB locator API; the driver always
	// sends the full payload inline with the execute packet, so the content
	// must fit in max_allowed_packet but streaming binds never fail outright.
	return Capabilities{
		SupportsStreamingLobBinds: true,
		SupportsReturning:         false,
	}
}
