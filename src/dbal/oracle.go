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
	"bytes"
	"fmt"
	"strings"

	"github.com/godror/godror"
	hversion "github.com/hashicorp/go-version"

	"github.com/crossdb-io/crossdb/src/types"
)

type oracleDialect struct{}

func (d *oracleDialect) Name() string { return ORACLE }

func (d *oracleDialect) Placeholder(n int) string {
	return fmt.Sprintf(":%d", n)
}

func (d *oracleDialect) QuoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// BindLob wraps the content in a godror.Lob so the driver uses the LOB
// locator API instead of a plain RAW bind, which is capped at 32K.
func (d *oracleDialect) BindLob(content []byte, t types.Type) any {
	if content == nil {
		return nil
	}
	return godror.Lob{
		Reader: bytes.NewReader(content),
		IsClob: t == types.Clob,
	}
}

func (d *oracleDialect) LobColumnType(t types.Type) string {
	if t == types.Clob {
		return "CLOB"
	}
	return "BLOB"
}

func (d *oracleDialect) tableListQuery(schema string) string {
	return fmt.Sprintf("SELECT table_name FROM all_tables "+
		"WHERE owner = '%s' ORDER BY table_name", strings.ToUpper(schema))
}

func (d *oracleDialect) tableColumnsQuery(schema, table string) (string, []any) {
	query := "SELECT column_name, data_type, nullable FROM all_tab_columns " +
		"WHERE owner = :1 AND table_name = :2 ORDER BY column_id"
	return query, []any{strings.ToUpper(schema), strings.ToUpper(table)}
}

func oracleCapabilities(serverVersion string) Capabilities {
	caps := Capabilities{
		SupportsStreamingLobBinds: true,
		SupportsReturning:         true,
	}
	if serverVersion == "" {
		return caps
	}
	v, err := hversion.NewVersion(serverVersion)
	if err != nil {
		return caps
	}
	// Temp-LOB streaming through OCI is unreliable before 12c.
	minStreaming, _ := hversion.NewVersion("12.1")
	if v.LessThan(minStreaming) {
		caps.SupportsStreamingLobBinds = false
	}
	return caps
}
