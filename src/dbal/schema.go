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
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// ColumnInfo describes one column as reported by the backend catalog.
type ColumnInfo struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Nullable bool   `json:"nullable"`
}

// ListTables returns the base table names visible in the configured schema.
func (c *Conn) ListTables(ctx context.Context) ([]string, error) {
	query := c.dialect.tableListQuery(c.schemaOrDefault())
	log.Infof("Listing tables: %s", query)
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// GetTableColumns returns the columns of table in ordinal position order.
func (c *Conn) GetTableColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	query, args := c.dialect.tableColumnsQuery(c.schemaOrDefault(), table)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	defer rows.Close()

	var columns []ColumnInfo
	for rows.Next() {
		var col ColumnInfo
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable); err != nil {
			return nil, fmt.Errorf("scan column of %s: %w", table, err)
		}
		// information_schema reports YES/NO; oracle's all_tab_columns Y/N.
		col.Nullable = nullable == "YES" || nullable == "Y"
		columns = append(columns, col)
	}
	if columns == nil && rows.Err() == nil {
		return nil, fmt.Errorf("table %s not found", table)
	}
	return columns, rows.Err()
}

func (c *Conn) schemaOrDefault() string {
	if c.conf.Schema != "" {
		return c.conf.Schema
	}
	switch c.conf.DBType {
	case POSTGRESQL, YUGABYTEDB:
		return "public"
	case MYSQL:
		return c.conf.DBName
	case ORACLE:
		return c.conf.User
	}
	return ""
}
