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
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTables(t *testing.T) {
	conn, mock := newMockConn(t, POSTGRESQL)

	mock.ExpectQuery(`SELECT table_name FROM information_schema.tables ` +
		`WHERE table_type = 'BASE TABLE' AND table_schema = 'public' ORDER BY table_name`).
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).
			AddRow("docs").
			AddRow("media"))

	tables, err := conn.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"docs", "media"}, tables)
}

func TestGetTableColumns(t *testing.T) {
	conn, mock := newMockConn(t, POSTGRESQL)

	mock.ExpectQuery(`SELECT column_name, data_type, is_nullable FROM information_schema.columns `+
		`WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`).
		WithArgs("public", "media").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}).
			AddRow("id", "integer", "NO").
			AddRow("content", "bytea", "YES"))

	cols, err := conn.GetTableColumns(context.Background(), "media")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, ColumnInfo{Name: "id", DataType: "integer", Nullable: false}, cols[0])
	assert.Equal(t, ColumnInfo{Name: "content", DataType: "bytea", Nullable: true}, cols[1])
}

func TestGetTableColumnsMissingTable(t *testing.T) {
	conn, mock := newMockConn(t, POSTGRESQL)

	mock.ExpectQuery(`SELECT column_name, data_type, is_nullable FROM information_schema.columns `+
		`WHERE table_schema = $1 AND table_name = $2 ORDER BY ordinal_position`).
		WithArgs("public", "missing").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable"}))

	_, err := conn.GetTableColumns(context.Background(), "missing")
	assert.ErrorContains(t, err, "table missing not found")
}

func TestSchemaOrDefault(t *testing.T) {
	tests := []struct {
		conf Config
		want string
	}{
		{Config{DBType: POSTGRESQL}, "public"},
		{Config{DBType: MYSQL, DBName: "appdb"}, "appdb"},
		{Config{DBType: ORACLE, User: "APP"}, "APP"},
		{Config{DBType: POSTGRESQL, Schema: "sales"}, "sales"},
		{Config{DBType: SQLITE}, ""},
	}
	for _, tt := range tests {
		conn := &Conn{conf: &tt.conf}
		assert.Equal(t, tt.want, conn.schemaOrDefault())
	}
}
