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
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crossdb-io/crossdb/src/types"
)

// Functional round-trips against a real in-memory sqlite database. sqlite is
// the one backend the unit suite can exercise end to end; the other backends
// are covered by the integration suite.

func newSqliteConn(t *testing.T) *Conn {
	t.Helper()
	conn, err := Open(context.Background(), &Config{
		DBType:   SQLITE,
		FilePath: ":memory:",
		// every pooled connection would get its own in-memory database
		NumConnections: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func createLobTable(t *testing.T, conn *Conn) string {
	t.Helper()
	table := "media_" + uuid.NewString()[:8]
	ddl := fmt.Sprintf("CREATE TABLE %s (id INTEGER PRIMARY KEY, name TEXT, content %s)",
		conn.Dialect().QuoteIdent(table), conn.Dialect().LobColumnType(types.Blob))
	_, err := conn.ExecuteStatement(context.Background(), ddl)
	require.NoError(t, err)
	return table
}

func fetchLobContent(t *testing.T, conn *Conn, table string, id int) []byte {
	t.Helper()
	value, err := conn.FetchOne(context.Background(),
		fmt.Sprintf("SELECT content FROM %s WHERE id = ?", conn.Dialect().QuoteIdent(table)), id)
	require.NoError(t, err)
	if value == nil {
		return nil
	}
	converted, err := types.Blob.ConvertToValue(value)
	require.NoError(t, err)
	content, err := io.ReadAll(converted.(io.Reader))
	require.NoError(t, err)
	return content
}

func TestSqliteNullLobRoundTrip(t *testing.T) {
	conn := newSqliteConn(t)
	table := createLobTable(t, conn)

	_, err := conn.Insert(context.Background(), table, []ColumnValue{
		{Column: "id", Value: 1, Type: types.Integer},
		{Column: "content", Value: nil, Type: types.Blob},
	})
	require.NoError(t, err)

	value, err := conn.FetchOne(context.Background(),
		fmt.Sprintf("SELECT content FROM %s WHERE id = ?", conn.Dialect().QuoteIdent(table)), 1)
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestSqliteStringAsBlobRoundTrip(t *testing.T) {
	conn := newSqliteConn(t)
	table := createLobTable(t, conn)

	_, err := conn.Insert(context.Background(), table, []ColumnValue{
		{Column: "id", Value: 1, Type: types.Integer},
		{Column: "content", Value: "a string payload", Type: types.Blob},
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("a string payload"), fetchLobContent(t, conn, table, 1))
}

// chunkReader yields at most chunkSize bytes per Read call and counts the
// calls, so a test can verify that a large payload was consumed as a stream.
type chunkReader struct {
	data      []byte
	chunkSize int
	reads     int
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.chunkSize
	if n > len(p) {
		n = len(p)
	}
	if n > len(r.data) {
		n = len(r.data)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	r.reads++
	return n, nil
}

func TestSqliteLargeStreamRoundTrip(t *testing.T) {
	conn := newSqliteConn(t)
	table := createLobTable(t, conn)

	payload := bytes.Repeat([]byte{0xAB}, 32768)
	stream := &chunkReader{data: append([]byte(nil), payload...), chunkSize: 8192}

	_, err := conn.Insert(context.Background(), table, []ColumnValue{
		{Column: "id", Value: 1, Type: types.Integer},
		{Column: "content", Value: stream, Type: types.Blob},
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stream.reads, 4, "32768 bytes must be consumed in 8192-byte chunks")

	got := fetchLobContent(t, conn, table, 1)
	if diff := cmp.Diff(payload, got); diff != "" {
		t.Fatalf("fetched content differs from inserted payload:\n%s", diff)
	}
}

func TestSqliteUpdateReplacesLobContent(t *testing.T) {
	conn := newSqliteConn(t)
	table := createLobTable(t, conn)

	_, err := conn.Insert(context.Background(), table, []ColumnValue{
		{Column: "id", Value: 1, Type: types.Integer},
		{Column: "content", Value: []byte("before"), Type: types.Blob},
	})
	require.NoError(t, err)

	affected, err := conn.Update(context.Background(), table,
		[]ColumnValue{{Column: "content", Value: bytes.NewReader([]byte("after")), Type: types.Blob}},
		[]ColumnValue{{Column: "id", Value: 1, Type: types.Integer}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	assert.Equal(t, []byte("after"), fetchLobContent(t, conn, table, 1))
}

func TestSqliteRebindScalarPreservesLob(t *testing.T) {
	conn := newSqliteConn(t)
	table := createLobTable(t, conn)

	stmt, err := conn.Prepare(context.Background(),
		fmt.Sprintf("INSERT INTO %s (id, content) VALUES (?, ?)", conn.Dialect().QuoteIdent(table)))
	require.NoError(t, err)
	defer stmt.Close()

	require.NoError(t, stmt.BindValue(2, bytes.NewReader([]byte("test")), types.Blob))
	for id := 1; id <= 3; id++ {
		require.NoError(t, stmt.BindValue(1, id, types.Integer))
		_, err = stmt.Execute(context.Background())
		require.NoError(t, err)
	}

	for id := 1; id <= 3; id++ {
		assert.Equal(t, []byte("test"), fetchLobContent(t, conn, table, id), "row %d", id)
	}
}

func TestSqliteFetchAllNumericOrdering(t *testing.T) {
	conn := newSqliteConn(t)
	table := createLobTable(t, conn)

	for id, name := range map[int]string{1: "one.bin", 2: "two.bin"} {
		_, err := conn.Insert(context.Background(), table, []ColumnValue{
			{Column: "id", Value: id, Type: types.Integer},
			{Column: "name", Value: name, Type: types.String},
			{Column: "content", Value: []byte(name), Type: types.Blob},
		})
		require.NoError(t, err)
	}

	rows, err := conn.FetchAllNumeric(context.Background(),
		fmt.Sprintf("SELECT id, name FROM %s ORDER BY id", conn.Dialect().QuoteIdent(table)))
	require.NoError(t, err)
	require.Len(t, rows, 2, "rows: %s", spew.Sdump(rows))
	assert.Equal(t, int64(1), rows[0][0])
	assert.Equal(t, "one.bin", rows[0][1])
	assert.Equal(t, int64(2), rows[1][0])
}

func TestSqliteSchemaIntrospection(t *testing.T) {
	conn := newSqliteConn(t)
	table := createLobTable(t, conn)

	tables, err := conn.ListTables(context.Background())
	require.NoError(t, err)
	assert.Contains(t, tables, table)

	cols, err := conn.GetTableColumns(context.Background(), table)
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "content", cols[2].Name)
	assert.Equal(t, "BLOB", cols[2].DataType)
}
