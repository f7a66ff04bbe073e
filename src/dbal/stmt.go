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
	"database/sql"
	"fmt"
	"io"
	"reflect"

	log "github.com/sirupsen/logrus"

	"github.com/crossdb-io/crossdb/src/queryredact"
	"github.com/crossdb-io/crossdb/src/types"
)

// Stmt is a prepared statement with positional, typed parameter binding.
// Parameters are 1-based. A statement may be executed repeatedly; binds
// survive across executions until overwritten.
type Stmt struct {
	conn  *Conn
	stmt  *sql.Stmt
	query string
	binds map[int]*bind
}

type bind struct {
	value   any
	ref     reflect.Value // set for by-reference binds, dereferenced at execution
	typ     types.Type
	byRef   bool
	lobBuf  []byte // materialized LOB content, nil until first execution
	lobRead bool   // true once a bound stream has been drained
	lobSrc  any    // the stream the cached content came from
}

// Prepare compiles the statement on the backend. The query uses `?`
// placeholders regardless of the backend's native marker syntax.
func (c *Conn) Prepare(ctx context.Context, query string) (*Stmt, error) {
	expanded := expandPlaceholders(c.dialect, query)
	log.Infof("Preparing on %s: %s", c.dialect.Name(), queryredact.Redact(c.dialect.Name(), expanded))
	stmt, err := c.db.PrepareContext(ctx, expanded)
	if err != nil {
		return nil, fmt.Errorf("prepare statement: %w", err)
	}
	return &Stmt{
		conn:  c,
		stmt:  stmt,
		query: expanded,
		binds: make(map[int]*bind),
	}, nil
}

// BindValue binds the parameter at pos to a snapshot of value.
func (s *Stmt) BindValue(pos int, value any, t types.Type) error {
	if pos < 1 {
		return fmt.Errorf("parameter position %d out of range", pos)
	}
	s.binds[pos] = &bind{value: value, typ: t}
	return nil
}

// BindParam binds the parameter at pos by reference: ref must be a non-nil
// pointer, and the pointed-to value is read at Execute time, not now.
func (s *Stmt) BindParam(pos int, ref any, t types.Type) error {
	if pos < 1 {
		return fmt.Errorf("parameter position %d out of range", pos)
	}
	rv := reflect.ValueOf(ref)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("bind parameter %d by reference: need a non-nil pointer, got %T", pos, ref)
	}
	s.binds[pos] = &bind{ref: rv, typ: t, byRef: true}
	return nil
}

// Execute runs the statement with the current binds and returns the number
// of rows affected.
func (s *Stmt) Execute(ctx context.Context) (int64, error) {
	args, err := s.resolveArgs()
	if err != nil {
		return 0, err
	}
	res, err := s.stmt.ExecContext(ctx, args...)
	if err != nil {
		return 0, fmt.Errorf("execute prepared statement: %w", err)
	}
	return res.RowsAffected()
}

// Query runs the statement with the current binds and returns the raw rows.
func (s *Stmt) Query(ctx context.Context) (*sql.Rows, error) {
	args, err := s.resolveArgs()
	if err != nil {
		return nil, err
	}
	rows, err := s.stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("query prepared statement: %w", err)
	}
	return rows, nil
}

func (s *Stmt) Close() error {
	return s.stmt.Close()
}

func (s *Stmt) resolveArgs() ([]any, error) {
	n := 0
	for pos := range s.binds {
		if pos > n {
			n = pos
		}
	}
	if len(s.binds) != n {
		return nil, fmt.Errorf("statement has %d bound parameters, positions 1..%d required", len(s.binds), n)
	}
	args := make([]any, n)
	for pos := 1; pos <= n; pos++ {
		arg, err := s.resolveBind(s.binds[pos])
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", pos, err)
		}
		args[pos-1] = arg
	}
	return args, nil
}

func (s *Stmt) resolveBind(b *bind) (any, error) {
	value := b.value
	if b.byRef {
		value = b.ref.Elem().Interface()
	}
	if b.typ.IsLob() {
		return s.resolveLobBind(b, value)
	}
	return b.typ.ConvertToBind(value)
}

// resolveLobBind turns a LOB bind into the driver argument for this backend.
// A bound io.Reader is drained exactly once and the content is cached on the
// bind entry, so re-executing the statement after rebinding other parameters
// transmits the original LOB content again instead of re-reading a spent
// stream. A by-reference bind pointed at a different stream since the last
// execution is drained anew.
func (s *Stmt) resolveLobBind(b *bind, value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return s.conn.dialect.BindLob(nil, b.typ), nil
	case []byte:
		b.lobBuf = v
	case string:
		b.lobBuf = []byte(v)
	case io.Reader:
		if b.lobRead && sameStream(b.lobSrc, v) {
			break // already materialized from this stream
		}
		buf, err := io.ReadAll(v)
		if err != nil {
			return nil, fmt.Errorf("read large-object stream: %w", err)
		}
		b.lobBuf = buf
		b.lobSrc = v
	default:
		return nil, fmt.Errorf("cannot bind %T as %s", value, b.typ)
	}
	b.lobRead = true
	return s.conn.dialect.BindLob(b.lobBuf, b.typ), nil
}

func sameStream(a any, b io.Reader) bool {
	if a == nil {
		return false
	}
	if !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == any(b)
}
