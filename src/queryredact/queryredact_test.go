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
package queryredact

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactPostgres(t *testing.T) {
	redacted := Redact("postgresql", "SELECT * FROM media WHERE name = 'secret.png' AND id = 42")
	assert.NotContains(t, redacted, "secret.png")
	assert.NotContains(t, redacted, "42")
	assert.Contains(t, redacted, "FROM media")
}

func TestRedactFallback(t *testing.T) {
	redacted := Redact("mysql", "INSERT INTO media (id, name) VALUES (7, 'cat.jpg')")
	assert.Equal(t, "INSERT INTO media (id, name) VALUES (?, ?)", redacted)
}

func TestRedactKeepsPositionalMarkers(t *testing.T) {
	redacted := Redact("oracle", "UPDATE media SET content = :1 WHERE id = :2")
	assert.Contains(t, redacted, ":1")
	assert.Contains(t, redacted, ":2")

	redacted = Redact("sqlite", "SELECT * FROM t WHERE a = ? AND b = 10")
	assert.Contains(t, redacted, "a = ?")
	assert.NotContains(t, redacted, "10")
}

func TestRedactCollapsesWhitespace(t *testing.T) {
	redacted := Redact("mysql", "SELECT *\n  FROM media\n  WHERE id = 1")
	assert.False(t, strings.Contains(redacted, "\n"))
	assert.Equal(t, "SELECT * FROM media WHERE id = ?", redacted)
}

func TestRedactEscapedQuotes(t *testing.T) {
	redacted := Redact("mysql", "SELECT * FROM t WHERE name = 'it''s here'")
	assert.NotContains(t, redacted, "here")
	assert.Equal(t, "SELECT * FROM t WHERE name = ?", redacted)
}
