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
package utils

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvStringToSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, CsvStringToSlice("a, b ,c"))
	assert.Equal(t, []string{"a"}, CsvStringToSlice("a,,"))
	assert.Empty(t, CsvStringToSlice(""))
}

func TestInsensitiveSliceContains(t *testing.T) {
	slice := []string{"Postgres", "MySQL"}
	assert.True(t, InsensitiveSliceContains(slice, "postgres"))
	assert.True(t, InsensitiveSliceContains(slice, "MYSQL"))
	assert.False(t, InsensitiveSliceContains(slice, "oracle"))
}

func TestReadline(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("first line\nsecond line\n"))
	line, err := Readline(r)
	require.NoError(t, err)
	assert.Equal(t, "first line", line)
}

func TestFileOrFolderExists(t *testing.T) {
	assert.True(t, FileOrFolderExists(t.TempDir()))
	assert.False(t, FileOrFolderExists("/nonexistent/path/for/sure"))
}
