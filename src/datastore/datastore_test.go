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
package datastore

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPicksStoreByScheme(t *testing.T) {
	assert.IsType(t, &S3Store{}, New("s3://bucket/payloads"))
	assert.IsType(t, &GCSStore{}, New("gs://bucket/payloads"))
	assert.IsType(t, &AzStore{}, New("https://account.blob.core.windows.net/container"))
	assert.IsType(t, &LocalStore{}, New("/var/payloads"))
	assert.IsType(t, &LocalStore{}, New("payloads"))
}

func TestLocalStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.bin"), []byte("payload one"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.bin"), []byte("payload two!"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.txt"), []byte("x"), 0644))

	store := NewLocalStore(dir)

	matches, err := store.Glob("*.bin")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	size, err := store.Size(filepath.Join(dir, "two.bin"))
	require.NoError(t, err)
	assert.Equal(t, int64(12), size)

	r, err := store.Open(filepath.Join(dir, "one.bin"))
	require.NoError(t, err)
	defer r.Close()
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "payload one", string(content))

	assert.Equal(t, filepath.Join(dir, "one.bin"), store.Join(dir, "one.bin"))

	_, err = store.Size(filepath.Join(dir, "missing.bin"))
	assert.Error(t, err)
}
