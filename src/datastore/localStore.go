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
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore serves payloads from the local filesystem.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (ds *LocalStore) Glob(pattern string) ([]string, error) {
	return filepath.Glob(filepath.Join(ds.root, pattern))
}

func (ds *LocalStore) Size(resource string) (int64, error) {
	info, err := os.Stat(resource)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", resource, err)
	}
	return info.Size(), nil
}

func (ds *LocalStore) Open(resource string) (io.ReadCloser, error) {
	return os.Open(resource)
}

func (ds *LocalStore) Join(elem ...string) string {
	return filepath.Join(elem...)
}
