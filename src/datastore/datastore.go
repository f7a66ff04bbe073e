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

// Package datastore resolves large-object payload locations - local paths,
// s3://, gs:// and Azure blob URLs - to readable streams for the bulk LOB
// loader.
package datastore

import (
	"io"
	"strings"
)

type Store interface {
	// Glob returns the payload locations under the store's root matching
	// the pattern.
	Glob(pattern string) ([]string, error)

	// Size returns the content length of the payload at resource.
	Size(resource string) (int64, error)

	// Open returns a reader over the full payload content.
	Open(resource string) (io.ReadCloser, error)

	Join(elem ...string) string
}

// New picks the store implementation from the location's scheme.
func New(location string) Store {
	switch {
	case strings.HasPrefix(location, "s3://"):
		return NewS3Store(location)
	case strings.HasPrefix(location, "gs://"):
		return NewGCSStore(location)
	case strings.HasPrefix(location, "https://") && strings.Contains(location, ".blob.core.windows.net"):
		return NewAzStore(location)
	}
	return NewLocalStore(location)
}
