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
	"context"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"cloud.google.com/go/storage"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
)

// GCSStore serves payloads from a gcs bucket.
type GCSStore struct {
	url        *url.URL
	bucketName string

	clientOnce sync.Once
	client     *storage.Client
	clientErr  error
}

func NewGCSStore(location string) *GCSStore {
	u, err := url.Parse(location)
	if err != nil {
		log.Errorf("invalid gcs location %q: %v", location, err)
		u = &url.URL{Scheme: "gs"}
	}
	return &GCSStore{url: u, bucketName: u.Host}
}

func (ds *GCSStore) getClient() (*storage.Client, error) {
	ds.clientOnce.Do(func() {
		c, err := storage.NewClient(context.Background())
		if err != nil {
			ds.clientErr = fmt.Errorf("create gcs client: %w", err)
			return
		}
		ds.client = c
	})
	return ds.client, ds.clientErr
}

func (ds *GCSStore) Glob(pattern string) ([]string, error) {
	objectNames, err := ds.listAllObjects()
	if err != nil {
		return nil, err
	}
	pattern = strings.Replace(pattern, "*", ".*", -1)
	re := regexp.MustCompile("^" + ds.url.String() + "/" + pattern + "$")
	var resultSet []string
	for _, objectName := range objectNames {
		objectName = ds.url.String() + "/" + objectName
		if re.MatchString(objectName) {
			resultSet = append(resultSet, objectName)
		}
	}
	return resultSet, nil
}

func (ds *GCSStore) listAllObjects() ([]string, error) {
	client, err := ds.getClient()
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimPrefix(ds.url.Path, "/")
	query := &storage.Query{}
	if prefix != "" {
		query.Prefix = prefix
	}
	objectIter := client.Bucket(ds.bucketName).Objects(context.Background(), query)
	var objectNames []string
	for {
		attrs, err := objectIter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("Bucket(%q).Objects: %w", ds.bucketName, err)
		}
		objectName := attrs.Name
		if prefix != "" {
			objectName = strings.TrimPrefix(objectName, prefix)
			objectName = strings.TrimPrefix(objectName, "/")
		}
		objectNames = append(objectNames, objectName)
	}
	return objectNames, nil
}

func (ds *GCSStore) Size(resource string) (int64, error) {
	client, err := ds.getClient()
	if err != nil {
		return 0, err
	}
	bucket, key, err := splitGCSObjectPath(resource)
	if err != nil {
		return 0, err
	}
	attrs, err := client.Bucket(bucket).Object(key).Attrs(context.Background())
	if err != nil {
		return 0, fmt.Errorf("attributes of object %q: %w", resource, err)
	}
	return attrs.Size, nil
}

func (ds *GCSStore) Open(resource string) (io.ReadCloser, error) {
	client, err := ds.getClient()
	if err != nil {
		return nil, err
	}
	bucket, key, err := splitGCSObjectPath(resource)
	if err != nil {
		return nil, err
	}
	reader, err := client.Bucket(bucket).Object(key).NewReader(context.Background())
	if err != nil {
		return nil, fmt.Errorf("open object %q: %w", resource, err)
	}
	return reader, nil
}

func (ds *GCSStore) Join(elem ...string) string {
	return strings.Join(elem, "/")
}

func splitGCSObjectPath(objectPath string) (string, string, error) {
	u, err := url.Parse(objectPath)
	if err != nil {
		return "", "", fmt.Errorf("parse gcs url %s: %w", objectPath, err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in gcs url %v", objectPath)
	}
	if key == "" {
		return "", "", fmt.Errorf("missing key in gcs url %v", objectPath)
	}
	return bucket, key, nil
}
