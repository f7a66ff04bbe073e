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

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	log "github.com/sirupsen/logrus"
)

// S3Store serves payloads from an s3 bucket. The store root is an s3://
// URL; resources are either full s3:// URLs or keys relative to the root.
type S3Store struct {
	url        *url.URL
	bucketName string

	clientOnce sync.Once
	client     *s3.Client
	clientErr  error
}

func NewS3Store(location string) *S3Store {
	u, err := url.Parse(location)
	if err != nil {
		log.Errorf("invalid s3 location %q: %v", location, err)
		u = &url.URL{Scheme: "s3"}
	}
	return &S3Store{url: u, bucketName: u.Host}
}

func (ds *S3Store) getClient() (*s3.Client, error) {
	ds.clientOnce.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			ds.clientErr = fmt.Errorf("load aws config: %w", err)
			return
		}
		ds.client = s3.NewFromConfig(cfg)
	})
	return ds.client, ds.clientErr
}

func (ds *S3Store) Glob(pattern string) ([]string, error) {
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

// List every key under the store root. The default list API has a fetch
// limit, so use the paginator.
func (ds *S3Store) listAllObjects() ([]string, error) {
	client, err := ds.getClient()
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimPrefix(ds.url.Path, "/")
	query := &s3.ListObjectsV2Input{Bucket: &ds.bucketName}
	if prefix != "" {
		query.Prefix = &prefix
	}
	p := s3.NewListObjectsV2Paginator(client, query)

	var objectNames []string
	for p.HasMorePages() {
		page, err := p.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("list objects in %s: %w", ds.url, err)
		}
		for _, obj := range page.Contents {
			objectName := *obj.Key
			if prefix != "" {
				objectName = strings.TrimPrefix(objectName, prefix)
				objectName = strings.TrimPrefix(objectName, "/")
			}
			objectNames = append(objectNames, objectName)
		}
	}
	return objectNames, nil
}

func (ds *S3Store) Size(resource string) (int64, error) {
	client, err := ds.getClient()
	if err != nil {
		return 0, err
	}
	bucket, key, err := splitS3ObjectPath(resource)
	if err != nil {
		return 0, err
	}
	head, err := client.HeadObject(context.Background(), &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("head object %s: %w", resource, err)
	}
	return head.ContentLength, nil
}

// Open streams the object through a single-worker download manager feeding
// an in-order pipe, so payloads larger than memory never have to be staged
// on disk.
func (ds *S3Store) Open(resource string) (io.ReadCloser, error) {
	client, err := ds.getClient()
	if err != nil {
		return nil, err
	}
	bucket, key, err := splitS3ObjectPath(resource)
	if err != nil {
		return nil, err
	}
	downloader := manager.NewDownloader(client, func(d *manager.Downloader) {
		d.Concurrency = 1 // parts must arrive in order for the pipe
	})
	stream := newDownloadStream()
	go func() {
		_, err := downloader.Download(context.Background(), stream, &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			stream.CloseWithError(fmt.Errorf("download %s: %w", resource, err))
			return
		}
		stream.Close()
	}()
	return &s3ObjectReader{downloadStream: stream}, nil
}

// s3ObjectReader hands the pipe's read side to the caller. Close unblocks the
// download goroutine if the caller stops before draining the whole object.
type s3ObjectReader struct {
	*downloadStream
}

func (r *s3ObjectReader) Close() error {
	return r.abortRead()
}

func (ds *S3Store) Join(elem ...string) string {
	// filepath.Join would collapse s3:// to s3:/
	return strings.Join(elem, "/")
}

func splitS3ObjectPath(objectPath string) (string, string, error) {
	u, err := url.Parse(objectPath)
	if err != nil {
		return "", "", fmt.Errorf("parse s3 url %s: %w", objectPath, err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in s3 url %v", objectPath)
	}
	if key == "" {
		return "", "", fmt.Errorf("missing key in s3 url %v", objectPath)
	}
	return bucket, key, nil
}
