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

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	log "github.com/sirupsen/logrus"
	"gocloud.dev/blob/azureblob"
)

// AzStore serves payloads from an Azure blob container. The store root is a
// https://<account>.blob.core.windows.net/<container>[/<prefix>] URL.
type AzStore struct {
	url *url.URL

	clientOnce sync.Once
	client     *azblob.Client
	clientErr  error
}

func NewAzStore(location string) *AzStore {
	u, err := url.Parse(location)
	if err != nil {
		log.Errorf("invalid azure blob location %q: %v", location, err)
		u = &url.URL{Scheme: "https"}
	}
	return &AzStore{url: u}
}

func (ds *AzStore) getClient() (*azblob.Client, error) {
	ds.clientOnce.Do(func() {
		serviceUrl := "https://" + ds.url.Host
		// The default credential chain covers env vars, managed identity
		// and az cli logins.
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			ds.clientErr = fmt.Errorf("create azure credential: %w", err)
			return
		}
		ds.client, err = azblob.NewClient(serviceUrl, cred, nil)
		if err != nil {
			ds.clientErr = fmt.Errorf("create azure blob client: %w", err)
		}
	})
	return ds.client, ds.clientErr
}

func (ds *AzStore) Glob(pattern string) ([]string, error) {
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

func (ds *AzStore) listAllObjects() ([]string, error) {
	client, err := ds.getClient()
	if err != nil {
		return nil, err
	}
	_, containerName, prefix, err := splitAzObjectPath(ds.url.String())
	if err != nil {
		return nil, err
	}
	options := &container.ListBlobsFlatOptions{}
	if prefix != "" {
		options.Prefix = &prefix
	}
	pager := client.NewListBlobsFlatPager(containerName, options)
	var keys []string
	for pager.More() {
		page, err := pager.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("list blobs in %q: %w", ds.url, err)
		}
		for _, item := range page.Segment.BlobItems {
			objectName := *item.Name
			if prefix != "" {
				objectName = strings.TrimPrefix(strings.TrimPrefix(objectName, prefix), "/")
			}
			keys = append(keys, objectName)
		}
	}
	return keys, nil
}

func (ds *AzStore) Size(resource string) (int64, error) {
	serviceName, containerName, key, err := splitAzObjectPath(resource)
	if err != nil {
		return 0, err
	}
	containerUrl := fmt.Sprintf("https://%s/%s", serviceName, containerName)
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return 0, fmt.Errorf("create azure credential: %w", err)
	}
	containerClient, err := container.NewClient(containerUrl, cred, nil)
	if err != nil {
		return 0, fmt.Errorf("create container client for %q: %w", containerUrl, err)
	}
	ctx := context.Background()
	// go through the gocloud bucket API for the attributes
	bucket, err := azureblob.OpenBucket(ctx, containerClient, nil)
	if err != nil {
		return 0, fmt.Errorf("open bucket for %q: %w", containerUrl, err)
	}
	defer bucket.Close()
	attrs, err := bucket.Attributes(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("attributes of %q: %w", resource, err)
	}
	return attrs.Size, nil
}

func (ds *AzStore) Open(resource string) (io.ReadCloser, error) {
	client, err := ds.getClient()
	if err != nil {
		return nil, err
	}
	_, containerName, key, err := splitAzObjectPath(resource)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	get, err := client.DownloadStream(ctx, containerName, key, nil)
	if err != nil {
		return nil, fmt.Errorf("create download stream for %q: %w", resource, err)
	}
	retryReader := get.NewRetryReader(ctx, &azblob.RetryReaderOptions{MaxRetries: 10})
	return retryReader, nil
}

func (ds *AzStore) Join(elem ...string) string {
	return strings.Join(elem, "/")
}

// splitAzObjectPath splits
// https://<account>.blob.core.windows.net/<container>/<key> into its parts.
func splitAzObjectPath(objectPath string) (string, string, string, error) {
	objectUrl, err := url.Parse(objectPath)
	if err != nil {
		return "", "", "", fmt.Errorf("parse azure blob url %q: %w", objectPath, err)
	}
	if objectUrl.Host == "" || !strings.Contains(objectUrl.Host, ".blob.") {
		return "", "", "", fmt.Errorf("invalid service in azure blob url %v", objectPath)
	}
	blobPath := strings.TrimPrefix(objectUrl.Path, "/")
	if blobPath == "" {
		return "", "", "", fmt.Errorf("missing container in azure blob url %v", objectPath)
	}
	containerName, key, _ := strings.Cut(blobPath, "/")
	return objectUrl.Host, containerName, key, nil
}
