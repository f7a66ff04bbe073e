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
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadStreamSequentialWrites(t *testing.T) {
	stream := newDownloadStream()
	go func() {
		stream.WriteAt([]byte("hello "), 0)
		stream.WriteAt([]byte("world"), 6)
		stream.Close()
	}()

	content, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(content))
}

func TestDownloadStreamRejectsOutOfOrderWrite(t *testing.T) {
	stream := newDownloadStream()
	go func() {
		if _, err := stream.WriteAt([]byte("chunk"), 100); err != nil {
			stream.CloseWithError(err)
		}
	}()

	_, err := io.ReadAll(stream)
	assert.ErrorContains(t, err, "out-of-order write")
}

func TestS3ObjectReaderCloseUnblocksProducer(t *testing.T) {
	stream := newDownloadStream()
	reader := &s3ObjectReader{downloadStream: stream}

	writeErr := make(chan error, 1)
	go func() {
		if _, err := stream.WriteAt([]byte("first"), 0); err != nil {
			writeErr <- err
			return
		}
		_, err := stream.WriteAt([]byte("second"), 5)
		writeErr <- err
	}()

	buf := make([]byte, 5)
	_, err := io.ReadFull(reader, buf)
	require.NoError(t, err)
	assert.Equal(t, "first", string(buf))

	// The producer is now blocked in the second write. Closing the reader
	// must fail that write rather than leave the goroutine stuck.
	require.NoError(t, reader.Close())
	assert.ErrorIs(t, <-writeErr, io.ErrClosedPipe)
}

func TestDownloadStreamCloseWithError(t *testing.T) {
	stream := newDownloadStream()
	downloadErr := errors.New("connection reset")
	go stream.CloseWithError(downloadErr)

	_, err := io.ReadAll(stream)
	assert.ErrorIs(t, err, downloadErr)
}
