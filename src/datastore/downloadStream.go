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
)

// downloadStream adapts the WriterAt the s3 download manager wants to the
// sequential reader a LOB bind wants. It only accepts in-order writes, which
// holds with download concurrency 1.
type downloadStream struct {
	reader *io.PipeReader
	writer *io.PipeWriter
	offset int64
}

func newDownloadStream() *downloadStream {
	reader, writer := io.Pipe()
	return &downloadStream{reader: reader, writer: writer}
}

func (s *downloadStream) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *downloadStream) WriteAt(p []byte, off int64) (int, error) {
	if s.offset != off {
		return 0, fmt.Errorf("out-of-order write at offset %d, expected %d", off, s.offset)
	}
	n, err := s.writer.Write(p)
	if err != nil {
		return n, err
	}
	s.offset += int64(n)
	return n, nil
}

func (s *downloadStream) Close() error {
	return s.writer.Close()
}

func (s *downloadStream) CloseWithError(err error) error {
	return s.writer.CloseWithError(err)
}

// abortRead closes the read side of the pipe. A producer blocked in WriteAt
// fails with io.ErrClosedPipe instead of hanging when the consumer stops
// reading before the end of the stream.
func (s *downloadStream) abortRead() error {
	return s.reader.Close()
}
