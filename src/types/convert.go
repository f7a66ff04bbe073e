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
package types

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ConvertToValue converts a value as fetched from a backend driver to the
// logical Go value for this type. Drivers disagree on how they surface
// fetched values (mysql returns []byte for almost everything, oracle returns
// godror.Lob readers for LOB columns), so every fetched value that a caller
// wants typed access to goes through here.
//
// For Blob and Clob the result is an io.Reader over the full content, or nil
// when the column was NULL.
func (t Type) ConvertToValue(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case Integer, BigInt:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int32:
			return int64(n), nil
		case int:
			return int64(n), nil
		case float64:
			return int64(n), nil
		case []byte:
			return strconv.ParseInt(string(n), 10, 64)
		case string:
			return strconv.ParseInt(n, 10, 64)
		}
		return nil, fmt.Errorf("cannot convert %T to %s", v, t)
	case Float:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case []byte:
			return strconv.ParseFloat(string(n), 64)
		case string:
			return strconv.ParseFloat(n, 64)
		}
		return nil, fmt.Errorf("cannot convert %T to float", v)
	case Boolean:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		case []byte:
			return parseBool(string(b))
		case string:
			return parseBool(b)
		}
		return nil, fmt.Errorf("cannot convert %T to boolean", v)
	case String, Text:
		switch s := v.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		}
		return fmt.Sprintf("%v", v), nil
	case Timestamp:
		ts, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("cannot convert %T to timestamp", v)
		}
		return ts, nil
	case Binary:
		switch b := v.(type) {
		case []byte:
			return b, nil
		case string:
			return []byte(b), nil
		}
		return nil, fmt.Errorf("cannot convert %T to binary", v)
	case Blob, Clob:
		return toReader(v)
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "y", "yes", "on", "1":
		return true, nil
	case "f", "false", "n", "no", "off", "0":
		return false, nil
	}
	return false, fmt.Errorf("cannot convert %q to boolean", s)
}

func toReader(v any) (io.Reader, error) {
	switch lob := v.(type) {
	case io.Reader:
		// godror surfaces LOB columns as a *godror.Lob which is already a
		// reader positioned at the start of the content.
		return lob, nil
	case []byte:
		return bytes.NewReader(lob), nil
	case string:
		return strings.NewReader(lob), nil
	}
	return nil, fmt.Errorf("cannot convert %T to a large-object stream", v)
}
