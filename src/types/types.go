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
	"fmt"
	"strconv"
	"time"
)

// Type is a logical column/parameter type. Values bound through the dbal
// layer carry a Type so that each backend driver receives an argument in the
// representation it expects, independent of the backend's native type names.
type Type int

const (
	Unknown Type = iota
	Integer
	BigInt
	Float
	Boolean
	String
	Text
	Timestamp
	Binary
	Blob
	Clob
)

var typeNames = map[Type]string{
	Integer:   "integer",
	BigInt:    "bigint",
	Float:     "float",
	Boolean:   "boolean",
	String:    "string",
	Text:      "text",
	Timestamp: "timestamp",
	Binary:    "binary",
	Blob:      "blob",
	Clob:      "clob",
}

var typesByName = map[string]Type{}

func init() {
	for t, name := range typeNames {
		typesByName[name] = t
	}
}

func (t Type) Name() string {
	name, ok := typeNames[t]
	if !ok {
		return "unknown"
	}
	return name
}

func (t Type) String() string {
	return t.Name()
}

// Lookup returns the Type registered under the given logical name.
func Lookup(name string) (Type, error) {
	t, ok := typesByName[name]
	if !ok {
		return Unknown, fmt.Errorf("unknown logical type %q", name)
	}
	return t, nil
}

// IsLob reports whether values of this type are transmitted as large objects.
func (t Type) IsLob() bool {
	return t == Blob || t == Clob
}

// ConvertToBind normalizes a Go value for binding as this type. LOB types are
// not handled here; their driver representation depends on the backend and is
// resolved by the dbal layer at execution time.
func (t Type) ConvertToBind(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case Integer, BigInt:
		switch n := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return n, nil
		case string:
			parsed, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("bind %q as %s: %w", n, t, err)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("cannot bind %T as %s", v, t)
	case Float:
		switch n := v.(type) {
		case float32, float64:
			return n, nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		}
		return nil, fmt.Errorf("cannot bind %T as float", v)
	case Boolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("cannot bind %T as boolean", v)
		}
		return b, nil
	case String, Text:
		switch s := v.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		case fmt.Stringer:
			return s.String(), nil
		}
		return fmt.Sprintf("%v", v), nil
	case Timestamp:
		ts, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("cannot bind %T as timestamp", v)
		}
		return ts, nil
	case Binary:
		switch b := v.(type) {
		case []byte:
			return b, nil
		case string:
			return []byte(b), nil
		}
		return nil, fmt.Errorf("cannot bind %T as binary", v)
	case Blob, Clob:
		return nil, fmt.Errorf("%s binds are resolved by the connection layer", t)
	}
	return v, nil
}
