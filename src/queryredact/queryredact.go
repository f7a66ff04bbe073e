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

// Package queryredact strips literal values out of SQL before it reaches the
// log file, so logged statements never leak row data.
package queryredact

import (
	"regexp"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v5"
)

var (
	stringLiteralRe = regexp.MustCompile(`'(?:[^']|'')*'`)
	// bare numeric literals, but not the digits of $1 / :1 style markers
	numberLiteralRe = regexp.MustCompile(`(^|[^$:\w])(\d+(?:\.\d+)?)`)
)

// Redact replaces literal values in query with placeholders. For
// postgres-family SQL the pg_query normalizer is used; for other dialects a
// regexp pass replaces quoted strings and bare numbers.
func Redact(dialect string, query string) string {
	if dialect == "postgresql" || dialect == "yugabytedb" {
		normalized, err := pg_query.Normalize(query)
		if err == nil {
			return normalized
		}
		// not parseable as postgres SQL, fall through to the regexp pass
	}
	redacted := stringLiteralRe.ReplaceAllString(query, "?")
	redacted = numberLiteralRe.ReplaceAllString(redacted, "$1?")
	return strings.Join(strings.Fields(redacted), " ")
}
