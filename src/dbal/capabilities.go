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
package dbal

// Capabilities describes what the connected backend/driver combination
// supports. Callers are expected to consult these instead of probing for
// errors; tests skip rather than fail when a capability is absent.
type Capabilities struct {
	// SupportsStreamingLobBinds is false when the driver cannot accept an
	// io.Reader-backed LOB parameter and the caller has to pre-buffer.
	SupportsStreamingLobBinds bool

	// SupportsReturning is true when INSERT ... RETURNING works.
	SupportsReturning bool

	// RequiresLobTransaction is true for engines that reject LOB writes in
	// auto-commit mode.
	RequiresLobTransaction bool
}

func detectCapabilities(dbType string, serverVersion string) Capabilities {
	switch dbType {
	case POSTGRESQL, YUGABYTEDB:
		return postgresCapabilities(serverVersion)
	case MYSQL:
		return mysqlCapabilities(serverVersion)
	case ORACLE:
		return oracleCapabilities(serverVersion)
	case SQLITE:
		return sqliteCapabilities(serverVersion)
	}
	return Capabilities{}
}
