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

// Package testcontainers starts throwaway database containers for the
// integration suite.
package testcontainers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crossdb-io/crossdb/src/dbal"
)

const (
	DEFAULT_PG_PORT     = "5432"
	DEFAULT_YB_PORT     = "5433"
	DEFAULT_ORACLE_PORT = "1521"
	DEFAULT_MYSQL_PORT  = "3306"
)

type TestContainer interface {
	Start(ctx context.Context) error
	Terminate(ctx context.Context)
	GetHostPort() (string, int, error)

	// GetConfig returns a connection config pointed at the running container.
	GetConfig() *dbal.Config
}

type ContainerConfig struct {
	DBVersion string
	User      string
	Password  string
	DBName    string
	Schema    string
}

func (c *ContainerConfig) applyDefaults(defaultVersion string) {
	if c.DBVersion == "" {
		c.DBVersion = defaultVersion
	}
	if c.User == "" {
		c.User = "testuser"
	}
	if c.Password == "" {
		c.Password = "testpassword"
	}
	if c.DBName == "" {
		c.DBName = "testdb"
	}
}

func NewTestContainer(dbType string, containerConfig *ContainerConfig) TestContainer {
	if containerConfig == nil {
		containerConfig = &ContainerConfig{}
	}
	switch dbType {
	case dbal.POSTGRESQL:
		return &PostgresContainer{ContainerConfig: *containerConfig}
	case dbal.YUGABYTEDB:
		return &YugabyteDBContainer{ContainerConfig: *containerConfig}
	case dbal.MYSQL:
		return &MysqlContainer{ContainerConfig: *containerConfig}
	case dbal.ORACLE:
		return &OracleContainer{ContainerConfig: *containerConfig}
	default:
		panic(fmt.Sprintf("unsupported db type %q for creating test container", dbType))
	}
}

// WaitForDBToBeReady pings until the database accepts connections.
func WaitForDBToBeReady(db *sql.DB) error {
	for i := 0; i < 12; i++ {
		if err := db.Ping(); err == nil {
			return nil
		}
		time.Sleep(5 * time.Second)
	}
	return fmt.Errorf("database did not become ready in time")
}
