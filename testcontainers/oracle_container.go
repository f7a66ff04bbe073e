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
package testcontainers

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/crossdb-io/crossdb/src/dbal"
)

type OracleContainer struct {
	ContainerConfig
	container testcontainers.Container
}

func (ora *OracleContainer) Start(ctx context.Context) (err error) {
	ora.applyDefaults("21-slim")
	// refer: https://hub.docker.com/r/gvenzl/oracle-xe
	req := testcontainers.ContainerRequest{
		Image:        fmt.Sprintf("gvenzl/oracle-xe:%s", ora.DBVersion),
		ExposedPorts: []string{"1521/tcp"},
		Env: map[string]string{
			"ORACLE_PASSWORD":   ora.Password, // for SYS user
			"ORACLE_DATABASE":   ora.DBName,
			"APP_USER":          ora.User,
			"APP_USER_PASSWORD": ora.Password,
		},
		WaitingFor: wait.ForLog("DATABASE IS READY TO USE").WithStartupTimeout(2 * time.Minute).WithPollInterval(5 * time.Second),
	}

	ora.container, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	return err
}

func (ora *OracleContainer) Terminate(ctx context.Context) {
	if ora.container == nil {
		return
	}
	if err := ora.container.Terminate(ctx); err != nil {
		log.Errorf("failed to terminate oracle container: %v", err)
	}
}

func (ora *OracleContainer) GetHostPort() (string, int, error) {
	ctx := context.Background()

	host, err := ora.container.Host(ctx)
	if err != nil {
		return "", -1, fmt.Errorf("failed to fetch host for oracle container: %w", err)
	}

	port, err := ora.container.MappedPort(ctx, nat.Port(DEFAULT_ORACLE_PORT))
	if err != nil {
		return "", -1, fmt.Errorf("failed to fetch mapped port for oracle container: %w", err)
	}

	return host, port.Int(), nil
}

func (ora *OracleContainer) GetConfig() *dbal.Config {
	host, port, err := ora.GetHostPort()
	if err != nil {
		panic(err)
	}
	return &dbal.Config{
		DBType:   dbal.ORACLE,
		Host:     host,
		Port:     port,
		User:     ora.User,
		Password: ora.Password,
		DBName:   ora.DBName,
	}
}
