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

type MysqlContainer struct {
	ContainerConfig
	container testcontainers.Container
}

func (ms *MysqlContainer) Start(ctx context.Context) (err error) {
	ms.applyDefaults("8.4")
	req := testcontainers.ContainerRequest{
		Image:        fmt.Sprintf("mysql:%s", ms.DBVersion),
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": ms.Password,
			"MYSQL_USER":          ms.User,
			"MYSQL_PASSWORD":      ms.Password,
			"MYSQL_DATABASE":      ms.DBName,
		},
		WaitingFor: wait.ForListeningPort("3306/tcp").WithStartupTimeout(1 * time.Minute).WithPollInterval(1 * time.Second),
	}

	ms.container, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	return err
}

func (ms *MysqlContainer) Terminate(ctx context.Context) {
	if ms.container == nil {
		return
	}
	if err := ms.container.Terminate(ctx); err != nil {
		log.Errorf("failed to terminate mysql container: %v", err)
	}
}

func (ms *MysqlContainer) GetHostPort() (string, int, error) {
	ctx := context.Background()

	host, err := ms.container.Host(ctx)
	if err != nil {
		return "", -1, fmt.Errorf("failed to fetch host for mysql container: %w", err)
	}

	port, err := ms.container.MappedPort(ctx, nat.Port(DEFAULT_MYSQL_PORT))
	if err != nil {
		return "", -1, fmt.Errorf("failed to fetch mapped port for mysql container: %w", err)
	}

	return host, port.Int(), nil
}

func (ms *MysqlContainer) GetConfig() *dbal.Config {
	host, port, err := ms.GetHostPort()
	if err != nil {
		panic(err)
	}
	return &dbal.Config{
		DBType:   dbal.MYSQL,
		Host:     host,
		Port:     port,
		User:     ms.User,
		Password: ms.Password,
		DBName:   ms.DBName,
		SSLMode:  "disable",
	}
}
