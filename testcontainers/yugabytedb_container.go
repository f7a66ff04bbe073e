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

	"github.com/docker/go-connections/nat"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go/modules/yugabytedb"

	"github.com/crossdb-io/crossdb/src/dbal"
)

type YugabyteDBContainer struct {
	ContainerConfig
	container *yugabytedb.Container
}

func (yb *YugabyteDBContainer) Start(ctx context.Context) (err error) {
	yb.applyDefaults("2024.1.3.0-b105")
	// single node RF-1 cluster
	yb.container, err = yugabytedb.Run(ctx,
		fmt.Sprintf("yugabytedb/yugabyte:%s", yb.DBVersion),
		yugabytedb.WithDatabaseName(yb.DBName),
		yugabytedb.WithDatabaseUser(yb.User),
		yugabytedb.WithDatabasePassword(yb.Password),
	)
	return err
}

func (yb *YugabyteDBContainer) Terminate(ctx context.Context) {
	if yb.container == nil {
		return
	}
	if err := yb.container.Terminate(ctx); err != nil {
		log.Errorf("failed to terminate yugabytedb container: %v", err)
	}
}

func (yb *YugabyteDBContainer) GetHostPort() (string, int, error) {
	ctx := context.Background()

	host, err := yb.container.Host(ctx)
	if err != nil {
		return "", -1, fmt.Errorf("failed to fetch host for yugabytedb container: %w", err)
	}

	port, err := yb.container.MappedPort(ctx, nat.Port(DEFAULT_YB_PORT))
	if err != nil {
		return "", -1, fmt.Errorf("failed to fetch mapped port for yugabytedb container: %w", err)
	}

	return host, port.Int(), nil
}

func (yb *YugabyteDBContainer) GetConfig() *dbal.Config {
	host, port, err := yb.GetHostPort()
	if err != nil {
		panic(err)
	}
	return &dbal.Config{
		DBType:   dbal.YUGABYTEDB,
		Host:     host,
		Port:     port,
		User:     yb.User,
		Password: yb.Password,
		DBName:   yb.DBName,
		SSLMode:  "disable",
	}
}
