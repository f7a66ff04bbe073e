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
package cmd

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
	"golang.org/x/term"

	"github.com/crossdb-io/crossdb/src/dbal"
	"github.com/crossdb-io/crossdb/src/utils"
)

var supportedDBTypes = []string{dbal.POSTGRESQL, dbal.YUGABYTEDB, dbal.MYSQL, dbal.ORACLE, dbal.SQLITE}

var dbConf = &dbal.Config{}

var (
	iniFile        string
	propertiesFile string
)

func registerDBConnFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dbConf.DBType, "db-type", "",
		"database type: (postgresql, yugabytedb, mysql, oracle, sqlite)")
	cmd.Flags().StringVar(&dbConf.Host, "host", "localhost",
		"database server host")
	cmd.Flags().IntVar(&dbConf.Port, "port", 0,
		"database server port (default: backend specific)")
	cmd.Flags().StringVar(&dbConf.User, "user", "",
		"connect as this user")
	cmd.Flags().StringVar(&dbConf.Password, "password", "",
		"password to connect (can also be set via CROSSDB_DB_PASSWORD)")
	cmd.Flags().StringVar(&dbConf.DBName, "database", "",
		"database name to connect to")
	cmd.Flags().StringVar(&dbConf.Schema, "schema", "",
		"schema to operate in (default: backend specific)")
	cmd.Flags().StringVar(&dbConf.DBSid, "oracle-db-sid", "",
		"[For Oracle Only] Oracle System Identifier")
	cmd.Flags().StringVar(&dbConf.TNSAlias, "oracle-tns-alias", "",
		"[For Oracle Only] TNS alias from tnsnames.ora")
	cmd.Flags().StringVar(&dbConf.FilePath, "db-file", "",
		"[For SQLite Only] path to the database file")
	cmd.Flags().StringVar(&dbConf.SSLMode, "ssl-mode", "",
		"SSL mode: (disable, prefer, require, verify-ca, verify-full)")
	cmd.Flags().StringVar(&dbConf.SSLRootCert, "ssl-root-cert", "",
		"path to the root certificate (PEM)")
	cmd.Flags().StringVar(&dbConf.SSLCertPath, "ssl-cert", "",
		"path to the client certificate")
	cmd.Flags().StringVar(&dbConf.SSLKey, "ssl-key", "",
		"path to the client key")
	cmd.Flags().StringVar(&dbConf.SSLTrustStore, "ssl-truststore", "",
		"path to a Java truststore (JKS) holding the trusted roots")
	cmd.Flags().StringVar(&dbConf.SSLTrustStorePassword, "ssl-truststore-password", "",
		"password of the Java truststore")
	cmd.Flags().StringVar(&dbConf.Uri, "uri", "",
		"full connection URI/DSN, overrides the individual connection flags")
	cmd.Flags().StringVar(&iniFile, "defaults-file", "",
		"mysql option-file style ini file to read connection settings from")
	cmd.Flags().StringVar(&propertiesFile, "properties-file", "",
		"JDBC style .properties file to read connection settings from")
}

// resolveDBConf merges file-based connection settings under the flag values
// and prompts for a missing password.
func resolveDBConf(cmd *cobra.Command) error {
	bindFlagsFromConfig(cmd)
	if iniFile != "" {
		fileConf, err := dbal.LoadConfigFromINI(iniFile, "client")
		if err != nil {
			return err
		}
		mergeConf(cmd, fileConf)
	}
	if propertiesFile != "" {
		fileConf, err := dbal.LoadConfigFromProperties(propertiesFile)
		if err != nil {
			return err
		}
		mergeConf(cmd, fileConf)
	}
	if dbConf.DBType == "" {
		return fmt.Errorf("--db-type is required")
	}
	if !slices.Contains(supportedDBTypes, dbConf.DBType) {
		return fmt.Errorf("unsupported db type %q, supported types: %v", dbConf.DBType, supportedDBTypes)
	}
	if dbConf.DBType == dbal.SQLITE || dbConf.Uri != "" {
		return nil
	}
	if dbConf.Password == "" {
		password, err := askPassword(dbConf.DBType, dbConf.User, "CROSSDB_DB_PASSWORD")
		if err != nil {
			return err
		}
		dbConf.Password = password
	}
	return nil
}

// bindFlagsFromConfig fills every flag that was not given on the command line
// from the matching viper key (config file or CROSSDB_* environment variable).
func bindFlagsFromConfig(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !viper.IsSet(f.Name) {
			return
		}
		if err := cmd.Flags().Set(f.Name, viper.GetString(f.Name)); err != nil {
			utils.ErrExit("apply config value for --%s: %v", f.Name, err)
		}
	})
}

// mergeConf fills dbConf from fileConf for every field whose flag was not
// given on the command line.
func mergeConf(cmd *cobra.Command, fileConf *dbal.Config) {
	setIfUnset := func(flag string, dst *string, src string) {
		if !cmd.Flags().Changed(flag) && src != "" {
			*dst = src
		}
	}
	setIfUnset("db-type", &dbConf.DBType, fileConf.DBType)
	setIfUnset("host", &dbConf.Host, fileConf.Host)
	setIfUnset("user", &dbConf.User, fileConf.User)
	setIfUnset("password", &dbConf.Password, fileConf.Password)
	setIfUnset("database", &dbConf.DBName, fileConf.DBName)
	setIfUnset("schema", &dbConf.Schema, fileConf.Schema)
	setIfUnset("ssl-mode", &dbConf.SSLMode, fileConf.SSLMode)
	setIfUnset("ssl-root-cert", &dbConf.SSLRootCert, fileConf.SSLRootCert)
	setIfUnset("ssl-cert", &dbConf.SSLCertPath, fileConf.SSLCertPath)
	setIfUnset("ssl-key", &dbConf.SSLKey, fileConf.SSLKey)
	setIfUnset("uri", &dbConf.Uri, fileConf.Uri)
	if !cmd.Flags().Changed("port") && fileConf.Port != 0 {
		dbConf.Port = fileConf.Port
	}
}

func askPassword(destination string, user string, envVar string) (string, error) {
	if os.Getenv(envVar) != "" {
		return os.Getenv(envVar), nil
	}

	if user == "" {
		fmt.Printf("Password to connect to %s (In addition, you can also set the password using the environment variable '%s'): ",
			destination, envVar)
	} else {
		fmt.Printf("Password to connect to '%s' user of %s (In addition, you can also set the password using the environment variable '%s'): ",
			user, destination, envVar)
	}
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	fmt.Print("\n")
	return string(bytePassword), nil
}

func connect(ctx context.Context) *dbal.Conn {
	conn, err := dbal.Open(ctx, dbConf)
	if err != nil {
		utils.ErrExit("connect to %s: %v", dbConf.DBType, err)
	}
	return conn
}

var (
	successMsg = color.New(color.FgGreen).SprintfFunc()
	failureMsg = color.New(color.FgRed).SprintfFunc()
)
