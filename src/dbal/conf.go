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

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/magiconair/properties"
	"gopkg.in/ini.v1"
)

const (
	POSTGRESQL = "postgresql"
	YUGABYTEDB = "yugabytedb"
	MYSQL      = "mysql"
	ORACLE     = "oracle"
	SQLITE     = "sqlite"
)

// Config describes one database endpoint. A zero SSLMode defaults to the
// backend's preferred mode when the URI is generated.
type Config struct {
	DBType                string `json:"db_type"`
	Host                  string `json:"host"`
	Port                  int    `json:"port"`
	User                  string `json:"user"`
	Password              string `json:"password"`
	DBName                string `json:"db_name"`
	Schema                string `json:"schema"`
	DBSid                 string `json:"db_sid"`
	TNSAlias              string `json:"tns_alias"`
	FilePath              string `json:"file_path"` // sqlite database file
	SSLMode               string `json:"ssl_mode"`
	SSLCertPath           string `json:"ssl_cert_path"`
	SSLKey                string `json:"ssl_key"`
	SSLRootCert           string `json:"ssl_root_cert"`
	SSLCRL                string `json:"ssl_crl"`
	SSLQueryString        string `json:"ssl_query_string"`
	SSLTrustStore         string `json:"ssl_truststore"` // JKS truststore, used when SSLRootCert is not set
	SSLTrustStorePassword string `json:"ssl_truststore_password"`
	Uri                   string `json:"uri"`
	NumConnections        int    `json:"num_connections"`
}

func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// GetConnectionUri builds (and caches) the driver connection string for the
// configured backend.
func (c *Config) GetConnectionUri() (string, error) {
	if c.Uri != "" {
		return c.Uri, nil
	}
	var err error
	switch c.DBType {
	case POSTGRESQL, YUGABYTEDB:
		c.Uri = c.postgresUri()
	case MYSQL:
		c.Uri, err = c.mysqlUri()
	case ORACLE:
		c.Uri = c.oracleUri()
	case SQLITE:
		c.Uri = c.FilePath
	default:
		err = fmt.Errorf("unknown database type %q", c.DBType)
	}
	return c.Uri, err
}

func (c *Config) postgresUri() string {
	hostAndPort := fmt.Sprintf("%s:%d", c.Host, c.Port)
	pgUrl := &url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(c.User, c.Password),
		Host:     hostAndPort,
		Path:     c.DBName,
		RawQuery: c.generateSSLQueryStringIfNotExists(),
	}
	return pgUrl.String()
}

func (c *Config) generateSSLQueryStringIfNotExists() string {
	if c.SSLQueryString != "" {
		return c.SSLQueryString
	}
	if c.SSLMode == "" {
		c.SSLMode = "prefer"
	}
	sslQueryString := "sslmode=" + c.SSLMode
	if c.SSLMode == "require" || c.SSLMode == "verify-ca" || c.SSLMode == "verify-full" {
		if c.SSLCertPath != "" {
			sslQueryString += "&sslcert=" + c.SSLCertPath
		}
		if c.SSLKey != "" {
			sslQueryString += "&sslkey=" + c.SSLKey
		}
		if c.SSLRootCert != "" {
			sslQueryString += "&sslrootcert=" + c.SSLRootCert
		}
		if c.SSLCRL != "" {
			sslQueryString += "&sslcrl=" + c.SSLCRL
		}
	}
	return sslQueryString
}

func (c *Config) mysqlUri() (string, error) {
	var tlsString string
	switch c.SSLMode {
	case "disable":
		tlsString = "tls=false"
	case "", "prefer":
		tlsString = "tls=preferred"
	case "require":
		tlsString = "tls=skip-verify"
	case "verify-ca", "verify-full":
		tlsConf, err := c.createTLSConf()
		if err != nil {
			return "", err
		}
		err = mysql.RegisterTLSConfig("custom", tlsConf)
		if err != nil {
			return "", fmt.Errorf("register custom TLS config: %w", err)
		}
		tlsString = "tls=custom"
	default:
		return "", fmt.Errorf("invalid sslmode %q for mysql", c.SSLMode)
	}
	return fmt.Sprintf("%s:%s@(%s:%d)/%s?%s", c.User, c.Password,
		c.Host, c.Port, c.DBName, tlsString), nil
}

func (c *Config) oracleUri() string {
	connectString := oracleConnectionString(c.Host, c.Port, c.DBName, c.DBSid, c.TNSAlias)
	return fmt.Sprintf(`user="%s" password="%s" connectString="%s"`, c.User, c.Password, connectString)
}

func oracleConnectionString(host string, port int, dbname string, dbsid string, tnsalias string) string {
	switch true {
	case dbsid != "":
		return fmt.Sprintf(`(DESCRIPTION=(ADDRESS=(PROTOCOL=TCP)(HOST=%s)(PORT=%d))(CONNECT_DATA=(SID=%s)))`,
			host, port, dbsid)
	case tnsalias != "":
		return tnsalias
	case dbname != "":
		return fmt.Sprintf(`(DESCRIPTION=(ADDRESS=(PROTOCOL=TCP)(HOST=%s)(PORT=%d))(CONNECT_DATA=(SERVICE_NAME=%s)))`,
			host, port, dbname)
	}
	return ""
}

// ParseSSLQueryString splits an sslmode=...&sslcert=... style query string
// into the individual SSL fields.
func (c *Config) ParseSSLQueryString() {
	if c.SSLQueryString == "" {
		return
	}
	for _, param := range strings.Split(c.SSLQueryString, "&") {
		key, value, found := strings.Cut(param, "=")
		if !found {
			continue
		}
		switch key {
		case "sslmode":
			c.SSLMode = value
		case "sslcert":
			c.SSLCertPath = value
		case "sslrootcert":
			c.SSLRootCert = value
		case "sslkey":
			c.SSLKey = value
		case "sslcrl":
			c.SSLCRL = value
		}
	}
}

// LoadConfigFromINI reads a mysql option-file style ini section into a Config.
// Unset keys leave the corresponding field untouched.
func LoadConfigFromINI(path string, section string) (*Config, error) {
	iniData, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load ini config %s: %w", path, err)
	}
	s := iniData.Section(section)
	conf := &Config{}
	conf.DBType = s.Key("db-type").String()
	conf.Host = s.Key("host").String()
	conf.Port, _ = s.Key("port").Int()
	conf.User = s.Key("user").String()
	conf.Password = s.Key("password").String()
	conf.DBName = s.Key("database").String()
	conf.Schema = s.Key("schema").String()
	conf.SSLMode = s.Key("ssl-mode").String()
	conf.SSLRootCert = s.Key("ssl-ca").String()
	conf.SSLCertPath = s.Key("ssl-cert").String()
	conf.SSLKey = s.Key("ssl-key").String()
	return conf, nil
}

// LoadConfigFromProperties reads a JDBC style .properties file into a Config.
func LoadConfigFromProperties(path string) (*Config, error) {
	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, fmt.Errorf("load properties config %s: %w", path, err)
	}
	conf := &Config{}
	conf.DBType = props.GetString("db.type", "")
	conf.Host = props.GetString("db.host", "")
	conf.Port = props.GetInt("db.port", 0)
	conf.User = props.GetString("db.user", "")
	conf.Password = props.GetString("db.password", "")
	conf.DBName = props.GetString("db.name", "")
	conf.Schema = props.GetString("db.schema", "")
	conf.SSLMode = props.GetString("db.sslmode", "")
	conf.Uri = props.GetString("db.uri", "")
	return conf, nil
}
