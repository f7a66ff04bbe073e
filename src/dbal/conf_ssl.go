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
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/pavlo-v-chernykh/keystore-go/v4"
)

// createTLSConf builds the tls.Config registered with the mysql driver for
// verify-ca and verify-full SSL modes. The trusted roots come from
// SSLRootCert (PEM) or, when only a Java truststore is available (JDBC-style
// deployments), from SSLTrustStore (JKS).
func (c *Config) createTLSConf() (*tls.Config, error) {
	rootCertPool, err := c.rootCertPool()
	if err != nil {
		return nil, err
	}

	clientCert := make([]tls.Certificate, 0, 1)
	if c.SSLCertPath != "" && c.SSLKey != "" {
		certs, err := tls.LoadX509KeyPair(c.SSLCertPath, c.SSLKey)
		if err != nil {
			return nil, fmt.Errorf("read SSL key pair: %w", err)
		}
		clientCert = append(clientCert, certs)
	}

	if c.SSLMode == "verify-ca" {
		return &tls.Config{
			RootCAs:            rootCertPool,
			Certificates:       clientCert,
			InsecureSkipVerify: true,
		}, nil
	}
	// verify-full
	return &tls.Config{
		RootCAs:      rootCertPool,
		Certificates: clientCert,
		ServerName:   c.Host,
	}, nil
}

func (c *Config) rootCertPool() (*x509.CertPool, error) {
	rootCertPool := x509.NewCertPool()
	switch {
	case c.SSLRootCert != "":
		pem, err := os.ReadFile(c.SSLRootCert)
		if err != nil {
			return nil, fmt.Errorf("read SSL root certificate: %w", err)
		}
		if ok := rootCertPool.AppendCertsFromPEM(pem); !ok {
			return nil, fmt.Errorf("no certificates found in %s", c.SSLRootCert)
		}
	case c.SSLTrustStore != "":
		certs, err := loadJKSTrustedCerts(c.SSLTrustStore, c.SSLTrustStorePassword)
		if err != nil {
			return nil, err
		}
		for _, cert := range certs {
			rootCertPool.AddCert(cert)
		}
	default:
		return nil, fmt.Errorf("root certificate required for %s SSL mode", c.SSLMode)
	}
	return rootCertPool, nil
}

func loadJKSTrustedCerts(path string, password string) ([]*x509.Certificate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read truststore: %w", err)
	}
	ks := keystore.New()
	if err := ks.Load(bytes.NewReader(raw), []byte(password)); err != nil {
		return nil, fmt.Errorf("load truststore %s: %w", path, err)
	}
	var certs []*x509.Certificate
	for _, alias := range ks.Aliases() {
		entry, err := ks.GetTrustedCertificateEntry(alias)
		if err != nil {
			continue // private key entries are not trust anchors
		}
		cert, err := x509.ParseCertificate(entry.Certificate.Content)
		if err != nil {
			return nil, fmt.Errorf("parse certificate %q from truststore: %w", alias, err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, fmt.Errorf("no trusted certificates in %s", path)
	}
	return certs, nil
}
