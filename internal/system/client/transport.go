/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package client

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hollyandmorty/advisor-console/internal/system/config"
)

// Builds an HTTP client for the profile API. Server certificates are checked
// against the system roots plus an optional trust store, and a client
// certificate is presented when mTLS is enabled.
func newOutboundHTTPClient(tlsCfg config.TLSConfig, baseURL string, timeout time.Duration) (*http.Client, error) {
	certDir := tlsCfg.CertDir
	if certDir != "" && !filepath.IsAbs(certDir) {
		if abs, err := filepath.Abs(certDir); err == nil {
			certDir = abs
		}
	}

	rootCAs, err := x509.SystemCertPool()
	if err != nil || rootCAs == nil {
		rootCAs = x509.NewCertPool()
	}

	if tlsCfg.TrustStore != "" {
		trustPath := filepath.Join(certDir, tlsCfg.TrustStore)
		trustPEM, err := os.ReadFile(trustPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read trust_store at %s: %w", trustPath, err)
		}
		if ok := rootCAs.AppendCertsFromPEM(trustPEM); !ok {
			return nil, fmt.Errorf("failed to append certs from trust_store: %s", trustPath)
		}
	}

	var certificates []tls.Certificate
	if tlsCfg.MTLSEnabled {
		certPath := filepath.Join(certDir, tlsCfg.ClientCert)
		keyPath := filepath.Join(certDir, tlsCfg.ClientKey)
		pair, err := tls.LoadX509KeyPair(certPath, keyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load cert/key (%s, %s): %w", certPath, keyPath, err)
		}
		certificates = []tls.Certificate{pair}
	}

	serverName := ""
	if u, err := url.Parse(baseURL); err == nil {
		serverName = u.Hostname()
	}

	tcfg := &tls.Config{
		MinVersion:   tls.VersionTLS12,
		RootCAs:      rootCAs,
		Certificates: certificates,
		ServerName:   serverName,
	}

	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tcfg,
		TLSHandshakeTimeout: 10 * time.Second,
		IdleConnTimeout:     60 * time.Second,
		MaxIdleConns:        100,
		MaxConnsPerHost:     100,
	}
	return &http.Client{
		Transport: tr,
		Timeout:   timeout,
	}, nil
}
