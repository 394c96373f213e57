// Package engine validates credentials against the oVirt engine REST API.
package engine

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// Credentials identify an engine and the account used to reach it.
type Credentials struct {
	URL      string
	Username string
	Password string
	CAFile   string
}

// DataCenter is the subset of the engine's data center resource the probe reads.
type DataCenter struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

type dataCentersResponse struct {
	DataCenter []DataCenter `json:"data_center"`
}

type faultResponse struct {
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// Client talks to the engine API with HTTP basic authentication.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a client for creds. For https engines the CA file is
// loaded as the only trusted root; for http engines it is not read.
func NewClient(creds Credentials) (*Client, error) {
	u, err := url.Parse(creds.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid site URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid site URL %q: scheme must be http or https", creds.URL)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	if u.Scheme == "https" {
		pool, err := loadCAFile(creds.CAFile)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig.RootCAs = pool
	}

	return &Client{
		baseURL:    strings.TrimRight(creds.URL, "/"),
		username:   creds.Username,
		password:   creds.Password,
		httpClient: &http.Client{Transport: transport},
	}, nil
}

func loadCAFile(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to parse CA file %s: no PEM certificates found", path)
	}
	return pool, nil
}

// ListDataCenters returns the data centers visible to the account.
func (c *Client) ListDataCenters(ctx context.Context) ([]DataCenter, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/datacenters", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Version", "4")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		var fault faultResponse
		if err := json.Unmarshal(body, &fault); err == nil && fault.Reason != "" {
			return nil, fmt.Errorf("request failed with status %d: %s %s", resp.StatusCode, fault.Reason, fault.Detail)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	var list dataCentersResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return list.DataCenter, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
