package engine

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovirt-dr/generate-vars/internal/log"
)

const testPassword = "Sup3r-S3cret!"

func engineHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ovirt-engine/api/datacenters", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "4", r.Header.Get("Version"))

		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin@internal" || pass != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"reason":"Operation Failed","detail":"bad password ` + pass + `"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data_center":[{"id":"1","name":"Default","status":"up"},{"id":"2","name":"Secondary"}]}`))
	}
}

func captureLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(log.Config{Level: log.LevelDebug, Output: log.NewOutput(&buf)}), &buf
}

func writeServerCA(t *testing.T, server *httptest.Server) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ca.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.Certificate().Raw})
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestValidateSuccess(t *testing.T) {
	server := httptest.NewServer(engineHandler(t))
	defer server.Close()

	logger, _ := captureLogger()
	result := NewValidator(logger).Validate(context.Background(), Credentials{
		URL:      server.URL + "/ovirt-engine/api/",
		Username: "admin@internal",
		Password: testPassword,
		CAFile:   "/does/not/matter/for/http.pem",
	})

	assert.True(t, result.OK)
	assert.Empty(t, result.Reason)
	assert.Equal(t, 2, result.DataCenters)
}

func TestValidateWrongPasswordNeverLogsIt(t *testing.T) {
	server := httptest.NewServer(engineHandler(t))
	defer server.Close()

	wrong := "wr0ng-pa55"
	logger, buf := captureLogger()
	result := NewValidator(logger).Validate(context.Background(), Credentials{
		URL:      server.URL + "/ovirt-engine/api",
		Username: "admin@internal",
		Password: wrong,
		CAFile:   "/etc/pki/ovirt-engine/ca.pem",
	})

	assert.False(t, result.OK)
	assert.Contains(t, result.Reason, "401")
	assert.NotContains(t, result.Reason, wrong)
	assert.Contains(t, buf.String(), "Connection to setup has failed")
	assert.Contains(t, buf.String(), "/etc/pki/ovirt-engine/ca.pem")
	assert.NotContains(t, buf.String(), wrong)
}

func TestValidateTLSWithoutTrustedCA(t *testing.T) {
	server := httptest.NewTLSServer(engineHandler(t))
	defer server.Close()

	systemCA := filepath.Join(t.TempDir(), "system.pem")
	require.NoError(t, os.WriteFile(systemCA, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: selfSigned(t)}), 0o644))

	result := NewValidator(nil).Validate(context.Background(), Credentials{
		URL:      server.URL + "/ovirt-engine/api",
		Username: "admin@internal",
		Password: testPassword,
		CAFile:   systemCA,
	})

	assert.False(t, result.OK)
	assert.Contains(t, result.Reason, "failed to perform request")
}

func TestValidateTLSWithCAFile(t *testing.T) {
	server := httptest.NewTLSServer(engineHandler(t))
	defer server.Close()

	result := NewValidator(nil).Validate(context.Background(), Credentials{
		URL:      server.URL + "/ovirt-engine/api",
		Username: "admin@internal",
		Password: testPassword,
		CAFile:   writeServerCA(t, server),
	})

	assert.True(t, result.OK, result.Reason)
}

func TestValidateTLSFailures(t *testing.T) {
	server := httptest.NewTLSServer(engineHandler(t))
	defer server.Close()

	notPEM := filepath.Join(t.TempDir(), "ca.txt")
	require.NoError(t, os.WriteFile(notPEM, []byte("not a certificate"), 0o644))

	tests := []struct {
		name   string
		caFile string
		reason string
	}{
		{"missing CA file", filepath.Join(t.TempDir(), "missing.pem"), "failed to read CA file"},
		{"CA file without certificates", notPEM, "no PEM certificates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewValidator(nil).Validate(context.Background(), Credentials{
				URL:      server.URL + "/ovirt-engine/api",
				Username: "admin@internal",
				Password: testPassword,
				CAFile:   tt.caFile,
			})

			assert.False(t, result.OK)
			assert.Contains(t, result.Reason, tt.reason)
		})
	}
}

func TestValidateUndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>login page</html>"))
	}))
	defer server.Close()

	result := NewValidator(nil).Validate(context.Background(), Credentials{
		URL:      server.URL,
		Username: "admin@internal",
		Password: testPassword,
	})

	assert.False(t, result.OK)
	assert.Contains(t, result.Reason, "failed to decode response")
}

func TestValidateUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	result := NewValidator(nil).Validate(context.Background(), Credentials{
		URL:      url,
		Username: "admin@internal",
		Password: testPassword,
	})

	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Reason)
}

func TestValidateInvalidURL(t *testing.T) {
	for _, url := range []string{"ftp://engine/api", "engine.example.com/api", "http://[::1"} {
		t.Run(url, func(t *testing.T) {
			result := NewValidator(nil).Validate(context.Background(), Credentials{URL: url, Password: testPassword})
			assert.False(t, result.OK)
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func selfSigned(t *testing.T) []byte {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "unrelated engine CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	return der
}

func TestScrub(t *testing.T) {
	assert.Equal(t, "pw is ******", scrub("pw is hunter2", "hunter2"))
	assert.Equal(t, "nothing to hide", scrub("nothing to hide", ""))
}
