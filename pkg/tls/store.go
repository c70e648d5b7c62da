package tls

import (
	"crypto/tls"
	"errors"
	"fmt"
)

// ServerConfig returns the TLS configuration for a secure endpoint. When both
// certFile and keyFile are set the key pair is loaded from disk; otherwise a
// self-signed certificate for host is generated in memory.
func ServerConfig(certFile, keyFile, host string) (*tls.Config, error) {
	var (
		cert tls.Certificate
		err  error
	)
	switch {
	case certFile != "" && keyFile != "":
		cert, err = tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load key pair: %w", err)
		}
	case certFile != "" || keyFile != "":
		return nil, errors.New("certificate and key files must be set together")
	default:
		generated, err := GenerateSelfSignedCert(DefaultCertificateConfig(host))
		if err != nil {
			return nil, err
		}
		cert, err = tls.X509KeyPair(generated.CertPEM, generated.KeyPEM)
		if err != nil {
			return nil, fmt.Errorf("failed to build key pair: %w", err)
		}
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}
