package api

import (
	"crypto/tls"
	"log"

	"github.com/AaronLay10/SentientCutscene/internal/config"
)

// TLSConfig holds certificate paths from SENTIENT_TLS_CERT and
// SENTIENT_TLS_KEY.
type TLSConfig struct {
	CertFile string `env:"SENTIENT_TLS_CERT"`
	KeyFile  string `env:"SENTIENT_TLS_KEY"`
}

var tlsConfig *TLSConfig

// InitTLS reads the TLS environment. TLS stays off unless both paths are set.
func InitTLS() error {
	var cfg TLSConfig
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	tlsConfig = nil
	if cfg.CertFile != "" && cfg.KeyFile != "" {
		tlsConfig = &cfg
	}
	return nil
}

// IsTLSEnabled returns true if TLS is configured.
func IsTLSEnabled() bool {
	return tlsConfig != nil
}

// GetTLSConfig returns the current TLS configuration (may be nil).
func GetTLSConfig() *TLSConfig {
	return tlsConfig
}

// LoadTLSConfig loads the key pair. It returns nil, logging why, when TLS
// is off or the files cannot be read.
func LoadTLSConfig() *tls.Config {
	if !IsTLSEnabled() {
		return nil
	}

	cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
	if err != nil {
		log.Printf("failed to load TLS certificate: %v", err)
		return nil
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
}
