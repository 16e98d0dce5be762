package api

import "testing"

func TestInitTLS(t *testing.T) {
	tests := []struct {
		name    string
		cert    string
		key     string
		enabled bool
	}{
		{"neither", "", "", false},
		{"only cert", "/path/to/cert.pem", "", false},
		{"only key", "", "/path/to/key.pem", false},
		{"both", "/path/to/cert.pem", "/path/to/key.pem", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SENTIENT_TLS_CERT", tt.cert)
			t.Setenv("SENTIENT_TLS_KEY", tt.key)
			if err := InitTLS(); err != nil {
				t.Fatal(err)
			}
			if IsTLSEnabled() != tt.enabled {
				t.Errorf("IsTLSEnabled = %v, want %v", IsTLSEnabled(), tt.enabled)
			}
			if tt.enabled && GetTLSConfig().CertFile != tt.cert {
				t.Errorf("CertFile = %q, want %q", GetTLSConfig().CertFile, tt.cert)
			}
		})
	}
	tlsConfig = nil
}

func TestLoadTLSConfig(t *testing.T) {
	tlsConfig = nil
	if LoadTLSConfig() != nil {
		t.Error("LoadTLSConfig should return nil when TLS is not enabled")
	}

	tlsConfig = &TLSConfig{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}
	defer func() { tlsConfig = nil }()
	if LoadTLSConfig() != nil {
		t.Error("LoadTLSConfig should return nil when cert files don't exist")
	}
}
