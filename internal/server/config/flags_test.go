package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected *Config
		wantErr  bool
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "127.0.0.1:9090", "-d", "db", "-k", "sk", "-w", "whsec",
				"-o", "https://a.example, https://b.example", "-s", "memory", "-f", "s3",
				"-l", "debug", "-t", "5", "-u", "user", "-p", "password", "-b", "bucket",
				"-g", "us-west-1", "-e", "http://endpoint",
			},
			expected: &Config{
				HTTPAddr:            "127.0.0.1:9090",
				DatabaseDSN:         "db",
				StripeSecretKey:     "sk",
				StripeWebhookSecret: "whsec",
				AllowedOrigins:      []string{"https://a.example", "https://b.example"},
				StoreBackend:        "memory",
				PayloadBackend:      "s3",
				LogLevel:            "debug",
				ShutdownTimeout:     5 * time.Second,
				S3AccessKey:         "user",
				S3SecretKey:         "password",
				S3Bucket:            "bucket",
				S3Region:            "us-west-1",
				S3BaseEndpoint:      "http://endpoint",
			},
		},
		{
			name:     "unknown flags are filtered out",
			args:     []string{"-c", "cfg.json", "-z", "1", "-d", "db"},
			expected: &Config{DatabaseDSN: "db"},
		},
		{
			name:    "bad integer",
			args:    []string{"-t", "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}
			err := parseFlags(config, tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
