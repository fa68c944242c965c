package bootstrap

import (
	"testing"

	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "planaula",
		SessionKey:    "test-session-key",
		SessionName:   "planaula-session",
		CSRFKey:       "0123456789abcdef0123456789abcdef",
		AdminUsername: "cgpg",
		AdminPassword: "password123",
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *AppConfig) {},
		},
		{
			name:    "bad mongo uri",
			mutate:  func(c *AppConfig) { c.MongoURI = "not-a-uri" },
			wantErr: true,
		},
		{
			name:    "short csrf key",
			mutate:  func(c *AppConfig) { c.CSRFKey = "too-short" },
			wantErr: true,
		},
		{
			name:    "blank admin username",
			mutate:  func(c *AppConfig) { c.AdminUsername = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)

			err := ValidateConfig(nil, cfg, zap.NewNop())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
