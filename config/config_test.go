package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/phillip/edubridge-go/store/memstore"
)

func TestParseSettingsDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("APP_ENV", "")

	s, err := ParseSettings()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Port != "5000" || s.StoreDriver != DriverMongo || s.DBName != "edubridge_db" {
		t.Fatalf("settings = %+v", s)
	}
	if s.AccessTokenTTL != 24*time.Hour || s.RefreshTokenTTL != 30*24*time.Hour {
		t.Fatalf("ttls = %v / %v", s.AccessTokenTTL, s.RefreshTokenTTL)
	}
	if len(s.CORSOrigins) != 3 || s.CORSOrigins[2] != "http://localhost:5173" {
		t.Fatalf("cors = %v", s.CORSOrigins)
	}
	if s.JWTSecret != devJWTSecret {
		t.Fatalf("expected development secret, got %q", s.JWTSecret)
	}
}

func TestParseSettingsOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	t.Setenv("JWT_ACCESS_TOKEN_EXPIRES", "15m")
	t.Setenv("CORS_ORIGINS", "https://edubridge.org,https://admin.edubridge.org")

	s, err := ParseSettings()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Port != "8080" || s.StoreDriver != DriverMemory || s.JWTSecret != "s3cret" || s.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("settings = %+v", s)
	}
	if len(s.CORSOrigins) != 2 || s.CORSOrigins[1] != "https://admin.edubridge.org" {
		t.Fatalf("cors = %v", s.CORSOrigins)
	}
}

func TestParseSettingsErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad driver", map[string]string{"STORE_DRIVER": "sqlite"}, "STORE_DRIVER"},
		{"bad duration", map[string]string{"JWT_ACCESS_TOKEN_EXPIRES": "soon"}, "parse env:"},
		{"production without secret", map[string]string{"APP_ENV": "production", "JWT_SECRET_KEY": ""}, "JWT_SECRET_KEY"},
		{"negative ttl", map[string]string{"JWT_REFRESH_TOKEN_EXPIRES": "-1h", "JWT_SECRET_KEY": "x"}, "positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := ParseSettings()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestNewWiresServices(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("JWT_SECRET_KEY", "s3cret")
	s, err := ParseSettings()
	if err != nil {
		t.Fatal(err)
	}
	st, err := OpenStore(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := st.(*memstore.Store); !ok {
		t.Fatalf("store = %T, want memstore", st)
	}

	cfg, err := New(s, st)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Accounts == nil || cfg.Donations == nil || cfg.Mentorships == nil || cfg.Tokens == nil {
		t.Fatalf("config not fully wired: %+v", cfg)
	}
	if cfg.Mailer == nil || cfg.Uploader == nil || cfg.Now == nil {
		t.Fatal("mailer, uploader and clock must default to usable values")
	}
}
