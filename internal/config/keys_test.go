package config

import (
	"testing"
)

func TestGetSessionCookie(t *testing.T) {
	t.Run("from environment variable", func(t *testing.T) {
		t.Setenv("KNOWBITE_SESSION_COOKIE", "sessionid=env")

		c, err := GetSessionCookie(&Config{})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if c != "sessionid=env" {
			t.Errorf("expected 'sessionid=env', got %q", c)
		}
	})

	t.Run("from config", func(t *testing.T) {
		t.Setenv("KNOWBITE_SESSION_COOKIE", "")

		cfg := &Config{Server: ServerConfig{SessionCookie: "sessionid=file"}}
		c, err := GetSessionCookie(cfg)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if c != "sessionid=file" {
			t.Errorf("expected 'sessionid=file', got %q", c)
		}
	})

	t.Run("unexpanded reference", func(t *testing.T) {
		t.Setenv("KNOWBITE_SESSION_COOKIE", "")

		cfg := &Config{Server: ServerConfig{SessionCookie: "${KB_UNSET_COOKIE_VAR}"}}
		if _, err := GetSessionCookie(cfg); err != ErrNoSessionCookie {
			t.Errorf("expected ErrNoSessionCookie, got %v", err)
		}
	})

	t.Run("no cookie configured", func(t *testing.T) {
		t.Setenv("KNOWBITE_SESSION_COOKIE", "")

		if _, err := GetSessionCookie(&Config{}); err != ErrNoSessionCookie {
			t.Errorf("expected ErrNoSessionCookie, got %v", err)
		}
	})
}

func TestValidateSessionCookie(t *testing.T) {
	tests := []struct {
		name    string
		cookie  string
		wantErr bool
	}{
		{"single pair", "sessionid=abc123", false},
		{"multiple pairs", "sessionid=abc; csrftoken=xyz", false},
		{"empty", "", true},
		{"no equals", "sessionid", true},
		{"header injection", "sessionid=abc\r\nX-Evil: 1", true},
		{"empty name", "=abc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionCookie(tt.cookie)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSessionCookie() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMaskSessionCookie(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		expected string
	}{
		{"long value", "sessionid=abcdefghijklmnop", "sessionid=abcd...mnop"},
		{"empty", "", "(not set)"},
		{"short value", "sessionid=abc", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskSessionCookie(tt.cookie); got != tt.expected {
				t.Errorf("MaskSessionCookie() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestGetSessionCookieSource(t *testing.T) {
	t.Run("from environment", func(t *testing.T) {
		t.Setenv("KNOWBITE_SESSION_COOKIE", "sessionid=x")
		if s := GetSessionCookieSource(&Config{}); s != CookieSourceEnv {
			t.Errorf("expected CookieSourceEnv, got %v", s)
		}
	})

	t.Run("from config", func(t *testing.T) {
		t.Setenv("KNOWBITE_SESSION_COOKIE", "")
		cfg := &Config{Server: ServerConfig{SessionCookie: "sessionid=y"}}
		if s := GetSessionCookieSource(cfg); s != CookieSourceConfig {
			t.Errorf("expected CookieSourceConfig, got %v", s)
		}
	})

	t.Run("none", func(t *testing.T) {
		t.Setenv("KNOWBITE_SESSION_COOKIE", "")
		if s := GetSessionCookieSource(&Config{}); s != CookieSourceNone {
			t.Errorf("expected CookieSourceNone, got %v", s)
		}
	})
}
