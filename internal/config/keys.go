package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoSessionCookie is returned when no server session cookie is configured.
var ErrNoSessionCookie = errors.New("no session cookie configured")

// GetSessionCookie returns the session cookie sent with submissions.
// It checks in order: environment variable, config file.
func GetSessionCookie(cfg *Config) (string, error) {
	if c := os.Getenv("KNOWBITE_SESSION_COOKIE"); c != "" {
		return c, nil
	}

	if cfg != nil && cfg.Server.SessionCookie != "" {
		c := os.ExpandEnv(cfg.Server.SessionCookie)
		if c != "" && !strings.HasPrefix(c, "${") {
			return c, nil
		}
	}

	return "", ErrNoSessionCookie
}

// ValidateSessionCookie checks that a cookie value is safe to put in a
// Cookie header: name=value pairs, no line breaks.
func ValidateSessionCookie(cookie string) error {
	if cookie == "" {
		return ErrNoSessionCookie
	}

	if strings.ContainsAny(cookie, "\r\n") {
		return errors.New("invalid session cookie: contains a line break")
	}

	for _, part := range strings.Split(cookie, ";") {
		name, _, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name == "" {
			return errors.New("invalid session cookie: expected name=value pairs")
		}
	}

	return nil
}

// MaskSessionCookie returns a masked version of the cookie for display.
func MaskSessionCookie(cookie string) string {
	if cookie == "" {
		return "(not set)"
	}

	name, value, ok := strings.Cut(cookie, "=")
	if !ok || len(value) <= 8 {
		return "***"
	}

	return name + "=" + value[:4] + "..." + value[len(value)-4:]
}

// CookieSource represents where the session cookie was loaded from.
type CookieSource string

const (
	CookieSourceEnv    CookieSource = "environment"
	CookieSourceConfig CookieSource = "config_file"
	CookieSourceNone   CookieSource = "none"
)

// GetSessionCookieSource returns where the session cookie was sourced from.
func GetSessionCookieSource(cfg *Config) CookieSource {
	if os.Getenv("KNOWBITE_SESSION_COOKIE") != "" {
		return CookieSourceEnv
	}

	if cfg != nil && cfg.Server.SessionCookie != "" {
		c := os.ExpandEnv(cfg.Server.SessionCookie)
		if c != "" && !strings.HasPrefix(c, "${") {
			return CookieSourceConfig
		}
	}

	return CookieSourceNone
}
