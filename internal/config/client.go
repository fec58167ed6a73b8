package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-interview-client/internal/credentials"
)

// Client configures the interview terminal client.
type Client struct {
	APIURL              string
	CredentialMode      credentials.Mode
	CredentialsFile     string
	HTTPTimeout         time.Duration
	LogLevel            string
	DefaultTimerMinutes int
	CodeLanguage        string
	SpeechSynthCmd      string
	SpeechCaptureCmd    string
	MirrorAddr          string
}

func LoadClient() (*Client, error) {
	loadDotEnv()

	mode, err := credentials.ParseMode(os.Getenv("CREDENTIAL_MODE"))
	if err != nil {
		return nil, err
	}

	cfg := &Client{
		APIURL:              strings.TrimRight(getEnv("API_URL", "http://127.0.0.1:8000"), "/"),
		CredentialMode:      mode,
		CredentialsFile:     getEnv("CREDENTIALS_FILE", defaultCredentialsFile()),
		HTTPTimeout:         getDuration("HTTP_TIMEOUT", 30*time.Second),
		LogLevel:            getEnv("LOG_LEVEL", "warn"),
		DefaultTimerMinutes: getInt("DEFAULT_TIMER_MINUTES", 10),
		CodeLanguage:        getEnv("CODE_LANGUAGE", "Python"),
		SpeechSynthCmd:      strings.TrimSpace(os.Getenv("SPEECH_SYNTH_CMD")),
		SpeechCaptureCmd:    strings.TrimSpace(os.Getenv("SPEECH_CAPTURE_CMD")),
		MirrorAddr:          strings.TrimSpace(os.Getenv("MIRROR_ADDR")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Client) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_URL must be an absolute URL, got %q", c.APIURL)
	}

	if c.CredentialMode == credentials.ModeToken && strings.TrimSpace(c.CredentialsFile) == "" {
		return fmt.Errorf("CREDENTIALS_FILE cannot be empty in token mode")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	if c.DefaultTimerMinutes <= 0 {
		return fmt.Errorf("DEFAULT_TIMER_MINUTES must be positive")
	}

	return nil
}

func defaultCredentialsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".interview-credentials.json"
	}
	return filepath.Join(dir, "interview-client", "credentials.json")
}
