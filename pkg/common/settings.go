package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings is the runtime configuration of the alert console, read from the
// environment (and .env in development).
type Settings struct {
	DBType string

	HttpHostPort string
	GrpcHostPort string

	DefaultRate  float64
	DefaultBurst int

	Actor           string
	NotificationTTL time.Duration
	AckTimeout      time.Duration
	SoundAsset      string

	FeedType       string
	FeedPath       string
	FeedRedisAddr  string
	FeedRedisDB    int
	FeedMQTTBroker string

	BackendBaseURL    string
	BackendTimeout    time.Duration
	BackendRetryCount int
}

func DefaultSettings() Settings {
	return Settings{
		DBType:            "memory",
		HttpHostPort:      ":1080",
		DefaultRate:       5,
		DefaultBurst:      10,
		Actor:             "operator",
		NotificationTTL:   30 * time.Second,
		AckTimeout:        10 * time.Second,
		SoundAsset:        "/alert.mp3",
		FeedType:          "memory",
		FeedPath:          "alerts",
		FeedRedisAddr:     "127.0.0.1:6379",
		BackendBaseURL:    "http://localhost:3061/api/sensors",
		BackendTimeout:    10 * time.Second,
		BackendRetryCount: 1,
	}
}

func LoadSettings() (Settings, error) {
	s := DefaultSettings()
	var err error

	setString(&s.DBType, EnvKeyConsoleDBType)
	setString(&s.HttpHostPort, EnvKeyConsoleHttpHostPort)
	setString(&s.GrpcHostPort, EnvKeyConsoleGrpcHostPort)
	setString(&s.Actor, EnvKeyConsoleActor)
	setString(&s.SoundAsset, EnvKeyConsoleSoundAsset)
	setString(&s.FeedType, EnvKeyFeedType)
	setString(&s.FeedPath, EnvKeyFeedPath)
	setString(&s.FeedRedisAddr, EnvKeyFeedRedisAddr)
	setString(&s.FeedMQTTBroker, EnvKeyFeedMQTTBroker)
	setString(&s.BackendBaseURL, EnvKeyBackendBaseURL)

	if v, ok := lookup(EnvKeyConsoleDefaultRate); ok {
		if s.DefaultRate, err = strconv.ParseFloat(v, 64); err != nil {
			return s, fmt.Errorf("invalid %s, should be a float64 value: %w", EnvKeyConsoleDefaultRate, err)
		}
	}
	if v, ok := lookup(EnvKeyConsoleDefaultBurst); ok {
		if s.DefaultBurst, err = strconv.Atoi(v); err != nil {
			return s, fmt.Errorf("invalid %s, should be an int value: %w", EnvKeyConsoleDefaultBurst, err)
		}
	}
	if v, ok := lookup(EnvKeyFeedRedisDB); ok {
		if s.FeedRedisDB, err = strconv.Atoi(v); err != nil {
			return s, fmt.Errorf("invalid %s, should be an int value: %w", EnvKeyFeedRedisDB, err)
		}
	}
	if v, ok := lookup(EnvKeyBackendRetryCount); ok {
		if s.BackendRetryCount, err = strconv.Atoi(v); err != nil {
			return s, fmt.Errorf("invalid %s, should be an int value: %w", EnvKeyBackendRetryCount, err)
		}
	}
	if err = setDuration(&s.NotificationTTL, EnvKeyConsoleNotificationTTL); err != nil {
		return s, err
	}
	if err = setDuration(&s.AckTimeout, EnvKeyConsoleAckTimeout); err != nil {
		return s, err
	}
	if err = setDuration(&s.BackendTimeout, EnvKeyBackendTimeout); err != nil {
		return s, err
	}

	return s, s.Validate()
}

func (s Settings) Validate() error {
	switch s.DBType {
	case "file", "memory":
	default:
		return fmt.Errorf("unknown %s: %q", EnvKeyConsoleDBType, s.DBType)
	}

	switch s.FeedType {
	case "memory":
	case "redis":
		if s.FeedRedisAddr == "" {
			return fmt.Errorf("%s is required for redis feed", EnvKeyFeedRedisAddr)
		}
	case "mqtt":
		if s.FeedMQTTBroker == "" {
			return fmt.Errorf("%s is required for mqtt feed", EnvKeyFeedMQTTBroker)
		}
	default:
		return fmt.Errorf("unknown %s: %q", EnvKeyFeedType, s.FeedType)
	}

	if strings.TrimSpace(s.Actor) == "" {
		return fmt.Errorf("%s can not be empty", EnvKeyConsoleActor)
	}
	if s.AckTimeout <= 0 {
		return fmt.Errorf("%s should be positive", EnvKeyConsoleAckTimeout)
	}
	if s.BackendRetryCount < 0 {
		return fmt.Errorf("%s can not be negative", EnvKeyBackendRetryCount)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := lookup(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s, should be a duration like 30s: %w", key, err)
	}
	*dst = d
	return nil
}
