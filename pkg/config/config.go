package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/thisisgagangupta/dev-kiosk/pkg/client"
	"github.com/thisisgagangupta/dev-kiosk/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	// QueueLanes is the ordered lane list; lane routing hashes doctor
	// ids over this set, so changing it re-shuffles the mapping.
	QueueLanes     []string
	ConsultAvgMin  int
	ClinicTimeZone string
	WallboardLimit int

	AppointmentsBaseURL string
	IdentityBaseURL     string

	CheckinTopic string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		QueueLanes:     splitLanes(getEnvStr(EnvQueueLanes, DefaultQueueLanes)),
		ConsultAvgMin:  getEnvNum(EnvConsultAvgMin, DefaultConsultAvgMin),
		ClinicTimeZone: getEnvStr(EnvClinicTimeZone, DefaultClinicTimeZone),
		WallboardLimit: getEnvNum(EnvWallboardLimit, DefaultWallboardLimit),

		AppointmentsBaseURL: getEnvStr(EnvAppointmentsBaseURL, ""),
		IdentityBaseURL:     getEnvStr(EnvIdentityBaseURL, ""),

		CheckinTopic: getEnvStr(EnvCheckinTopic, DefaultCheckinTopic),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errs = append(errs, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errs = append(errs, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}
	if cfg.MongoDatabaseName == "" {
		errs = append(errs, "MongoDatabaseName cannot be empty")
	}
	if cfg.MongoConnTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}

	if len(cfg.QueueLanes) == 0 {
		errs = append(errs, "QueueLanes cannot be empty")
	}
	for _, lane := range cfg.QueueLanes {
		if lane == "" {
			errs = append(errs, "QueueLanes cannot contain empty lane names")
			break
		}
	}
	if cfg.ConsultAvgMin <= 0 {
		errs = append(errs, fmt.Sprintf("ConsultAvgMin must be positive, got: %d", cfg.ConsultAvgMin))
	}
	if _, err := time.LoadLocation(cfg.ClinicTimeZone); err != nil {
		errs = append(errs, fmt.Sprintf("ClinicTimeZone is not a valid IANA zone: %s", cfg.ClinicTimeZone))
	}
	if cfg.WallboardLimit <= 0 {
		errs = append(errs, fmt.Sprintf("WallboardLimit must be positive, got: %d", cfg.WallboardLimit))
	}

	if cfg.AppointmentsBaseURL == "" {
		errs = append(errs, "AppointmentsBaseURL cannot be empty")
	}

	if cfg.RateLimitRequests <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errs = append(errs, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errs) > 0 {
		msg := "Configuration validation failed:\n"
		for i, e := range errs {
			msg += fmt.Sprintf("  %d. %s\n", i+1, e)
		}
		return fmt.Errorf("%s", msg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"queue_lanes", strings.Join(cfg.QueueLanes, ","),
		"consult_avg_min", cfg.ConsultAvgMin,
		"clinic_time_zone", cfg.ClinicTimeZone,
		"wallboard_limit", cfg.WallboardLimit,
		"appointments_base_url", cfg.AppointmentsBaseURL,
		"identity_base_url", cfg.IdentityBaseURL,
		"checkin_topic", cfg.CheckinTopic,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

// ClinicLocation returns the clinic's time zone. Validate already
// checked the zone parses, so the fallback is only hit in tests that
// build a Config by hand.
func (cfg *Config) ClinicLocation() *time.Location {
	loc, err := time.LoadLocation(cfg.ClinicTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Today returns the current clinic-local date in ISO format.
func (cfg *Config) Today() string {
	return time.Now().In(cfg.ClinicLocation()).Format("2006-01-02")
}

func splitLanes(raw string) []string {
	parts := strings.Split(raw, ",")
	lanes := make([]string, 0, len(parts))
	for _, p := range parts {
		if lane := strings.TrimSpace(p); lane != "" {
			lanes = append(lanes, lane)
		}
	}
	return lanes
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
