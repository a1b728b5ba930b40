package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	StorageS3    = "s3"
	StorageLocal = "local"
)

type (
	APP struct {
		Name      string `validate:"required"`
		Host      string
		Port      string `validate:"required,numeric"`
		Env       string
		JWTSecret string `validate:"required"`
		// PublicURL is used to build share links when the request has no Origin.
		PublicURL string `validate:"omitempty,url"`
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
	}
	Storage struct {
		Driver    string `validate:"oneof=s3 local"`
		LocalPath string `validate:"required_if=Driver local"`
	}
	S3 struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		BucketUploads   string `validate:"required_if=Driver s3"`
		Endpoint        string `validate:"omitempty,url"`
		UsePathStyle    bool
		// Driver mirrors Storage.Driver so required_if can see it.
		Driver string
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}
	Share struct {
		LinkPolicy        string `validate:"oneof=member bearer"`
		AllowSharedDelete bool
		// CompactEvery is the period of the expired link compaction job, 0 disables it.
		CompactEvery time.Duration
		// CompactGrace keeps expired links for a while before they are removed.
		CompactGrace time.Duration
	}
	Log struct {
		Level      string `validate:"oneof=debug info warn error"`
		File       string
		MaxSizeMB  int
		MaxBackups int
	}

	Config struct {
		App     APP
		DB      DB
		Storage Storage
		S3      S3
		MQ      MQ
		Share   Share
		Log     Log
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func Load() Config {
	app := APP{
		Name:      getEnv("SERVICE_NAME", "fileshare"),
		Host:      getEnv("SERVICE_HOST", ""),
		Port:      getEnv("SERVICE_PORT", "5000"),
		Env:       getEnv("SERVICE_ENV", ""),
		JWTSecret: getEnv("SERVICE_JWT_SECRET", ""),
		PublicURL: getEnv("SERVICE_PUBLIC_URL", ""),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
	}
	storage := Storage{
		Driver:    getEnv("STORAGE_DRIVER", StorageS3),
		LocalPath: getEnv("STORAGE_LOCAL_PATH", "uploads"),
	}
	s3 := S3{
		Region:          getEnv("S3_REGION", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		BucketUploads:   getEnv("S3_BUCKET_UPLOADS", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", false),
		Driver:          storage.Driver,
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "files"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "file_events"),
	}
	share := Share{
		LinkPolicy:        getEnv("SHARE_LINK_POLICY", "member"),
		AllowSharedDelete: getEnvBool("SHARE_ALLOW_SHARED_DELETE", false),
		CompactEvery:      getEnvDuration("SHARE_COMPACT_EVERY", time.Hour),
		CompactGrace:      getEnvDuration("SHARE_COMPACT_GRACE", 24*time.Hour),
	}
	log := Log{
		Level:      getEnv("LOG_LEVEL", "info"),
		File:       getEnv("LOG_FILE", ""),
		MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 100),
		MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
	}

	return Config{
		App:     app,
		DB:      db,
		Storage: storage,
		S3:      s3,
		MQ:      mq,
		Share:   share,
		Log:     log,
	}
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		url.QueryEscape(c.DB.User),
		url.QueryEscape(c.DB.Password),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	), nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
