package config

import (
	"os"
	"strconv"
	"strings"
)

const appName = "edu-notifier"

type App struct {
	Name string
	Env  string
}

type HTTPService struct {
	Port int
}

type Logger struct {
	Level string
}

type Audit struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type AppConfig struct {
	App          App
	Logger       Logger
	Audit        Audit
	HTTPService  HTTPService
	QueueService QueueConfig
}

type QueueConfig struct {
	Kafka  KafkaBroker
	Topics TopicsList
}

type (
	TopicsList struct {
		Deliveries ProduceTopicConfig
	}
	KafkaBroker struct {
		Host             string
		Port             int
		BootstrapServers []string
	}
	ProduceTopicConfig struct {
		Name string
	}
)

func Init() (AppConfig, error) {
	var config AppConfig

	// default AppConfig
	config = AppConfig{
		App: App{
			Name: appName,
			Env:  os.Getenv("APP_ENV"),
		},
		Logger: Logger{
			Level: GetEnvAsStr("LOG_LEVEL", "DEBUG"),
		},
		Audit: Audit{
			Path:       GetEnvAsStr("AUDIT_LOG_PATH", ""),
			MaxSizeMB:  GetEnvAsInt("AUDIT_LOG_MAX_SIZE_MB", 50),
			MaxBackups: GetEnvAsInt("AUDIT_LOG_MAX_BACKUPS", 5),
			MaxAgeDays: GetEnvAsInt("AUDIT_LOG_MAX_AGE_DAYS", 30),
		},
		HTTPService: HTTPService{
			Port: GetEnvAsInt("API_PORTHTTP", 8080),
		},
		QueueService: QueueConfig{
			Kafka: KafkaBroker{
				Host:             GetEnvAsStr("KAFKA_HOST", ""),
				Port:             GetEnvAsInt("KAFKA_PORT", 0),
				BootstrapServers: GetEnvAsStrSlice("KAFKA_BOOTSTRAP_SERVERS", []string{}),
			},
			Topics: TopicsList{
				Deliveries: ProduceTopicConfig{
					Name: GetEnvAsStr("KAFKA_TOPIC_DELIVERIES", ""),
				},
			},
		},
	}

	return config, nil
}

func GetEnvAsStr(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func GetEnvAsStrSlice(key string, defaultVal []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		return strings.Split(value, ",")
	}

	return defaultVal
}

func GetEnvAsInt(key string, defaultVal int) int {
	valueStr := GetEnvAsStr(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}

	return defaultVal
}

func GetEnvAsBool(key string, defaultVal bool) bool {
	valStr := GetEnvAsStr(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}
