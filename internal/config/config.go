package config

import (
	"fmt"
	"strings"
	"time"

	"family-chores-go/pkg/logger"
	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"

	RepositoryLocal  = "local"
	RepositoryRemote = "remote"
)

type Config struct {
	HTTPPort    string   `env:"HTTP_PORT" env-default:"8080"`
	Env         string   `env:"ENV" env-default:"development"`
	LogLevel    string   `env:"LOG_LEVEL"`
	LogFormat   string   `env:"LOG_FORMAT" env-default:"json"`
	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`

	// StoreDriver picks the record store backing the local repositories.
	StoreDriver string `env:"STORE_DRIVER" env-default:"sqlite"`
	// Repository is local (whole-collection record store) or remote
	// (relational tables over DB).
	Repository          string `env:"REPOSITORY" env-default:"local"`
	OwnershipScoped     bool   `env:"OWNERSHIP_SCOPED" env-default:"false"`
	BootstrapDegradedOK bool   `env:"BOOTSTRAP_DEGRADED_OK" env-default:"false"`

	SQLitePath string `env:"SQLITE_PATH" env-default:"family-chores.db"`

	DB       DBConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Kafka    KafkaConfig
	Family   FamilyConfig
	Search   SearchConfig
	Auth     AuthConfig
	Supabase SupabaseConfig
}

type DBConfig struct {
	DSN             string        `env:"DB_DSN"`
	Host            string        `env:"DB_HOST" env-default:"localhost"`
	Port            string        `env:"DB_PORT" env-default:"5432"`
	User            string        `env:"DB_USER" env-default:"postgres"`
	Password        string        `env:"DB_PASSWORD" env-default:"postgres"`
	Name            string        `env:"DB_NAME" env-default:"family_chores"`
	SSLMode         string        `env:"DB_SSLMODE" env-default:"disable"`
	TimeZone        string        `env:"DB_TIMEZONE" env-default:"UTC"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
}

type RedisConfig struct {
	URL       string `env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	KeyPrefix string `env:"REDIS_KEY_PREFIX" env-default:"@tarefas:"`
	PoolSize  int    `env:"REDIS_POOL_SIZE" env-default:"10"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	Database string `env:"MONGO_DATABASE" env-default:"family_chores"`
}

// KafkaConfig enables task event publishing when Brokers is not empty.
type KafkaConfig struct {
	Brokers   []string `env:"KAFKA_BROKERS" env-separator:","`
	TaskTopic string   `env:"KAFKA_TASK_TOPIC" env-default:"task-events"`
}

type FamilyConfig struct {
	InviteTTL     time.Duration `env:"INVITE_TTL" env-default:"168h"`
	StrictInvites bool          `env:"INVITES_STRICT" env-default:"false"`
}

type SearchConfig struct {
	DeadlineLayout string `env:"SEARCH_DEADLINE_LAYOUT" env-default:"02/01/2006"`
}

type AuthConfig struct {
	SkipAuth       bool   `env:"AUTH_SKIP" env-default:"false"`
	MockUserID     string `env:"AUTH_MOCK_USER_ID" env-default:"00000000-0000-0000-0000-000000000001"`
	MockUserEmail  string `env:"AUTH_MOCK_USER_EMAIL"`
	MockUserName   string `env:"AUTH_MOCK_USER_NAME"`
	MockUserAvatar string `env:"AUTH_MOCK_USER_AVATAR_URL"`
	// JWTSecret enables local HS256 token verification.
	JWTSecret string `env:"AUTH_JWT_SECRET"`
}

type SupabaseConfig struct {
	URL            string        `env:"SUPABASE_URL"`
	PublishableKey string        `env:"SUPABASE_PUBLISHABLE_KEY"`
	AuthTimeout    time.Duration `env:"SUPABASE_AUTH_TIMEOUT" env-default:"5s"`
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(logger.OrNop(log)); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverSQLite, DriverPostgres, DriverRedis, DriverMongo:
	default:
		return fmt.Errorf("config: unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.Repository {
	case RepositoryLocal, RepositoryRemote:
	default:
		return fmt.Errorf("config: unknown REPOSITORY %q", c.Repository)
	}
	if c.Family.InviteTTL <= 0 {
		return fmt.Errorf("config: INVITE_TTL must be positive")
	}
	return nil
}

func (c Config) LoggerOptions() logger.Options {
	return logger.Options{Env: c.Env, Level: c.LogLevel, Format: c.LogFormat}
}

func (c Config) KafkaEnabled() bool {
	for _, broker := range c.Kafka.Brokers {
		if strings.TrimSpace(broker) != "" {
			return true
		}
	}
	return false
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
