package config

import (
	"time"
)

type DB struct {
	Url             string        `envconfig:"URL"`
	AutoMigrate     bool          `envconfig:"AUTO_MIGRATE" default:"true"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
}

// Jwt configures bearer tokens. A zero Expiry issues tokens without exp.
type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"0s"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

// Redis backs the token denylist. An empty URL selects the in-memory store.
type Redis struct {
	URL          string        `envconfig:"URL"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"cinema:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Cloudinary struct {
	CloudName string `envconfig:"CLOUD_NAME"`
	APIKey    string `envconfig:"API_KEY"`
	APISecret string `envconfig:"API_SECRET"`
}

type GCS struct {
	Bucket          string `envconfig:"BUCKET"`
	CredentialsFile string `envconfig:"CREDENTIALS_FILE"`
}

// Media selects the remote image store: cloudinary, gcs or mock.
// PublicBaseURL prefixes references the store returns without a scheme.
type Media struct {
	Driver        string        `envconfig:"DRIVER" default:"mock"`
	RootFolder    string        `envconfig:"ROOT_FOLDER" default:"cinema-online"`
	PublicBaseURL string        `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:3000/uploads/"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"30s"`
	Cloudinary    *Cloudinary   `envconfig:"CLOUDINARY"`
	GCS           *GCS          `envconfig:"GCS"`
}

type Upload struct {
	MaxSize           int64    `envconfig:"MAX_SIZE" default:"10000000"`
	AllowedExtensions []string `envconfig:"ALLOWED_EXTENSIONS" default:"jpg,jpeg,png"`
}

// Kafka enables the Kafka event bus when Brokers is set.
type Kafka struct {
	Brokers     string `envconfig:"BROKERS"`
	TopicPrefix string `envconfig:"TOPIC_PREFIX" default:"cinema.events"`
}

// Otel enables OTLP trace export when Endpoint is set.
type Otel struct {
	Endpoint    string `envconfig:"ENDPOINT"`
	Insecure    bool   `envconfig:"INSECURE" default:"true"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"cinema-online"`
}

// Transaction tunes the purchase workflow. LockTerminal forbids moving a
// record out of Approved or Rejected.
type Transaction struct {
	LockTerminal bool `envconfig:"LOCK_TERMINAL" default:"false"`
}

type Cors struct {
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"*"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[cinema]"`
}

type Server struct {
	Scheme         string   `envconfig:"SCHEME" default:"http"`
	Host           string   `envconfig:"HOST" default:"localhost"`
	Port           int      `envconfig:"PORT" default:"3000"`
	// ProxyHeader carries the client address, but only on requests whose
	// peer is listed in TrustedProxies.
	ProxyHeader    string   `envconfig:"PROXY_HEADER" default:"X-Forwarded-For"`
	TrustedProxies []string `envconfig:"TRUSTED_PROXIES"`
}

type App struct {
	Env         string       `envconfig:"APP_ENV" default:"development"`
	Server      *Server      `envconfig:"SERVER"`
	Log         *Log         `envconfig:"LOG"`
	DB          *DB          `envconfig:"DATABASE"`
	Auth        *Auth        `envconfig:"AUTH"`
	Redis       *Redis       `envconfig:"REDIS"`
	RateLimit   *RateLimit   `envconfig:"RATE_LIMIT"`
	Media       *Media       `envconfig:"MEDIA"`
	Upload      *Upload      `envconfig:"UPLOAD"`
	Kafka       *Kafka       `envconfig:"KAFKA"`
	Otel        *Otel        `envconfig:"OTEL"`
	Transaction *Transaction `envconfig:"TRANSACTION"`
	Cors        *Cors        `envconfig:"CORS"`
}
