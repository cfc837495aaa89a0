package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://buildnchill.db"`

	Auth      Auth      `envPrefix:"AUTH_"`
	Discord   Discord   `envPrefix:"DISCORD_"`
	Minecraft Minecraft `envPrefix:"MC_"`
	Uploads   Uploads   `envPrefix:"UPLOAD_"`
}

type Auth struct {
	// Usernames map to <username>@EmailDomain, matching the accounts the
	// old site created through its hosted auth provider.
	EmailDomain string        `env:"EMAIL_DOMAIN" envDefault:"buildnchill.vn"`
	JWTSecret   string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"72h"`
}

type Discord struct {
	OrderWebhookURL    string `env:"ORDER_WEBHOOK_URL"`
	RechargeWebhookURL string `env:"RECHARGE_WEBHOOK_URL"`
	MentionID          string `env:"MENTION_ID"`
}

type Minecraft struct {
	StatusAPIURL string        `env:"STATUS_API_URL" envDefault:"https://api.mcsrvstat.us/3"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"2m"`
}

type Uploads struct {
	Dir          string `env:"DIR" envDefault:"uploads"`
	MaxSizeBytes int64  `env:"MAX_SIZE_BYTES" envDefault:"10485760"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
