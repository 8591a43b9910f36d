package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the scholard service
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Source    SourceConfig    `mapstructure:"source"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Research  ResearchConfig  `mapstructure:"research"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server and auth settings
type ServerConfig struct {
	Listen    string `mapstructure:"listen"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

// ProvidersConfig contains chat model provider configurations
type ProvidersConfig struct {
	AzureOpenAI AzureOpenAIConfig `mapstructure:"azure_openai"`
}

// AzureOpenAIConfig contains the Azure OpenAI chat completion settings
type AzureOpenAIConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	APIKey      string        `mapstructure:"api_key"`
	Deployment  string        `mapstructure:"deployment"`
	APIVersion  string        `mapstructure:"api_version"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (a AzureOpenAIConfig) Validate() error {
	if strings.TrimSpace(a.Endpoint) == "" {
		return fmt.Errorf("providers.azure_openai.endpoint required")
	}
	if strings.TrimSpace(a.Deployment) == "" {
		return fmt.Errorf("providers.azure_openai.deployment required")
	}
	return nil
}

// SourceConfig contains external paper source settings
type SourceConfig struct {
	ArXiv ArXivConfig `mapstructure:"arxiv"`
}

// ArXivConfig contains arXiv API settings
type ArXivConfig struct {
	Endpoint   string        `mapstructure:"endpoint"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// StorageConfig contains storage and persistence settings
type StorageConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	File     FileConfig     `mapstructure:"file"`
}

// PostgresConfig contains Postgres connection settings
type PostgresConfig struct {
	URL      string        `mapstructure:"url"`
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	User     string        `mapstructure:"user"`
	Password string        `mapstructure:"password"`
	DBName   string        `mapstructure:"dbname"`
	SSLMode  string        `mapstructure:"sslmode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DSN builds a postgres connection string, preferring the explicit URL.
func (p PostgresConfig) DSN() (string, error) {
	if strings.TrimSpace(p.URL) != "" {
		return p.URL, nil
	}
	if strings.TrimSpace(p.Host) == "" || strings.TrimSpace(p.DBName) == "" {
		return "", fmt.Errorf("postgres not configured (storage.postgres.host/dbname or url)")
	}
	port := p.Port
	if port == "" {
		port = "5432"
	}
	ssl := p.SSLMode
	if ssl == "" {
		ssl = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", p.User, p.Password, p.Host, port, p.DBName, ssl), nil
}

// RedisConfig contains Redis connection settings. Redis is optional: when
// host is empty the search cache falls back to an in-process store.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// FileConfig contains local file storage settings
type FileConfig struct {
	ResearchDir string `mapstructure:"research_dir"`
}

// ResearchConfig tunes the paper discovery pipeline
type ResearchConfig struct {
	TargetCount int `mapstructure:"target_count"`
}

// LoadConfig loads config from file and SCHOLARD_* environment variables
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.listen", ":10020")
	viper.SetDefault("providers.azure_openai.api_version", "2024-02-01")
	viper.SetDefault("providers.azure_openai.temperature", 0.3)
	viper.SetDefault("providers.azure_openai.max_tokens", 1024)
	viper.SetDefault("providers.azure_openai.timeout", 60*time.Second)
	viper.SetDefault("source.arxiv.endpoint", "http://export.arxiv.org/api/query")
	viper.SetDefault("source.arxiv.max_results", 10)
	viper.SetDefault("source.arxiv.timeout", 30*time.Second)
	viper.SetDefault("storage.file.research_dir", "output/research")
	viper.SetDefault("research.target_count", 5)

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("SCHOLARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional; env vars and defaults may be enough.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}
	if config.Research.TargetCount <= 0 {
		config.Research.TargetCount = 5
	}
	return &config
}
