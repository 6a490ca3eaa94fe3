package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Interview InterviewConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Client    ClientConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LLMConfig selects the model provider. BaseURL points at any
// OpenAI-compatible endpoint (OpenAI itself, Groq, a local proxy).
type LLMConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

type InterviewConfig struct {
	BatchSize         int
	MaxQuestions      int
	DefaultDifficulty string
	BatchCacheTTL     time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
}

type LoggerConfig struct {
	Level string
	Env   string
}

// ClientConfig configures the CLI client side.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		viper.AddConfigPath("../../config")
		viper.AddConfigPath("../../")
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults plus env cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         viper.GetInt("server.port"),
			ReadTimeout:  viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: viper.GetDuration("server.write_timeout") * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:     viper.GetString("llm.base_url"),
			APIKey:      viper.GetString("llm.api_key"),
			Model:       viper.GetString("llm.model"),
			Temperature: viper.GetFloat64("llm.temperature"),
			Timeout:     viper.GetDuration("llm.timeout") * time.Second,
		},
		Interview: InterviewConfig{
			BatchSize:         viper.GetInt("interview.batch_size"),
			MaxQuestions:      viper.GetInt("interview.max_questions"),
			DefaultDifficulty: viper.GetString("interview.default_difficulty"),
			BatchCacheTTL:     viper.GetDuration("interview.batch_cache_ttl") * time.Second,
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("redis.enabled"),
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		Client: ClientConfig{
			BaseURL: viper.GetString("client.base_url"),
			Timeout: viper.GetDuration("client.timeout") * time.Second,
		},
	}

	// Override with environment variables if set
	if key := os.Getenv("LLM_API_KEY"); key != "" {
		config.LLM.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && config.LLM.APIKey == "" {
		config.LLM.APIKey = key
	}
	if baseURL := os.Getenv("LLM_BASE_URL"); baseURL != "" {
		config.LLM.BaseURL = baseURL
	}
	if redisAddress := os.Getenv("REDIS_ADDRESS"); redisAddress != "" {
		config.Redis.Address = redisAddress
		config.Redis.Enabled = true
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.Redis.Password = redisPassword
	}
	if baseURL := os.Getenv("INTERVIEW_SERVICE_URL"); baseURL != "" {
		config.Client.BaseURL = baseURL
	}

	return config, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("llm.model", "llama-3.1-70b-versatile")
	viper.SetDefault("llm.temperature", 0.7)
	viper.SetDefault("llm.timeout", 30)
	viper.SetDefault("interview.batch_size", 5)
	viper.SetDefault("interview.max_questions", 10)
	viper.SetDefault("interview.default_difficulty", "medium")
	viper.SetDefault("interview.batch_cache_ttl", 3600)
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("client.base_url", "http://localhost:8000")
	viper.SetDefault("client.timeout", 60)
}
