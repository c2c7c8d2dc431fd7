// Package config содержит функции для загрузки конфигурации эмулятора
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/hazadus/go-sake/internal/logger"
)

// DefaultPath путь к файлу конфигурации по умолчанию
const DefaultPath = "~/.sake.yaml"

// Переменные окружения, которые понимает эмулятор
const (
	EnvHome          = "KODI_HOME"
	EnvProfile       = "KODI_PROFILE"
	EnvActiveProfile = "KODI_ACTIVE_PROFILE"
	EnvInteractive   = "KODI_INTERACTIVE"
	EnvVerbose       = "KODI_STUB_VERBOSE"
	EnvInput         = "KODI_STUB_INPUT"
	EnvRPCResponses  = "KODI_STUB_RPC_RESPONSES"
	EnvYouTube       = "KODI_STUB_YOUTUBE"
)

// PlayerConfig настройки симулятора плеера
type PlayerConfig struct {
	TickInterval time.Duration `yaml:"tick_interval" validate:"gte=0"`
	TotalTime    int           `yaml:"total_time" validate:"gte=1"`
}

// YouTubeConfig настройки запросов к YouTube для тегов роликов
type YouTubeConfig struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// ServerConfig настройки JSON-RPC сервера
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Config структура для хранения конфигурации эмулятора
type Config struct {
	KodiHome        string `yaml:"kodi_home"`
	KodiProfile     string `yaml:"kodi_profile"`
	ActiveProfile   string `yaml:"active_profile"`
	Interactive     bool   `yaml:"interactive"`
	Verbose         bool   `yaml:"verbose"`
	Input           string `yaml:"input"`
	RPCResponsesDir string `yaml:"rpc_responses"`

	AwsBucketName string `yaml:"aws_bucket_name"`
	AwsAccessKey  string `yaml:"aws_access_key"`
	AwsSecretKey  string `yaml:"aws_secret_key"`
	AwsRegion     string `yaml:"aws_region"`
	AwsEndpoint   string `yaml:"aws_endpoint"`

	Player  PlayerConfig  `yaml:"player"`
	Server  ServerConfig  `yaml:"server"`
	YouTube YouTubeConfig `yaml:"youtube"`
	Log     logger.Config `yaml:"log"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Interactive: true,
		Player: PlayerConfig{
			TickInterval: time.Second,
			TotalTime:    5,
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8080",
			AllowedOrigins: []string{"*"},
		},
		YouTube: YouTubeConfig{
			Enabled: true,
			Timeout: 10 * time.Second,
		},
		Log: logger.Config{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// LoadConfig загружает конфигурацию из файла и переменных окружения.
// Отсутствующий файл не является ошибкой
func LoadConfig(filePath string) (*Config, error) {
	path, err := ExpandHome(filePath)
	if err != nil {
		return nil, err
	}

	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("ошибка разбора конфигурации %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Работаем только на переменных окружения
	default:
		return nil, fmt.Errorf("ошибка чтения конфигурации: %w", err)
	}

	config.ApplyEnv(os.LookupEnv)

	if config.KodiHome, err = ExpandHome(config.KodiHome); err != nil {
		return nil, err
	}
	if config.KodiProfile, err = ExpandHome(config.KodiProfile); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnv переопределяет значения переменными окружения Kodi
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvHome); ok && v != "" {
		c.KodiHome = v
	}
	if v, ok := lookup(EnvProfile); ok && v != "" {
		c.KodiProfile = v
	}
	if v, ok := lookup(EnvActiveProfile); ok {
		c.ActiveProfile = v
	}
	if v, ok := lookup(EnvInteractive); ok {
		c.Interactive = v == "1"
	}
	if v, ok := lookup(EnvVerbose); ok {
		c.Verbose = v == "1"
	}
	if v, ok := lookup(EnvInput); ok {
		c.Input = v
	}
	if v, ok := lookup(EnvRPCResponses); ok {
		c.RPCResponsesDir = v
	}
	if v, ok := lookup(EnvYouTube); ok {
		c.YouTube.Enabled = v == "1"
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("некорректная конфигурация: %w", err)
	}
	return nil
}

// HasS3 сообщает, настроено ли хранилище S3
func (c *Config) HasS3() bool {
	return c.AwsBucketName != "" && c.AwsRegion != ""
}

// ExpandHome раскрывает тильду в начале пути
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("ошибка определения домашней директории: %w", err)
	}
	return strings.Replace(path, "~", home, 1), nil
}
