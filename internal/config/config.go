// Пакет config — загрузка и валидация конфигурации сервиса
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации сервиса.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration

	// --- MongoDB ---

	// URI подключения к MongoDB
	MongoURI string
	// Имя базы данных
	MongoDatabase string
	// Таймаут подключения и ping
	MongoTimeout time.Duration

	// --- Media Store (MinIO/S3) ---

	// Endpoint хранилища (схема определяет TLS)
	S3Endpoint string
	// Access key
	S3AccessKey string
	// Secret key
	S3SecretKey string
	// Бакет для изображений
	S3Bucket string
	// Базовый публичный URL, под которым раздаются объекты бакета
	S3PublicURL string

	// --- SMTP ---

	// Хост SMTP-сервера
	SMTPHost string
	// Порт SMTP-сервера
	SMTPPort int
	// Имя пользователя SMTP
	SMTPUser string
	// Пароль SMTP
	SMTPPassword string
	// Адрес отправителя
	MailFrom string
	// Адрес получателя писем контактной формы и уведомлений
	MailTo string

	// --- Админ-доступ ---

	// Имя администратора
	AdminUsername string
	// bcrypt-хеш пароля администратора
	AdminPasswordHash string
	// Секрет шифрования session cookie (AES-256-GCM)
	SessionSecret string
	// Выставлять ли Secure flag на session cookie (true за HTTPS)
	SecureCookies bool

	// --- Политики контента ---

	// Разрешать ли обновлению новости очищать главное изображение.
	// Поведение исходной админки — разрешено.
	AllowEmptyMainImage bool
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// CMS_PORT — порт HTTP-сервера (по умолчанию 8080)
	cfg.Port, err = getEnvInt("CMS_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("CMS_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("CMS_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// CMS_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("CMS_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("CMS_LOG_LEVEL: %w", err)
	}

	// CMS_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("CMS_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("CMS_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// CMS_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("CMS_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CMS_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- MongoDB ---

	// CMS_MONGO_URI — обязательный
	cfg.MongoURI, err = getEnvRequired("CMS_MONGO_URI")
	if err != nil {
		return nil, err
	}

	// CMS_MONGO_DATABASE — имя БД (по умолчанию clubcms)
	cfg.MongoDatabase = getEnvDefault("CMS_MONGO_DATABASE", "clubcms")

	// CMS_MONGO_TIMEOUT — таймаут подключения (по умолчанию 10s)
	cfg.MongoTimeout, err = getEnvDuration("CMS_MONGO_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CMS_MONGO_TIMEOUT: %w", err)
	}

	// --- Media Store ---

	// CMS_S3_ENDPOINT — обязательный
	cfg.S3Endpoint, err = getEnvRequired("CMS_S3_ENDPOINT")
	if err != nil {
		return nil, err
	}

	// CMS_S3_ACCESS_KEY — обязательный
	cfg.S3AccessKey, err = getEnvRequired("CMS_S3_ACCESS_KEY")
	if err != nil {
		return nil, err
	}

	// CMS_S3_SECRET_KEY — обязательный
	cfg.S3SecretKey, err = getEnvRequired("CMS_S3_SECRET_KEY")
	if err != nil {
		return nil, err
	}

	// CMS_S3_BUCKET — бакет изображений (по умолчанию club-media)
	cfg.S3Bucket = getEnvDefault("CMS_S3_BUCKET", "club-media")

	// CMS_S3_PUBLIC_URL — обязательный, без trailing slash
	cfg.S3PublicURL, err = getEnvRequired("CMS_S3_PUBLIC_URL")
	if err != nil {
		return nil, err
	}
	cfg.S3PublicURL = strings.TrimRight(cfg.S3PublicURL, "/")

	// --- SMTP ---

	// CMS_SMTP_HOST — обязательный
	cfg.SMTPHost, err = getEnvRequired("CMS_SMTP_HOST")
	if err != nil {
		return nil, err
	}

	// CMS_SMTP_PORT — порт SMTP (по умолчанию 465)
	cfg.SMTPPort, err = getEnvInt("CMS_SMTP_PORT", 465)
	if err != nil {
		return nil, fmt.Errorf("CMS_SMTP_PORT: %w", err)
	}

	// CMS_SMTP_USER — обязательный
	cfg.SMTPUser, err = getEnvRequired("CMS_SMTP_USER")
	if err != nil {
		return nil, err
	}

	// CMS_SMTP_PASSWORD — обязательный
	cfg.SMTPPassword, err = getEnvRequired("CMS_SMTP_PASSWORD")
	if err != nil {
		return nil, err
	}

	// CMS_MAIL_FROM — адрес отправителя (по умолчанию — SMTP-пользователь)
	cfg.MailFrom = getEnvDefault("CMS_MAIL_FROM", cfg.SMTPUser)

	// CMS_MAIL_TO — обязательный
	cfg.MailTo, err = getEnvRequired("CMS_MAIL_TO")
	if err != nil {
		return nil, err
	}

	// --- Админ-доступ ---

	// CMS_ADMIN_USERNAME — имя администратора (по умолчанию admin)
	cfg.AdminUsername = getEnvDefault("CMS_ADMIN_USERNAME", "admin")

	// CMS_ADMIN_PASSWORD_HASH — обязательный bcrypt-хеш
	cfg.AdminPasswordHash, err = getEnvRequired("CMS_ADMIN_PASSWORD_HASH")
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(cfg.AdminPasswordHash, "$2") {
		return nil, fmt.Errorf("CMS_ADMIN_PASSWORD_HASH: ожидается bcrypt-хеш")
	}

	// CMS_SESSION_SECRET — обязательный: ключ переживает рестарты,
	// иначе каждый деплой разлогинивает администратора
	cfg.SessionSecret, err = getEnvRequired("CMS_SESSION_SECRET")
	if err != nil {
		return nil, err
	}

	// CMS_SECURE_COOKIES — по умолчанию false (HTTP за reverse proxy)
	cfg.SecureCookies, err = getEnvBool("CMS_SECURE_COOKIES", false)
	if err != nil {
		return nil, fmt.Errorf("CMS_SECURE_COOKIES: %w", err)
	}

	// --- Политики контента ---

	// CMS_ALLOW_EMPTY_MAIN_IMAGE — по умолчанию true (поведение исходной админки)
	cfg.AllowEmptyMainImage, err = getEnvBool("CMS_ALLOW_EMPTY_MAIN_IMAGE", true)
	if err != nil {
		return nil, fmt.Errorf("CMS_ALLOW_EMPTY_MAIN_IMAGE: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q", val)
	}
	return b, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
