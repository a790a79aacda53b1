package app

import (
	"os"
	"strconv"
)

// Config описывает настройки запуска магазина. Все значения читаются из
// окружения; пустые поля включают разумные дефолты или отключают
// соответствующий компонент.
type Config struct {
	// HTTPAddr — адрес основного API.
	HTTPAddr string
	// MetricsAddr — адрес служебного сервера: /metrics, /healthz, /livez.
	MetricsAddr string

	// MongoURI — пустое значение включает in-memory хранилище.
	MongoURI      string
	MongoDatabase string

	// KafkaBrokers — список брокеров через запятую; пустое значение
	// отключает публикацию событий.
	KafkaBrokers string

	// SMTP-канал доставки писем; пустой Host отключает реальную отправку.
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	// OperatorEmail — служебные уведомления о новых заказах; пустое
	// значение отключает канал.
	OperatorEmail string

	// JWTSecret — секрет подписи токенов операторов.
	JWTSecret string
	// SeedAdminPassword переопределяет пароль фиксированного оператора.
	SeedAdminPassword string

	// UploadDir и UploadBaseURL настраивают дисковое хранилище изображений.
	UploadDir     string
	UploadBaseURL string
}

// DefaultConfig возвращает конфигурацию для локального запуска.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:      ":8080",
		MetricsAddr:   ":9090",
		MongoDatabase: "storefront",
		SMTPPort:      587,
		EmailFrom:     "no-reply@shop.com",
		JWTSecret:     "dev-secret-change-me",
		UploadDir:     "uploads",
		UploadBaseURL: "/uploads",
	}
}

// LoadConfig собирает конфигурацию из окружения поверх дефолтов.
func LoadConfig() Config {
	cfg := DefaultConfig()

	setString(&cfg.HTTPAddr, "SHOP_HTTP_ADDR")
	setString(&cfg.MetricsAddr, "SHOP_METRICS_ADDR")
	setString(&cfg.MongoURI, "MONGO_URI")
	setString(&cfg.MongoDatabase, "MONGO_DATABASE")
	setString(&cfg.KafkaBrokers, "KAFKA_BROKERS")
	setString(&cfg.SMTPHost, "SMTP_HOST")
	setInt(&cfg.SMTPPort, "SMTP_PORT")
	setString(&cfg.SMTPUsername, "SMTP_USERNAME")
	setString(&cfg.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.EmailFrom, "SHOP_EMAIL_FROM")
	setString(&cfg.OperatorEmail, "SHOP_OPERATOR_EMAIL")
	setString(&cfg.JWTSecret, "SHOP_JWT_SECRET")
	setString(&cfg.SeedAdminPassword, "SHOP_SEED_ADMIN_PASSWORD")
	setString(&cfg.UploadDir, "SHOP_UPLOAD_DIR")
	setString(&cfg.UploadBaseURL, "SHOP_UPLOAD_BASE_URL")

	return cfg
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) {
	value := os.Getenv(key)
	if value == "" {
		return
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return
	}
	*dst = parsed
}
