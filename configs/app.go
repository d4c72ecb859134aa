package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"organize.it/configs/configslog"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// AppConfig uygulamanın ortam değişkenlerinden okunan ayarlarını tutar.
type AppConfig struct {
	Env      string
	Port     string
	BaseURL  string
	Location *time.Location

	SessionExpiration time.Duration
	SessionSecure     bool
	CSRFEnabled       bool

	Mail    MailConfig
	Storage StorageConfig
	Jobs    JobsConfig
}

// MailConfig SMTP ayarları. Host boşsa e-postalar sadece loglanır.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseSSL   bool
}

// StorageConfig profil resimlerinin nerede saklanacağını belirler.
type StorageConfig struct {
	Driver            string // "local" veya "minio"
	UploadDir         string
	PublicPath        string
	AllowedExtensions []string
	MaxUploadBytes    int

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

// JobsConfig periyodik işlerin aralıklarını tutar.
type JobsConfig struct {
	Enabled          bool
	ReminderInterval time.Duration
	CleanupInterval  time.Duration
	ReminderWindow   time.Duration
	NotificationKeep int
}

// LoadEnv .env dosyasını (varsa) yükler. Dosya yoksa sadece ortam değişkenleri kullanılır.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Debug(".env dosyası bulunamadı, ortam değişkenleri kullanılacak")
	}
}

// LoadAppConfig AppConfig'i ortam değişkenlerinden oluşturur.
func LoadAppConfig() *AppConfig {
	tzName := GetEnvWithDefault("APP_TIMEZONE", "Europe/Sofia")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		configslog.Log.Warn("Geçersiz APP_TIMEZONE, UTC kullanılıyor", zap.String("timezone", tzName), zap.Error(err))
		loc = time.UTC
	}

	port := GetEnvWithDefault("APP_PORT", "5001")
	return &AppConfig{
		Env:      GetEnvWithDefault("APP_ENV", "development"),
		Port:     port,
		BaseURL:  strings.TrimRight(GetEnvWithDefault("APP_BASE_URL", "http://localhost:"+port), "/"),
		Location: loc,

		SessionExpiration: GetEnvDuration("SESSION_EXPIRATION", 24*time.Hour),
		SessionSecure:     GetEnvBool("SESSION_SECURE", false),
		CSRFEnabled:       GetEnvBool("CSRF_ENABLED", true),

		Mail: MailConfig{
			Host:     os.Getenv("MAIL_SERVER"),
			Port:     GetEnvInt("MAIL_PORT", 465),
			Username: os.Getenv("MAIL_USERNAME"),
			Password: os.Getenv("MAIL_PASSWORD"),
			From:     GetEnvWithDefault("MAIL_DEFAULT_SENDER", "organize.it@localhost"),
			UseSSL:   GetEnvBool("MAIL_USE_SSL", true),
		},
		Storage: StorageConfig{
			Driver:            GetEnvWithDefault("STORAGE_DRIVER", "local"),
			UploadDir:         GetEnvWithDefault("UPLOAD_DIR", "static/profile_pictures"),
			PublicPath:        "/profile_pictures",
			AllowedExtensions: strings.Split(GetEnvWithDefault("ALLOWED_EXTENSIONS", "png,jpg,jpeg,gif"), ","),
			MaxUploadBytes:    GetEnvInt("MAX_CONTENT_LENGTH", 16*1024*1024),
			MinioEndpoint:     os.Getenv("MINIO_ENDPOINT"),
			MinioAccessKey:    os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecretKey:    os.Getenv("MINIO_SECRET_KEY"),
			MinioBucket:       GetEnvWithDefault("MINIO_BUCKET", "profile-pictures"),
			MinioUseSSL:       GetEnvBool("MINIO_USE_SSL", false),
		},
		Jobs: JobsConfig{
			Enabled:          GetEnvBool("JOBS_ENABLED", true),
			ReminderInterval: GetEnvDuration("REMINDER_INTERVAL", 12*time.Hour),
			CleanupInterval:  GetEnvDuration("CLEANUP_INTERVAL", 24*time.Hour),
			ReminderWindow:   GetEnvDuration("REMINDER_WINDOW", 24*time.Hour),
			NotificationKeep: GetEnvInt("NOTIFICATION_KEEP", 50),
		},
	}
}

// AbsoluteURL uygulama içi bir yolu BaseURL ile birleştirir (e-posta ve bildirim linkleri için).
func (c *AppConfig) AbsoluteURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.BaseURL + path
}

// IsProduction production ortamında mıyız?
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func GetEnvWithDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func GetEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		configslog.Log.Warn("Geçersiz sayısal ortam değişkeni, varsayılan kullanılıyor", zap.String("key", key), zap.String("value", raw))
		return defaultValue
	}
	return v
}

func GetEnvBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		configslog.Log.Warn("Geçersiz bool ortam değişkeni, varsayılan kullanılıyor", zap.String("key", key), zap.String("value", raw))
		return defaultValue
	}
	return v
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		configslog.Log.Warn("Geçersiz süre ortam değişkeni, varsayılan kullanılıyor", zap.String("key", key), zap.String("value", raw))
		return defaultValue
	}
	return v
}
