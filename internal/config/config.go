package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Valeurs de repli quand la connexion au backend hébergé n'est pas configurée.
// Le client reste construit pour que le service démarre et que l'erreur soit visible.
const (
	PlaceholderBackendURL = "https://placeholder.supabase.co"
	PlaceholderBackendKey = "placeholder-key"
)

type Config struct {
	AppEnv   string
	HTTPAddr string
	LogMode  string
	LogFile  string

	BackendURL       string
	BackendAnonKey   string
	BackendJWTSecret string

	SessionSecret string
	CORSOrigins   []string

	StorageDriver string
	BoltPath      string
	RedisHost     string
	RedisPassword string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	WhatsAppRecipient string

	// EnvFileLoaded indique si un fichier .env a été trouvé.
	EnvFileLoaded bool
}

// Load charge .env (si présent) puis construit la configuration depuis l'environnement.
func Load() Config {
	loaded := godotenv.Load(".env") == nil

	port := get("PORT", "8080")
	return Config{
		AppEnv:   get("APP_ENV", "dev"),
		HTTPAddr: ":" + port,
		LogMode:  get("LOG_MODE", "development"),
		LogFile:  get("LOG_FILE", ""),

		BackendURL:       get("SUPABASE_URL", ""),
		BackendAnonKey:   get("SUPABASE_ANON_KEY", ""),
		BackendJWTSecret: get("SUPABASE_JWT_SECRET", ""),

		SessionSecret: get("SESSION_SECRET", ""),
		CORSOrigins:   getList("CORS_ORIGINS", []string{"http://localhost:5173"}),

		StorageDriver: strings.ToLower(get("STORAGE_DRIVER", "bolt")),
		BoltPath:      get("BOLT_PATH", "storefront.db"),
		RedisHost:     get("REDIS_HOST", "localhost:6379"),
		RedisPassword: get("REDIS_PASSWORD", ""),

		ElasticURL:      get("ELASTIC_URL", ""),
		ElasticUser:     get("ELASTIC_USER", ""),
		ElasticPassword: get("ELASTIC_PASSWORD", ""),

		MinioEndpoint:  get("MINIO_ENDPOINT", ""),
		MinioAccessKey: get("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: get("MINIO_SECRET_KEY", ""),
		MinioBucket:    get("MINIO_BUCKET", "products"),
		MinioUseSSL:    getBool("MINIO_USE_SSL", false),

		WhatsAppRecipient: get("WHATSAPP_RECIPIENT", "2348012345678"),

		EnvFileLoaded: loaded,
	}
}

// BackendConfigured est faux quand l'URL ou la clé publique manque.
func (c Config) BackendConfigured() bool {
	return c.BackendURL != "" && c.BackendAnonKey != ""
}

// Backend retourne l'URL et la clé à utiliser, avec le placeholder si besoin.
func (c Config) Backend() (string, string) {
	if !c.BackendConfigured() {
		return PlaceholderBackendURL, PlaceholderBackendKey
	}
	return c.BackendURL, c.BackendAnonKey
}

func get(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getList(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
