package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var messagesYAML []byte

// Storage backends.
const (
	StorageGCS   = "gcs"
	StorageLocal = "local"
)

// Secret sources for person store credentials.
const (
	SecretSourceEnv  = "env"
	SecretSourceFile = "file"
)

type Config struct {
	Web         WebConfig
	Storage     StorageConfig
	Database    DatabaseConfig
	Collection  CollectionConfig
	FaceService FaceServiceConfig
	Log         LogConfig
	Messages    MessagesConfig
}

type WebConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string // CORS origins besides localhost
}

type StorageConfig struct {
	Backend       string // gcs or local
	Bucket        string // bucket name, also reported for the local backend
	Dir           string // root directory of the local backend
	PublicBaseURL string // base URL for photo previews (e.g., https://storage.googleapis.com/my-bucket)
	PublicPreview bool   // show photos on the faces page
	MaxFileSizeMB int
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *StorageConfig) MaxUploadBytes() int64 {
	return int64(c.MaxFileSizeMB) * 1024 * 1024
}

// PublicURL returns the preview URL of an object, or "" when previews are disabled.
func (c *StorageConfig) PublicURL(key string) string {
	if !c.PublicPreview || c.PublicBaseURL == "" || key == "" {
		return ""
	}
	return strings.TrimSuffix(c.PublicBaseURL, "/") + "/" + key
}

type DatabaseConfig struct {
	SecretSource string // env or file
	SecretRef    string // env prefix (DB) or secret file name
	SecretDir    string // directory holding secret files
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

type CollectionConfig struct {
	URL          string // PostgreSQL connection URL of the face collection
	ID           string // collection name faces are indexed into (default "faces")
	MaxOpenConns int
	MaxIdleConns int
}

type FaceServiceConfig struct {
	URL            string // defaults to http://localhost:8000
	TimeoutSeconds int
}

type LogConfig struct {
	Mode string // dev or prod
}

type MessagesConfig struct {
	Pages  map[string]string       `yaml:"pages"`
	Errors map[string]ErrorMessage `yaml:"errors"`
}

type ErrorMessage struct {
	Title   string `yaml:"title"`
	Message string `yaml:"message"`
}

// Page returns a page string, or the key itself if missing.
func (m MessagesConfig) Page(key string) string {
	if s, ok := m.Pages[key]; ok {
		return s
	}
	return key
}

// Error returns the message for an error kind, falling back to "unknown".
func (m MessagesConfig) Error(kind string) ErrorMessage {
	if msg, ok := m.Errors[kind]; ok {
		return msg
	}
	return m.Errors["unknown"]
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envBool reads a boolean environment variable ("true", "1", "yes").
func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "true", "1", "yes":
		return true
	}
	return false
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// envList reads a comma-separated environment variable, dropping empty items.
func envList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func Load() *Config {
	var messages MessagesConfig
	if err := yaml.Unmarshal(messagesYAML, &messages); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded messages.yaml: " + err.Error())
	}

	bucket := os.Getenv("BUCKET_NAME")
	backend := os.Getenv("STORAGE_BACKEND")
	if backend == "" {
		backend = StorageLocal
		if bucket != "" {
			backend = StorageGCS
		}
	}
	publicBase := os.Getenv("PUBLIC_MEDIA_BASE_URL")
	if publicBase == "" && bucket != "" {
		publicBase = "https://storage.googleapis.com/" + bucket
	}

	return &Config{
		Web: WebConfig{
			Host: envString("WEB_HOST", "0.0.0.0"),
			Port: envInt("WEB_PORT", envInt("PORT", 3000)),

			AllowedOrigins: envList("WEB_ALLOWED_ORIGINS"),
		},
		Storage: StorageConfig{
			Backend:       backend,
			Bucket:        bucket,
			Dir:           envString("STORAGE_DIR", "./data/uploads"),
			PublicBaseURL: publicBase,
			PublicPreview: envBool("ENABLE_PUBLIC_PHOTO_PREVIEW"),
			MaxFileSizeMB: envInt("MAX_FILE_SIZE_MB", 5),
		},
		Database: DatabaseConfig{
			SecretSource: envString("DB_SECRET_SOURCE", SecretSourceEnv),
			SecretRef:    envString("DB_SECRET_REF", "DB"),
			SecretDir:    os.Getenv("DB_SECRET_DIR"),
			MaxOpenConns: envInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DB_MAX_IDLE_CONNS", 5),
		},
		Collection: CollectionConfig{
			URL:          os.Getenv("COLLECTION_DATABASE_URL"),
			ID:           envString("COLLECTION_ID", "faces"),
			MaxOpenConns: envInt("COLLECTION_MAX_OPEN_CONNS", 10),
			MaxIdleConns: envInt("COLLECTION_MAX_IDLE_CONNS", 2),
		},
		FaceService: FaceServiceConfig{
			URL:            os.Getenv("FACE_SERVICE_URL"),
			TimeoutSeconds: envInt("FACE_SERVICE_TIMEOUT", 60),
		},
		Log: LogConfig{
			Mode: envString("LOG_MODE", "dev"),
		},
		Messages: messages,
	}
}

// Validate checks the settings needed by the registration pipeline.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case StorageGCS:
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("BUCKET_NAME is required for the gcs storage backend"))
		}
	case StorageLocal:
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("STORAGE_DIR is required for the local storage backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend))
	}

	switch c.Database.SecretSource {
	case SecretSourceEnv, SecretSourceFile:
	default:
		errs = append(errs, fmt.Errorf("unknown DB_SECRET_SOURCE %q", c.Database.SecretSource))
	}
	if c.Database.SecretRef == "" {
		errs = append(errs, errors.New("DB_SECRET_REF is required"))
	}

	if c.Collection.URL == "" {
		errs = append(errs, errors.New("COLLECTION_DATABASE_URL is required"))
	}
	return errors.Join(errs...)
}
