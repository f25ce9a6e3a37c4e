package config

import (
	"errors"
	"os"
	"time"
)

// Config is read once at startup. A missing credential for the selected
// provider is a fatal configuration error, not something to recover from.
type Config struct {
	Port string

	LLMProvider     string // groq|vertex
	STTProvider     string // deepgram|google
	StorageProvider string // s3|gcs

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	DeepgramAPIKey   string
	DeepgramTTSModel string
	DeepgramSTTModel string

	S3Bucket       string
	AWSRegion      string
	AWSAccessKeyID string
	AWSSecretKey   string

	GCSBucket string

	VertexProjectID string
	VertexLocation  string
	VertexModel     string

	AuthJWTSecret string
	SessionTTL    time.Duration
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:            getenv("PORT", "8080"),
		LLMProvider:     getenv("LLM_PROVIDER", "groq"),
		STTProvider:     getenv("STT_PROVIDER", "deepgram"),
		StorageProvider: getenv("STORAGE_PROVIDER", "s3"),

		GroqAPIKey:  os.Getenv("GROQ_API_KEY"),
		GroqBaseURL: getenv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:   getenv("GROQ_MODEL", "mixtral-8x7b-32768"),

		DeepgramAPIKey:   os.Getenv("DEEPGRAM_API_KEY"),
		DeepgramTTSModel: getenv("DEEPGRAM_TTS_MODEL", "aura-asteria-en"),
		DeepgramSTTModel: getenv("DEEPGRAM_STT_MODEL", "nova-2"),

		S3Bucket:       os.Getenv("S3_BUCKET_NAME"),
		AWSRegion:      os.Getenv("AWS_REGION"),
		AWSAccessKeyID: os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretKey:   os.Getenv("AWS_SECRET_ACCESS_KEY"),

		GCSBucket: os.Getenv("GCS_BUCKET"),

		VertexProjectID: os.Getenv("VERTEX_PROJECT_ID"),
		VertexLocation:  getenv("VERTEX_LOCATION", "us-central1"),
		VertexModel:     getenv("VERTEX_MODEL", "gemini-1.5-flash"),

		AuthJWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		SessionTTL:    24 * time.Hour,
	}

	if v := os.Getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, errors.New("SESSION_TTL is not a valid duration")
		}
		cfg.SessionTTL = d
	}

	switch cfg.LLMProvider {
	case "groq":
		if cfg.GroqAPIKey == "" {
			return nil, errors.New("GROQ_API_KEY environment variable is not set")
		}
	case "vertex":
		if cfg.VertexProjectID == "" {
			return nil, errors.New("VERTEX_PROJECT_ID environment variable is not set")
		}
	default:
		return nil, errors.New("LLM_PROVIDER must be groq or vertex")
	}

	switch cfg.STTProvider {
	case "deepgram":
		if cfg.DeepgramAPIKey == "" {
			return nil, errors.New("DEEPGRAM_API_KEY environment variable is not set")
		}
	case "google":
		// credentials resolved by the client library (ADC)
	default:
		return nil, errors.New("STT_PROVIDER must be deepgram or google")
	}

	// speech synthesis is Deepgram-only; the key is required regardless of STT provider
	if cfg.DeepgramAPIKey == "" {
		return nil, errors.New("DEEPGRAM_API_KEY environment variable is not set")
	}

	switch cfg.StorageProvider {
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, errors.New("S3_BUCKET_NAME environment variable is not set")
		}
		if cfg.AWSRegion == "" {
			return nil, errors.New("AWS_REGION environment variable is not set")
		}
	case "gcs":
		if cfg.GCSBucket == "" {
			return nil, errors.New("GCS_BUCKET environment variable is not set")
		}
	default:
		return nil, errors.New("STORAGE_PROVIDER must be s3 or gcs")
	}

	return cfg, nil
}
