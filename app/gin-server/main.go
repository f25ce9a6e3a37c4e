package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/prepmate/prepmate/config"
	"github.com/prepmate/prepmate/internal/api/handlers"
	"github.com/prepmate/prepmate/internal/api/middleware"
	"github.com/prepmate/prepmate/internal/api/routes"
	"github.com/prepmate/prepmate/internal/audio"
	"github.com/prepmate/prepmate/internal/logger"
	"github.com/prepmate/prepmate/internal/orchestrator"
	"github.com/prepmate/prepmate/internal/providers/scriptgen"
	"github.com/prepmate/prepmate/internal/providers/stt"
	"github.com/prepmate/prepmate/internal/providers/tts"
	"github.com/prepmate/prepmate/internal/session"
	"github.com/prepmate/prepmate/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg := logger.New()

	if err := config.InitRedis(); err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	lg.Info("Redis connected")

	ctx := context.Background()

	var gen scriptgen.Generator
	switch cfg.LLMProvider {
	case "vertex":
		gen, err = scriptgen.NewVertexGemini(ctx, cfg.VertexProjectID, cfg.VertexLocation, cfg.VertexModel)
		if err != nil {
			log.Fatalf("Vertex init error: %v", err)
		}
	default:
		gen = scriptgen.NewGroq(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.GroqModel)
	}
	defer gen.Close()

	var rec stt.Recognizer
	switch cfg.STTProvider {
	case "google":
		rec, err = stt.NewGoogleSpeech(ctx)
		if err != nil {
			log.Fatalf("Google Speech init error: %v", err)
		}
	default:
		rec = stt.NewDeepgram(cfg.DeepgramAPIKey, "", cfg.DeepgramSTTModel)
	}
	defer rec.Close()

	synth := tts.NewDeepgram(cfg.DeepgramAPIKey, "", cfg.DeepgramTTSModel)

	var uploader storage.Uploader
	switch cfg.StorageProvider {
	case "gcs":
		uploader, err = storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			log.Fatalf("GCS init error: %v", err)
		}
	default:
		uploader, err = storage.NewS3Uploader(ctx, cfg.S3Bucket, cfg.AWSRegion, cfg.AWSAccessKeyID, cfg.AWSSecretKey)
		if err != nil {
			log.Fatalf("S3 init error: %v", err)
		}
	}

	orch := orchestrator.New(orchestrator.Config{
		Store:       session.NewRedisStore(config.RedisClient, cfg.SessionTTL),
		Generator:   gen,
		Synthesizer: synth,
		Recognizer:  rec,
		Uploader:    uploader,
		Fetcher:     &storage.HTTPFetcher{},
		Events:      orchestrator.NewRedisPublisher(config.RedisClient),
		Logger:      lg,
		SampleRate:  audio.DefaultSampleRate,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(lg))

	routes.RegisterRoutes(r, routes.Deps{
		Interview: handlers.NewInterviewHandler(orch, gen, synth, rec, uploader),
		WS:        handlers.NewWSHandler(orch, config.RedisClient),
		JWTSecret: cfg.AuthJWTSecret,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
