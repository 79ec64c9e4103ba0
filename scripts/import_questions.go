// Loads a question bank file into the database without starting the server.
// Useful for the first deployment or when seeding a local sqlite database.
//
// Usage: go run scripts/import_questions.go -file data/questions.json

package main

import (
	"context"
	"flag"
	"log"
	"os"

	"secplus_backend/internal/config"
	"secplus_backend/internal/repository"
	"secplus_backend/internal/service"
	"secplus_backend/pkg/database"
	"secplus_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	file := flag.String("file", "", "question bank file (.json, .yaml or .yml)")
	flag.Parse()

	if *file == "" {
		log.Fatal("-file is required")
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, true)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	// no redis here: the server's cached counts expire on their own
	svc := service.NewQuestionService(repository.NewQuestionRepository(db, nil), nil, "")
	result, err := svc.Import(context.Background(), *file, data)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	logger.Log.Info("Question bank imported",
		zap.String("file", *file),
		zap.Int("total", result.Total),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("invalid", result.Invalid),
	)
}
