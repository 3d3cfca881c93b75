package main

import (
	"context"
	"log"

	"github.com/ArowuTest/surespace-functions/internal/app"
	"github.com/ArowuTest/surespace-functions/internal/config"
	"github.com/ArowuTest/surespace-functions/internal/logging"
	"github.com/ArowuTest/surespace-functions/internal/serverless"
	"github.com/aws/aws-lambda-go/lambda"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateServerless(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Connections are reused across warm invocations
	a, err := app.New(context.Background(), cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	lambda.Start(serverless.NewAdapter(a.Router()).Proxy)
}
