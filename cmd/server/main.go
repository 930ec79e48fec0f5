package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/api-sage/deposit-sweeper/internal/adapter/http/controller"
	"github.com/api-sage/deposit-sweeper/internal/adapter/http/middleware"
	"github.com/api-sage/deposit-sweeper/internal/adapter/http/router"
	"github.com/api-sage/deposit-sweeper/internal/adapter/wise"
	"github.com/api-sage/deposit-sweeper/internal/config"
	"github.com/api-sage/deposit-sweeper/internal/usecase/services"
)

func main() {
	// A .env file is a convenience for local runs; deployed environments set
	// real env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	wiseClient := wise.NewClient(cfg.WiseAPIURL, cfg.WiseAPIToken)
	sweepService := services.NewSweepService(wiseClient, cfg.SourceCurrency, cfg.TargetCurrency, cfg.TargetAccountNumber)
	webhookController := controller.NewWebhookController(sweepService, cfg.SourceCurrency, cfg.MinimumDeposit)

	mux := router.New(webhookController, middleware.WebhookAuth(cfg.WebhookPassword))

	log.Printf("deposit sweeper listening on :%s", cfg.ServerPort)
	if err := http.ListenAndServe(":"+cfg.ServerPort, mux); err != nil {
		log.Fatal(err)
	}
}
