package main

import (
	"log"
	"net/http"

	"runners_api/internal/config"
	"runners_api/internal/controllers"
	"runners_api/internal/logger"
	"runners_api/internal/middleware"
	"runners_api/internal/routes"
	"runners_api/internal/storage"

	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	cfg := config.Load()
	if err := middleware.InitJWT(cfg.JWTSecret); err != nil {
		log.Fatalf("jwt setup failed: %v", err)
	}

	// Connect to the database
	config.InitDB()

	// Blob storage is optional at boot; upload endpoints report it missing.
	if cfg.BlobAccount != "" {
		blob, err := storage.NewBlobStore(cfg.BlobAccount, cfg.BlobKey, cfg.BlobContainer)
		if err != nil {
			log.Fatalf("blob storage setup failed: %v", err)
		}
		controllers.Blob = blob
	} else {
		logrus.Warn("AZURE_BLOB_ACCOUNT not set; uploads disabled")
	}

	// Setup Gin router (recovery and request logging are wired inside)
	r := routes.SetupRouter()

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Printf("Server running at :%s", cfg.AppPort)
	log.Fatal(http.ListenAndServe("0.0.0.0:"+cfg.AppPort, handler))
}
