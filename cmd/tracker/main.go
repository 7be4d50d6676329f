package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/robfig/cron/v3"
	"github.com/rs/cors"
	_ "time/tzdata"

	"github.com/spinonoir/housing-map-project/internal/app"
	"github.com/spinonoir/housing-map-project/internal/clients"
	"github.com/spinonoir/housing-map-project/internal/config"
	"github.com/spinonoir/housing-map-project/internal/constants"
	"github.com/spinonoir/housing-map-project/internal/controllers"
	"github.com/spinonoir/housing-map-project/internal/routes"
	"github.com/spinonoir/housing-map-project/internal/services"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

const appName = "unit-tracker"

func main() {
	utils.InitLogger(appName)
	cfg := config.LoadConfig(appName)

	application, err := app.NewApp(cfg)
	if err != nil {
		utils.Logger.Fatal("Failed to initialize unit-tracker:", err)
	}
	defer application.Close()

	// External collaborators
	var geocoder clients.Geocoder
	if cfg.GMapsAPIKey != "" {
		geocoder, err = clients.NewGoogleGeocoder(cfg.GMapsAPIKey)
		if err != nil {
			utils.Logger.Fatal("Failed to initialize geocoding client:", err)
		}
	}
	var listingScraper clients.ListingScraper
	if cfg.ScraperURL != "" {
		listingScraper = clients.NewListingScraper(cfg.ScraperURL)
	}

	// Services
	uploadService := services.NewUploadService(application.Units)
	unitService := services.NewUnitService(application.Units, application.Failures)
	pipelineService := services.NewPipelineService(
		application.Units, application.Failures,
		geocoder, listingScraper,
		cfg.PipelineBatchSize, cfg.PipelineMaxWorkers,
	)

	// Controllers
	healthController := controllers.NewHealthController()
	uploadController := controllers.NewUploadController(uploadService)
	unitsController := controllers.NewUnitsController(unitService)
	pipelineController := controllers.NewPipelineController(pipelineService)
	failuresController := controllers.NewFailuresController(unitService)

	// Router setup
	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthController.HealthCheck).Methods(http.MethodGet)

	router.HandleFunc(routes.UnitsUpload, uploadController.UploadCSV).Methods(http.MethodPost)
	router.HandleFunc(routes.Units, unitsController.ListUnits).Methods(http.MethodGet)
	router.HandleFunc(routes.Units, unitsController.ClearDatabase).Methods(http.MethodDelete)
	router.HandleFunc(routes.UnitsFavorites, unitsController.ListFavorites).Methods(http.MethodGet)
	router.HandleFunc(routes.UnitsReprocess, unitsController.ReprocessExisting).Methods(http.MethodPost)
	router.HandleFunc(routes.UnitsFixParking, unitsController.FixParkingData).Methods(http.MethodPost)
	router.HandleFunc(routes.UnitByID, unitsController.GetUnit).Methods(http.MethodGet)
	router.HandleFunc(routes.UnitByID, unitsController.UpdateUnit).Methods(http.MethodPatch)
	router.HandleFunc(routes.UnitFavorite, unitsController.SetFavorite).Methods(http.MethodPut)
	router.HandleFunc(routes.UnitStatus, unitsController.SetStatus).Methods(http.MethodPut)

	router.HandleFunc(routes.PipelineRun, pipelineController.Run).Methods(http.MethodPost)

	router.HandleFunc(routes.GeocodingFailures, failuresController.ListFailures).Methods(http.MethodGet)
	router.HandleFunc(routes.GeocodingFailureCount, failuresController.CountFailures).Methods(http.MethodGet)
	router.HandleFunc(routes.GeocodingFailureByID, failuresController.ResolveFailure).Methods(http.MethodDelete)

	// Scheduled refresh: re-run the pipeline so newly uploaded units get
	// geocoded without a manual trigger.
	if cfg.RefreshCronSpec != "" {
		c := cron.New(cron.WithLocation(time.UTC))
		_, err = c.AddFunc(cfg.RefreshCronSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), constants.RefreshJobTimeout)
			defer cancel()
			utils.Logger.Info("Starting scheduled pipeline pass...")
			if _, err := pipelineService.RunIfIdle(ctx); err != nil {
				utils.Logger.WithError(err).Error("Scheduled pipeline pass failed")
			}
		})
		if err != nil {
			utils.Logger.WithError(err).Fatal("Failed to schedule pipeline refresh cron")
		}
		c.Start()
		utils.Logger.Infof("Scheduled pipeline refresh cron: %s", cfg.RefreshCronSpec)
	}

	co := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("unit-tracker failed to start:", err)
	}
}
