package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/spinonoir/housing-map-project/internal/config"
	"github.com/spinonoir/housing-map-project/internal/routes"
	"github.com/spinonoir/housing-map-project/internal/scraper"
	"github.com/spinonoir/housing-map-project/internal/utils"
)

const appName = "listing-scraper"

func main() {
	utils.InitLogger(appName)
	cfg := config.LoadScraperConfig(appName)

	svc := scraper.NewService()
	controller := scraper.NewController(svc)

	router := mux.NewRouter()
	router.HandleFunc(routes.Scrape, controller.ScrapeListing).Methods(http.MethodGet)
	router.HandleFunc(routes.Health, func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	co := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})

	utils.Logger.Infof("Starting %s on port: %s", cfg.AppName, cfg.AppPort)
	if err := http.ListenAndServe(":"+cfg.AppPort, co.Handler(router)); err != nil {
		utils.Logger.Fatal("listing-scraper failed to start:", err)
	}
}
