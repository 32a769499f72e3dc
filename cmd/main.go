package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/hauseeHQ/intake-service/internal/app"
	"github.com/hauseeHQ/intake-service/internal/config"
	"github.com/hauseeHQ/intake-service/internal/controllers"
	"github.com/hauseeHQ/intake-service/internal/middleware"
	"github.com/hauseeHQ/intake-service/internal/routes"
	"github.com/hauseeHQ/intake-service/internal/utils"
)

func main() {
	utils.InitLogger(config.AppName)
	cfg := config.LoadConfig()

	ctx := context.Background()
	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to initialize application")
	}
	defer application.Close()

	healthController := controllers.NewHealthController()
	wizardController := controllers.NewWizardController(application.IntakeService)
	verificationController := controllers.NewVerificationController(application.IntakeService)

	router := mux.NewRouter()
	router.HandleFunc(routes.Health, healthController.Check).Methods(http.MethodGet)

	api := router.PathPrefix(routes.APIBase).Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.RSAPublicKey))

	api.HandleFunc(routes.Wizard, wizardController.Get).Methods(http.MethodGet)
	api.HandleFunc(routes.WizardStep, wizardController.UpdateStep).Methods(http.MethodPut)
	api.HandleFunc(routes.WizardGoto, wizardController.GoToStep).Methods(http.MethodPost)
	api.HandleFunc(routes.WizardNext, wizardController.Next).Methods(http.MethodPost)
	api.HandleFunc(routes.WizardSubmit, wizardController.Submit).Methods(http.MethodPost)
	api.HandleFunc(routes.WizardDraft, wizardController.DeleteDraft).Methods(http.MethodDelete)
	api.HandleFunc(routes.Submission, wizardController.GetLatestSubmission).Methods(http.MethodGet)
	api.HandleFunc(routes.VerificationRequest, verificationController.RequestCode).Methods(http.MethodPost)
	api.HandleFunc(routes.VerificationCheck, verificationController.CheckCode).Methods(http.MethodPost)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AppUrl},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      corsHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		utils.Logger.Infof("%s listening on port %s", cfg.AppName, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.Logger.WithError(err).Fatal("Server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Logger.WithError(err).Error("Graceful shutdown failed")
	}
	utils.Logger.Info("Server stopped")
}
