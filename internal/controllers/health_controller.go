package controllers

import (
	"net/http"

	"github.com/hauseeHQ/intake-service/internal/config"
	"github.com/hauseeHQ/intake-service/internal/dtos"
	"github.com/hauseeHQ/intake-service/internal/utils"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

func (c *HealthController) Check(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthResponse{
		Status: "ok",
		App:    config.AppName,
	})
}
