package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/teahouse/pkg/response"
)

// LivenessMessage is the body served on GET /.
const LivenessMessage = "Teahouse order API is running"

type HealthController struct{}

func NewHealthController() *HealthController { return &HealthController{} }

func (c *HealthController) Show(w http.ResponseWriter, _ *http.Request) {
	response.Text(w, http.StatusOK, LivenessMessage)
}
