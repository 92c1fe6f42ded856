package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/teahouse/app/models"
	"github.com/shashiranjanraj/teahouse/app/services"
	"github.com/shashiranjanraj/teahouse/pkg/bind"
	"github.com/shashiranjanraj/teahouse/pkg/logger"
	"github.com/shashiranjanraj/teahouse/pkg/response"
)

const (
	msgOrderReceived = "Order received"
	msgMissingFields = "Missing required fields"
	msgSaveFailed    = "Failed to save order"
	msgListFailed    = "Failed to fetch orders"
)

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

type storeResponse struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

// Store accepts a new order.
func (c *OrderController) Store(w http.ResponseWriter, r *http.Request) {
	var in models.OrderInput
	errs, err := bind.JSON(w, r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs != nil {
		response.ValidationError(w, msgMissingFields, errs)
		return
	}

	order, err := c.service.Place(r.Context(), in)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			response.ValidationError(w, msgMissingFields, verr.Fields)
			return
		}
		logger.WithCtx(r.Context()).Error("order: save failed", "error", err)
		response.Error(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}

	response.Success(w, storeResponse{Message: msgOrderReceived, OrderID: order.ID})
}

// Index lists every order, newest first.
func (c *OrderController) Index(w http.ResponseWriter, r *http.Request) {
	orders, err := c.service.List(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("order: list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, msgListFailed)
		return
	}
	response.Success(w, orders)
}
