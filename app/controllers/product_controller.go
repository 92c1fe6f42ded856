package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/teahouse/app/catalog"
	"github.com/shashiranjanraj/teahouse/pkg/response"
)

type ProductController struct{}

func NewProductController() *ProductController { return &ProductController{} }

// Index lists the catalog.
func (c *ProductController) Index(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, catalog.Products())
}
