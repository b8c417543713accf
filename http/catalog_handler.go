package http

import (
	"net/http"

	"loan-advisor/repository"
)

type CatalogHandler struct {
	catalog *repository.Catalog
}

func NewCatalogHandler(catalog *repository.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List returns the loan products in catalog order.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.List())
}
