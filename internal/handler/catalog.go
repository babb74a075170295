// Package handler serves the read-only catalog HTTP API.
package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/product"
)

// Catalog exposes the product repository over HTTP. The catalog is static,
// so every response carries a short public cache header.
type Catalog struct {
	products product.Repository
	maxAge   int
}

// NewCatalog constructs the catalog handler. maxAge is the Cache-Control
// lifetime in seconds; zero disables caching headers.
func NewCatalog(products product.Repository, maxAge int) *Catalog {
	return &Catalog{products: products, maxAge: maxAge}
}

// Register mounts the catalog routes on mux.
func (h *Catalog) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
}

// ListProducts serves the full catalog as a JSON array.
func (h *Catalog) ListProducts(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, catalog.Encode(h.products.List()))
}

// GetProduct serves a single product by id.
func (h *Catalog) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.GetByID(id)
	switch {
	case errors.Is(err, product.ErrNotFound):
		h.writeError(w, http.StatusNotFound, "product not found")
		return
	case err != nil:
		h.writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	var e jx.Encoder
	catalog.EncodeProduct(&e, *p)
	h.writeJSON(w, http.StatusOK, e.Bytes())
}

func (h *Catalog) writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	if h.maxAge > 0 {
		w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(h.maxAge))
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (h *Catalog) writeError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
