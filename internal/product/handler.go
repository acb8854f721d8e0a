package product

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/redmonkez12/go-product-api/internal/httputil"
	"github.com/redmonkez12/go-product-api/internal/logging"
)

const (
	msgProductDeleted = "Product deleted successfully"
	msgInvalidID      = httputil.MsgValidationPrefix + "invalid product id"
)

// Handler contains HTTP handlers for the product resource
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles product creation
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateInput true "Product"
// @Success      200 {object} httputil.Response{data=Product}
// @Failure      400 {object} httputil.Response "Invalid input"
// @Failure      401 {object} httputil.Response "Not authenticated"
// @Failure      500 {object} httputil.Response "Internal server error"
// @Router       /products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	var req CreateInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logger.Warn("invalid product request body", "error", err.Error())
		httputil.RespondError(w, httputil.MsgInvalidBody, http.StatusBadRequest)
		return
	}
	if msg := httputil.Validate(&req); msg != "" {
		httputil.RespondError(w, msg, http.StatusBadRequest)
		return
	}

	p, err := h.service.Create(r.Context(), req)
	if err != nil {
		logger.Error("failed to create product", "error", err.Error())
		httputil.RespondError(w, httputil.MsgInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("product created", "product_id", p.ID)
	httputil.RespondData(w, p, http.StatusOK)
}

// List returns all products
// @Summary      List products
// @Tags         products
// @Produce      json
// @Success      200 {object} httputil.Response{data=[]Product}
// @Failure      500 {object} httputil.Response "Internal server error"
// @Router       /products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list products", "error", err.Error())
		httputil.RespondError(w, httputil.MsgInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondData(w, products, http.StatusOK)
}

// Get returns one product
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} httputil.Response{data=Product}
// @Failure      400 {object} httputil.Response "Invalid id"
// @Failure      404 {object} httputil.Response "Product not found"
// @Failure      500 {object} httputil.Response "Internal server error"
// @Router       /products/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, "failed to get product", err)
		return
	}

	httputil.RespondData(w, p, http.StatusOK)
}

// Update applies a partial update
// @Summary      Update a product
// @Description  Only the fields present in the body are changed.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body UpdateInput true "Fields to change"
// @Success      200 {object} httputil.Response{data=Product}
// @Failure      400 {object} httputil.Response "Invalid input"
// @Failure      401 {object} httputil.Response "Not authenticated"
// @Failure      404 {object} httputil.Response "Product not found"
// @Failure      500 {object} httputil.Response "Internal server error"
// @Router       /products/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req UpdateInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		logging.FromContext(r.Context()).Warn("invalid product update body", "error", err.Error())
		httputil.RespondError(w, httputil.MsgInvalidBody, http.StatusBadRequest)
		return
	}
	if msg := httputil.Validate(&req); msg != "" {
		httputil.RespondError(w, msg, http.StatusBadRequest)
		return
	}

	p, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, r, "failed to update product", err)
		return
	}

	httputil.RespondData(w, p, http.StatusOK)
}

// Delete removes a product
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} httputil.Response
// @Failure      400 {object} httputil.Response "Invalid id"
// @Failure      401 {object} httputil.Response "Not authenticated"
// @Failure      404 {object} httputil.Response "Product not found"
// @Failure      500 {object} httputil.Response "Internal server error"
// @Router       /products/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, "failed to delete product", err)
		return
	}

	logging.FromContext(r.Context()).Info("product deleted", "product_id", id)
	httputil.RespondMessage(w, msgProductDeleted, http.StatusOK)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if errors.Is(err, ErrNotFound) {
		httputil.RespondError(w, httputil.MsgProductNotFound, http.StatusNotFound)
		return
	}
	logging.FromContext(r.Context()).Error(msg, "error", err.Error())
	httputil.RespondError(w, httputil.MsgInternalError, http.StatusInternalServerError)
}

func productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondError(w, msgInvalidID, http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}
