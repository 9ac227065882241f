package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/product-api/internal/api/shared"
	"github.com/phrazzld/product-api/internal/domain"
	"github.com/phrazzld/product-api/internal/platform/logger"
	"github.com/phrazzld/product-api/internal/service"
)

// ProductHandler handles /product requests.
type ProductHandler struct {
	products  service.ProductService
	responder *shared.Responder
	logger    *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(
	products service.ProductService,
	responder *shared.Responder,
	logger *slog.Logger,
) *ProductHandler {
	if products == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("products cannot be nil for ProductHandler")
	}
	if responder == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("responder cannot be nil for ProductHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ProductHandler{
		products:  products,
		responder: responder,
		logger:    logger.With(slog.String("component", "product_handler")),
	}
}

// ListProducts handles GET /product.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.GetAll(r.Context())
	if err != nil {
		h.responder.ErrorAndLog(w, r, http.StatusNotFound, msgListFailed, err, shared.WithElevatedLogLevel())
		return
	}

	h.responder.Data(w, r, http.StatusOK, productsToResponse(products))
}

// GetProduct handles GET /product/{id}.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.parseProductRef(w, r)
	if !ok {
		return
	}

	product, err := h.getProduct(r, ref)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			h.responder.Error(w, r, http.StatusNotFound, msgProductNotFound(ref.label))
			return
		}
		h.responder.ErrorAndLog(w, r, http.StatusNotFound, msgGetFailed, err, shared.WithElevatedLogLevel())
		return
	}

	h.responder.Data(w, r, http.StatusOK, productToResponse(product))
}

// CreateProduct handles POST /product. Every writable field is validated;
// missing ones count as blank.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	changes, ok := h.decode(w, r)
	if !ok {
		return
	}

	product, err := h.products.Add(r.Context(), changes)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			h.responder.ValidationError(w, r, msgValidationFailed, verr.Messages)
			return
		}
		h.responder.ErrorAndLog(w, r, http.StatusBadRequest, msgCreateFailed, err, shared.WithElevatedLogLevel())
		return
	}

	h.responder.Data(w, r, http.StatusCreated, productToResponse(product))
}

// CreateProductWithID handles POST /product/{id}. The id must be numeric but
// is otherwise ignored; the store assigns a new one.
func (h *ProductHandler) CreateProductWithID(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.parseProductRef(w, r); !ok {
		return
	}
	h.CreateProduct(w, r)
}

// UpdateProduct handles PUT /product/{id}. Only the supplied fields are
// validated and written.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.parseProductRef(w, r)
	if !ok {
		return
	}

	changes, ok := h.decode(w, r)
	if !ok {
		return
	}

	product, err := h.updateProduct(r, ref, changes)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.Is(err, service.ErrNoChanges):
			h.responder.Error(w, r, http.StatusBadRequest, msgNoProductData)
		case errors.As(err, &verr):
			h.responder.ValidationError(w, r, msgValidationFailed, verr.Messages)
		case errors.Is(err, service.ErrProductNotFound):
			h.responder.Error(w, r, h.responder.MutationNotFoundStatus(), msgUpdateNotFound(ref.label))
		default:
			h.responder.ErrorAndLog(w, r, http.StatusBadRequest, msgUpdateFailed, err, shared.WithElevatedLogLevel())
		}
		return
	}

	h.responder.Data(w, r, http.StatusOK, productToResponse(product))
}

// DeleteProduct handles DELETE /product/{id}.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ref, ok := h.parseProductRef(w, r)
	if !ok {
		return
	}

	if err := h.deleteProduct(r, ref); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			h.responder.Error(w, r, h.responder.MutationNotFoundStatus(), msgDeleteNotFound(ref.label))
			return
		}
		h.responder.ErrorAndLog(w, r, http.StatusBadRequest, msgDeleteFailed, err, shared.WithElevatedLogLevel())
		return
	}

	h.responder.Success(w, r, http.StatusOK, msgDeleted(ref.label))
}

// UpdateWithoutID handles PUT /product.
func (h *ProductHandler) UpdateWithoutID(w http.ResponseWriter, r *http.Request) {
	h.responder.Error(w, r, http.StatusBadRequest, msgUpdateNeedsID)
}

// DeleteWithoutID handles DELETE /product.
func (h *ProductHandler) DeleteWithoutID(w http.ResponseWriter, r *http.Request) {
	h.responder.Error(w, r, http.StatusBadRequest, msgDeleteNeedsID)
}

// UnknownEndpoint answers any path outside /product.
func (h *ProductHandler) UnknownEndpoint(w http.ResponseWriter, r *http.Request) {
	h.responder.Error(w, r, http.StatusNotFound, msgUnknownEndpoint)
}

// UnknownRequest answers a method the product endpoint does not serve.
func (h *ProductHandler) UnknownRequest(w http.ResponseWriter, r *http.Request) {
	h.responder.Error(w, r, http.StatusBadRequest, msgUnknownRequest)
}

// productRef is a parsed {id} URL parameter. An all-digit id outside the
// int64 range has inRange false: it is well formed but names no product.
type productRef struct {
	id      int64
	label   string
	inRange bool
}

// parseProductRef parses the {id} URL parameter as a base-10 integer and writes a
// 400 response when it is not one.
func (h *ProductHandler) parseProductRef(w http.ResponseWriter, r *http.Request) (productRef, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	switch {
	case err == nil:
		return productRef{id: id, label: strconv.FormatInt(id, 10), inRange: true}, true
	case errors.Is(err, strconv.ErrRange):
		return productRef{label: raw}, true
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("rejected product id",
		slog.String("id", raw))
	h.responder.Error(w, r, http.StatusBadRequest, msgIDNotNumeric)
	return productRef{}, false
}

func (h *ProductHandler) getProduct(r *http.Request, ref productRef) (*domain.Product, error) {
	if !ref.inRange {
		return nil, service.ErrProductNotFound
	}
	return h.products.Get(r.Context(), ref.id)
}

// updateProduct applies the same payload checks for an out-of-range id as the
// service does before it reaches the store.
func (h *ProductHandler) updateProduct(
	r *http.Request,
	ref productRef,
	changes domain.ProductChanges,
) (*domain.Product, error) {
	if ref.inRange {
		return h.products.Update(r.Context(), ref.id, changes)
	}
	if changes.Len() == 0 {
		return nil, service.ErrNoChanges
	}
	if err := domain.ValidateProductChanges(changes); err != nil {
		return nil, err
	}
	return nil, service.ErrProductNotFound
}

func (h *ProductHandler) deleteProduct(r *http.Request, ref productRef) error {
	if !ref.inRange {
		return service.ErrProductNotFound
	}
	return h.products.Delete(r.Context(), ref.id)
}

// decode reads the request body into a change set, writing a 400 response
// when the body is empty or not a JSON object.
func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request) (domain.ProductChanges, bool) {
	changes, err := shared.DecodeProductChanges(r.Body)
	switch {
	case err == nil:
		return changes, true
	case errors.Is(err, shared.ErrEmptyBody):
		h.responder.Error(w, r, http.StatusBadRequest, msgNoProductData)
	case errors.Is(err, shared.ErrNotJSONObject):
		h.responder.ErrorAndLog(w, r, http.StatusBadRequest, msgInvalidJSON, err)
	default:
		h.responder.ErrorAndLog(w, r, http.StatusBadRequest, msgNoProductData, err)
	}
	return changes, false
}
