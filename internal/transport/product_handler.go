package transport

import (
	"errors"
	"net/http"
	"strconv"

	"catalog-api/internal/middleware"
	"catalog-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateProductRequest represents the product creation payload
type CreateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Stock       int             `json:"stock"`
	CategoryID  string          `json:"categoryId"`
}

// UpdateProductRequest represents the product update payload
type UpdateProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
}

type UpdateStockRequest struct {
	Stock int `json:"stock"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	products service.ProductService
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		logger:   logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
			r.Patch("/stock", h.UpdateStock)
			r.Post("/activate", h.Activate)
			r.Post("/deactivate", h.Deactivate)
		})
	})
}

// List handles GET /api/products with optional categoryId and isActive filters
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var q service.GetAllProductsQuery

	if raw := r.URL.Query().Get("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(w, "categoryId must be a valid identifier")
			return
		}
		q.CategoryID = &id
	}
	if raw := r.URL.Query().Get("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(w, "isActive must be true or false")
			return
		}
		q.IsActive = &active
	}

	result, err := h.products.ListProducts(r.Context(), q)
	if err != nil {
		middleware.RespondWithInternalError(w, r, h.logger, err)
		return
	}
	respondWithResult(w, result, http.StatusOK)
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	result, err := h.products.GetProduct(r.Context(), service.GetProductByIDQuery{ID: id})
	if err != nil {
		middleware.RespondWithInternalError(w, r, h.logger, err)
		return
	}
	respondWithResult(w, result, http.StatusOK)
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	// An unparseable category id fails the required-category validation rule
	categoryID, _ := uuid.Parse(req.CategoryID)

	result, err := h.products.CreateProduct(r.Context(), service.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Stock:       req.Stock,
		CategoryID:  categoryID,
	})
	if err != nil {
		middleware.RespondWithInternalError(w, r, h.logger, err)
		return
	}

	if result.IsSuccess && result.Data != nil {
		w.Header().Set("Location", "/api/products/"+result.Data.ID.String())
	}
	respondWithResult(w, result, http.StatusCreated)
}

// Update handles PUT /api/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.products.UpdateProduct(r.Context(), service.UpdateProductCommand{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
	})
	if err != nil {
		middleware.RespondWithInternalError(w, r, h.logger, err)
		return
	}
	respondWithResult(w, result, http.StatusOK)
}

// UpdateStock handles PATCH /api/products/{id}/stock
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req UpdateStockRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.products.UpdateProductStock(r.Context(), service.UpdateProductStockCommand{ID: id, Stock: req.Stock})
	if err != nil {
		middleware.RespondWithInternalError(w, r, h.logger, err)
		return
	}
	respondWithResult(w, result, http.StatusOK)
}

func (h *ProductHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	result, err := h.products.ActivateProduct(r.Context(), service.ActivateProductCommand{ID: id})
	if err != nil {
		middleware.RespondWithInternalError(w, r, h.logger, err)
		return
	}
	respondWithResult(w, result, http.StatusOK)
}

func (h *ProductHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	result, err := h.products.DeactivateProduct(r.Context(), service.DeactivateProductCommand{ID: id})
	if err != nil {
		middleware.RespondWithInternalError(w, r, h.logger, err)
		return
	}
	respondWithResult(w, result, http.StatusOK)
}

// Delete handles DELETE /api/products/{id}. Products are soft deleted.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	result, err := h.products.DeleteProduct(r.Context(), service.DeleteProductCommand{ID: id})
	if err != nil {
		middleware.RespondWithInternalError(w, r, h.logger, err)
		return
	}
	respondWithResult(w, result, http.StatusOK)
}

func (h *ProductHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := middleware.DecodeJSON(w, r, v); err != nil {
		h.logger.Debug("Request body rejected", zap.String("path", r.URL.Path), zap.Error(err))
		if errors.Is(err, middleware.ErrMalformedBody) {
			badRequest(w, err.Error())
			return false
		}
		middleware.RespondWithInternalError(w, r, h.logger, err)
		return false
	}
	return true
}

// productID parses the {id} path parameter. A malformed id cannot name an
// existing product, so it answers 404.
func productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithJSON(w, http.StatusNotFound, service.Failure[any](service.MsgResourceNotFound))
		return uuid.Nil, false
	}
	return id, true
}

func badRequest(w http.ResponseWriter, detail string) {
	middleware.RespondWithJSON(w, http.StatusBadRequest, service.Failure[any](service.MsgBadRequest, detail))
}

// respondWithResult writes result with the success status, or maps its
// failure message to 404 or 400.
func respondWithResult[T any](w http.ResponseWriter, result service.Result[T], successStatus int) {
	switch {
	case result.IsSuccess:
		middleware.RespondWithJSON(w, successStatus, result)
	case result.Message == service.MsgProductNotFound:
		middleware.RespondWithJSON(w, http.StatusNotFound, result)
	default:
		middleware.RespondWithJSON(w, http.StatusBadRequest, result)
	}
}
