package transport

import (
	"net/http"

	"catalog-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryRequest is echoed back by the category endpoints.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type placeholderResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// CategoryHandler serves the category routes. Category use cases are not
// exposed yet; every route answers with a placeholder payload.
type CategoryHandler struct {
	logger *zap.Logger
}

func NewCategoryHandler(logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{logger: logger}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
	})
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, placeholderResponse{Message: "Get all categories - not yet implemented"})
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, placeholderResponse{
		Message: "Get category " + chi.URLParam(r, "id") + " - not yet implemented",
	})
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		h.logger.Debug("Category body rejected", zap.Error(err))
		badRequest(w, err.Error())
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, placeholderResponse{Message: "Create category - not yet implemented", Data: req})
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := middleware.DecodeJSON(w, r, &req); err != nil {
		h.logger.Debug("Category body rejected", zap.Error(err))
		badRequest(w, err.Error())
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, placeholderResponse{
		Message: "Update category " + chi.URLParam(r, "id") + " - not yet implemented",
		Data:    req,
	})
}
