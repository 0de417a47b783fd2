package controllers

import (
	"log/slog"
	"net/http"

	"eventify/internal/delivery/http/helpers"
	"eventify/internal/domain"
)

type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CategoryService
}

func NewCategoryController(logger *slog.Logger, svc domain.CategoryService) *CategoryController {
	return &CategoryController{Logger: logger, Service: svc}
}

// CategoryListSuccessResponse is the success envelope for GET /categories.
type CategoryListSuccessResponse struct {
	Data  []*domain.Category `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// CategorySuccessResponse is the success envelope carrying a single category.
type CategorySuccessResponse struct {
	Data  *domain.Category  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// List godoc
// @Summary List categories
// @Description Returns all event categories. No authentication required.
// @Tags categories
// @Produce json
// @Success 200 {object} controllers.CategoryListSuccessResponse "data contains all categories"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, categories)
}

// GetByID godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param categoryID path string true "Category ID"
// @Success 200 {object} controllers.CategorySuccessResponse "data contains the category"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [get]
func (c *CategoryController) GetByID(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathValue(w, r, "categoryID")
	if !ok {
		return
	}
	category, err := c.Service.GetByID(r.Context(), categoryID)
	if err != nil {
		helpers.WriteDomainError(w, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}
