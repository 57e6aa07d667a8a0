package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

// CreateCategoryRequest is the request body for POST /categories.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate implements Validator.
func (c CreateCategoryRequest) Validate() []string {
	if strings.TrimSpace(c.Name) == "" {
		return []string{"name is required"}
	}
	return nil
}

// UpdateCategoryRequest is the request body for PATCH /categories/{categoryID}. Omitted fields are unchanged.
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CategorySuccessResponse is the success envelope for endpoints returning one category.
type CategorySuccessResponse struct {
	Data  *domain.Category  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CategoryWithEventsSuccessResponse is the success envelope for GET /categories/{categoryID} (200).
type CategoryWithEventsSuccessResponse struct {
	Data  *domain.CategoryWithEvents `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// ListCategoriesSuccessResponse is the success envelope for GET /categories (200).
type ListCategoriesSuccessResponse struct {
	Data  []*domain.Category `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CatalogService
}

func NewCategoryController(logger *slog.Logger, svc domain.CatalogService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

// ListCategories godoc
// @Summary List categories
// @Description Returns all categories ordered by name.
// @Tags categories
// @Produce json
// @Success 200 {object} controllers.ListCategoriesSuccessResponse "data contains categories"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CategoryController) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.ListCategories(r.Context())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, categories)
}

// GetCategory godoc
// @Summary Get a category
// @Description Returns the category and its events.
// @Tags categories
// @Produce json
// @Param categoryID path string true "Category ID (UUID)"
// @Success 200 {object} controllers.CategoryWithEventsSuccessResponse "data contains category and events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [get]
func (c *CategoryController) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := helpers.PathUUID(w, r, "categoryID")
	if !ok {
		return
	}
	category, err := c.Service.GetCategory(r.Context(), categoryID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// CreateCategory godoc
// @Summary Create a category
// @Description Organizer or Admin only.
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCategoryRequest true "Category data"
// @Success 201 {object} controllers.CategorySuccessResponse "data contains the created category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [post]
func (c *CategoryController) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category, err := c.Service.CreateCategory(r.Context(), req.Name, req.Description)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Update a category
// @Description Organizer or Admin only. Omitted fields are unchanged.
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param categoryID path string true "Category ID (UUID)"
// @Param body body UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} controllers.CategorySuccessResponse "data contains the updated category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [patch]
func (c *CategoryController) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := helpers.PathUUID(w, r, "categoryID")
	if !ok {
		return
	}
	var req UpdateCategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category, err := c.Service.UpdateCategory(r.Context(), categoryID, req.Name, req.Description)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Deletes the category with its events and their RSVPs. Organizer or Admin only.
// @Tags categories
// @Security BearerAuth
// @Param categoryID path string true "Category ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [delete]
func (c *CategoryController) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := helpers.PathUUID(w, r, "categoryID")
	if !ok {
		return
	}
	if err := c.Service.DeleteCategory(r.Context(), categoryID); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
