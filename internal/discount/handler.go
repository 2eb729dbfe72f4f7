package discount

import (
	"net/http"
	"strconv"

	"gymdesk/internal/api"
	"gymdesk/internal/server/validation"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Create a discount
// @Tags         discounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body discount.CreateDiscountRequest true "Discount payload"
// @Success      201 {object} discount.Discount
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /discounts [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if errs := validation.ValidateStruct(req); len(errs) > 0 {
		validation.RespondWithValidationErrors(c, errs)
		return
	}

	d, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrCodeExists:
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Discount code already exists"})
		case ErrInvalidWindow, ErrInvalidValue:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create discount"})
		}
		return
	}

	c.JSON(http.StatusCreated, d)
}

// @Summary      List discounts
// @Tags         discounts
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status"
// @Param        type query string false "Filter by type"
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]interface{}
// @Failure      500 {object} api.ErrorResponse
// @Router       /discounts [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	discounts, total, err := h.service.List(c.Request.Context(), ListFilter{
		Status: c.Query("status"),
		Type:   c.Query("type"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch discounts"})
		return
	}

	pages := (total + limit - 1) / limit
	c.JSON(http.StatusOK, gin.H{
		"discounts":  discounts,
		"pagination": api.Pagination{Page: page, Limit: limit, Total: total, Pages: pages},
	})
}

// @Summary      List active discounts
// @Tags         discounts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} discount.Discount
// @Failure      500 {object} api.ErrorResponse
// @Router       /discounts/active [get]
func (h *Handler) ListActive(c *gin.Context) {
	discounts, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch active discounts"})
		return
	}

	c.JSON(http.StatusOK, discounts)
}

// @Summary      Get a discount
// @Tags         discounts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Discount ID"
// @Success      200 {object} discount.Discount
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /discounts/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid discount ID"})
		return
	}

	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Discount not found"})
		return
	}

	c.JSON(http.StatusOK, d)
}

// @Summary      Update a discount
// @Tags         discounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Discount ID"
// @Param        request body discount.UpdateDiscountRequest true "Fields to update"
// @Success      200 {object} discount.Discount
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /discounts/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid discount ID"})
		return
	}

	var req UpdateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	d, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch err {
		case ErrDiscountNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Discount not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update discount"})
		}
		return
	}

	c.JSON(http.StatusOK, d)
}

// @Summary      Delete a discount
// @Tags         discounts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Discount ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /discounts/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid discount ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case ErrDiscountNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Discount not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete discount"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Discount deleted"})
}

// @Summary      Apply a discount code
// @Description  Computes pricing for a code against a package. Does not consume usage.
// @Tags         discounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body discount.ApplyDiscountRequest true "Apply payload"
// @Success      200 {object} discount.ApplyResult
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /discounts/apply [post]
func (h *Handler) Apply(c *gin.Context) {
	var req ApplyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.service.Apply(c.Request.Context(), req.Code, req.PackageID, req.OriginalPrice)
	if err != nil {
		switch err {
		case ErrCodeInvalid:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid or expired discount code"})
		case ErrUsageExhausted:
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Discount code usage exhausted"})
		case ErrNotApplicable:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Discount not applicable to this package"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to apply discount"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary      Discount statistics
// @Tags         discounts
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} discount.Statistics
// @Failure      500 {object} api.ErrorResponse
// @Router       /discounts/statistics [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load discount statistics"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
