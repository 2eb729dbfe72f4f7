package employee

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

// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body employee.CreateEmployeeRequest true "Employee payload"
// @Success      201 {object} employee.Employee
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /employees [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if errs := validation.ValidateStruct(req); len(errs) > 0 {
		validation.RespondWithValidationErrors(c, errs)
		return
	}

	e, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrEmailExists:
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Email already registered"})
		case ErrInvalidDate:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid hire date, expected YYYY-MM-DD"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create employee"})
		}
		return
	}

	c.JSON(http.StatusCreated, e)
}

// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status"
// @Param        department query string false "Filter by department"
// @Param        position query string false "Filter by position"
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]interface{}
// @Failure      500 {object} api.ErrorResponse
// @Router       /employees [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	employees, total, err := h.service.List(c.Request.Context(), ListFilter{
		Status:     c.Query("status"),
		Department: c.Query("department"),
		Position:   c.Query("position"),
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch employees"})
		return
	}

	pages := (total + limit - 1) / limit
	c.JSON(http.StatusOK, gin.H{
		"employees":  employees,
		"pagination": api.Pagination{Page: page, Limit: limit, Total: total, Pages: pages},
	})
}

// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Employee ID"
// @Success      200 {object} employee.Employee
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /employees/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid employee ID"})
		return
	}

	e, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Employee not found"})
		return
	}

	c.JSON(http.StatusOK, e)
}

// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Employee ID"
// @Param        request body employee.UpdateEmployeeRequest true "Fields to update"
// @Success      200 {object} employee.Employee
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /employees/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid employee ID"})
		return
	}

	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	e, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch err {
		case ErrEmployeeNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Employee not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update employee"})
		}
		return
	}

	c.JSON(http.StatusOK, e)
}

// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Employee ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /employees/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid employee ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case ErrEmployeeNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Employee not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete employee"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Employee deleted"})
}
