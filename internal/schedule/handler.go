package schedule

import (
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Create a work schedule
// @Tags         work-schedules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body schedule.CreateScheduleRequest true "Schedule payload"
// @Success      201 {object} schedule.WorkSchedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /work-schedules [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	sched, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrEmployeeNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Employee not found"})
		case ErrInvalidDate:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
		case ErrInvalidTime, ErrInvalidWindow:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create schedule"})
		}
		return
	}

	c.JSON(http.StatusCreated, sched)
}

// @Summary      List work schedules
// @Tags         work-schedules
// @Produce      json
// @Security     BearerAuth
// @Param        employee_id query int false "Filter by employee"
// @Param        status query string false "Filter by status"
// @Param        date query string false "Filter by date (YYYY-MM-DD)"
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /work-schedules [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	employeeID, _ := strconv.Atoi(c.Query("employee_id"))

	filter := ListFilter{
		EmployeeID: employeeID,
		Status:     c.Query("status"),
		Page:       page,
		Limit:      limit,
	}
	if date := c.Query("date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
			return
		}
		filter.Date = &parsed
	}

	schedules, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch schedules"})
		return
	}

	pages := (total + limit - 1) / limit
	c.JSON(http.StatusOK, gin.H{
		"schedules":  schedules,
		"pagination": api.Pagination{Page: page, Limit: limit, Total: total, Pages: pages},
	})
}

// @Summary      Get a work schedule
// @Tags         work-schedules
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Schedule ID"
// @Success      200 {object} schedule.WorkSchedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /work-schedules/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid schedule ID"})
		return
	}

	sched, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Schedule not found"})
		return
	}

	c.JSON(http.StatusOK, sched)
}

// @Summary      Update a work schedule
// @Tags         work-schedules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Schedule ID"
// @Param        request body schedule.UpdateScheduleRequest true "Fields to update"
// @Success      200 {object} schedule.WorkSchedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /work-schedules/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid schedule ID"})
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	sched, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch err {
		case ErrScheduleNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Schedule not found"})
		case ErrInvalidDate, ErrInvalidTime, ErrInvalidWindow:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update schedule"})
		}
		return
	}

	c.JSON(http.StatusOK, sched)
}

// @Summary      Delete a work schedule
// @Tags         work-schedules
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Schedule ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /work-schedules/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid schedule ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case ErrScheduleNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Schedule not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete schedule"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Schedule deleted"})
}
