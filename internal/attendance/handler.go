package attendance

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

// @Summary      Check a member in
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body attendance.CheckInRequest true "Check-in payload"
// @Success      201 {object} attendance.Record
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /attendance/checkin [post]
func (h *Handler) CheckIn(c *gin.Context) {
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	rec, err := h.service.CheckIn(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrMemberNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		case ErrNoActivePackage:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Member has no active package"})
		case ErrAlreadyCheckedIn:
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Member is already checked in"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to check in"})
		}
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// @Summary      Check a member out
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body attendance.CheckOutRequest true "Check-out payload"
// @Success      200 {object} attendance.Record
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /attendance/checkout [post]
func (h *Handler) CheckOut(c *gin.Context) {
	var req CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	rec, err := h.service.CheckOut(c.Request.Context(), req.MemberID, req.Notes)
	if err != nil {
		switch err {
		case ErrMemberNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		case ErrNoActiveCheckIn:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Member has no active check-in"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to check out"})
		}
		return
	}

	c.JSON(http.StatusOK, rec)
}

// @Summary      Today's attendance
// @Description  Open records report a live duration computed from now.
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]interface{}
// @Failure      500 {object} api.ErrorResponse
// @Router       /attendance/today [get]
func (h *Handler) Today(c *gin.Context) {
	records, err := h.service.Today(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch today's attendance"})
		return
	}

	inGym := 0
	for _, rec := range records {
		if rec.CheckoutTime == nil {
			inGym++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"summary": gin.H{
			"total":            len(records),
			"currently_in_gym": inGym,
			"completed":        len(records) - inGym,
		},
	})
}

// @Summary      Attendance overview
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} attendance.Overview
// @Failure      500 {object} api.ErrorResponse
// @Router       /attendance/overview [get]
func (h *Handler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to build attendance overview"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// @Summary      A member's attendance history
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /attendance/member/{id} [get]
func (h *Handler) MemberHistory(c *gin.Context) {
	memberID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	filter, ok := parseListFilter(c)
	if !ok {
		return
	}

	records, total, stats, err := h.service.MemberHistory(c.Request.Context(), memberID, filter)
	if err != nil {
		switch err {
		case ErrMemberNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch attendance history"})
		}
		return
	}

	pages := (total + filter.Limit - 1) / filter.Limit
	c.JSON(http.StatusOK, gin.H{
		"records":    records,
		"statistics": stats,
		"pagination": api.Pagination{Page: filter.Page, Limit: filter.Limit, Total: total, Pages: pages},
	})
}

// @Summary      List attendance records
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        member_id query int false "Filter by member"
// @Param        status query string false "Filter by status"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date (YYYY-MM-DD)"
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /attendance [get]
func (h *Handler) List(c *gin.Context) {
	filter, ok := parseListFilter(c)
	if !ok {
		return
	}
	filter.MemberID, _ = strconv.Atoi(c.Query("member_id"))
	filter.Status = c.Query("status")

	records, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch attendance records"})
		return
	}

	pages := (total + filter.Limit - 1) / filter.Limit
	c.JSON(http.StatusOK, gin.H{
		"records":    records,
		"pagination": api.Pagination{Page: filter.Page, Limit: filter.Limit, Total: total, Pages: pages},
	})
}

func parseListFilter(c *gin.Context) (ListFilter, bool) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	filter := ListFilter{Page: page, Limit: limit}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid from date, expected YYYY-MM-DD"})
			return filter, false
		}
		filter.From = &parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid to date, expected YYYY-MM-DD"})
			return filter, false
		}
		end := parsed.AddDate(0, 0, 1)
		filter.To = &end
	}

	return filter, true
}
