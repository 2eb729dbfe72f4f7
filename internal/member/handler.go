package member

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

// @Summary      Create a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body member.CreateMemberRequest true "Member payload"
// @Success      201 {object} member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /members [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if errs := validation.ValidateStruct(req); len(errs) > 0 {
		validation.RespondWithValidationErrors(c, errs)
		return
	}

	m, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrEmailExists:
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Email already registered"})
		case ErrInvalidDate:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid date of birth, expected YYYY-MM-DD"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create member"})
		}
		return
	}

	c.JSON(http.StatusCreated, m)
}

// @Summary      List members
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status"
// @Param        gender query string false "Filter by gender"
// @Param        search query string false "Search name, email, phone or membership number"
// @Param        has_active_package query bool false "Only members with (or without) an active package"
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]interface{}
// @Failure      500 {object} api.ErrorResponse
// @Router       /members [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	var hasActive *bool
	if raw := c.Query("has_active_package"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid has_active_package value"})
			return
		}
		hasActive = &parsed
	}

	members, total, err := h.service.List(c.Request.Context(), ListFilter{
		Status:           c.Query("status"),
		Gender:           c.Query("gender"),
		Search:           c.Query("search"),
		HasActivePackage: hasActive,
		Page:             page,
		Limit:            limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch members"})
		return
	}

	pages := (total + limit - 1) / limit
	c.JSON(http.StatusOK, gin.H{
		"members":    members,
		"pagination": api.Pagination{Page: page, Limit: limit, Total: total, Pages: pages},
	})
}

// @Summary      Get a member with visit statistics
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	m, stats, err := h.service.GetWithStatistics(c.Request.Context(), id)
	if err != nil {
		switch err {
		case ErrMemberNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch member"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member":     m,
		"statistics": stats,
	})
}

// @Summary      Update a member
// @Description  Email, membership number and join date cannot be changed.
// @Tags         members
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Param        request body member.UpdateMemberRequest true "Fields to update"
// @Success      200 {object} member.Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch err {
		case ErrMemberNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update member"})
		}
		return
	}

	c.JSON(http.StatusOK, m)
}

// @Summary      Delete a member
// @Description  Refused while the member has an active registration.
// @Tags         members
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /members/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case ErrMemberNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		case ErrHasActiveRegistration:
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Member has an active registration"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete member"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Member deleted"})
}
