package registration

import (
	"errors"
	"net/http"
	"strconv"

	"gymdesk/internal/api"
	"gymdesk/internal/auth"
	"gymdesk/internal/server/validation"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Register a member for a package
// @Description  Applies a discount code when valid; an unusable code is ignored.
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body registration.CreateRegistrationRequest true "Registration payload"
// @Success      201 {object} registration.Registration
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /registrations [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	if errs := validation.ValidateStruct(req); len(errs) > 0 {
		validation.RespondWithValidationErrors(c, errs)
		return
	}

	createdBy, _ := auth.GetUserID(c)

	reg, err := h.service.Create(c.Request.Context(), req, createdBy)
	if err != nil {
		var ongoing *OngoingRegistrationError
		if errors.As(err, &ongoing) {
			c.JSON(http.StatusConflict, gin.H{
				"error":                    "Member already has an ongoing registration",
				"conflicting_registration": ongoing.Conflicting,
			})
			return
		}
		switch err {
		case ErrMemberNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		case ErrPackageNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Package not found"})
		case ErrPackageInactive:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Package is not active"})
		case ErrInvalidDate:
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid start date, expected YYYY-MM-DD"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create registration"})
		}
		return
	}

	c.JSON(http.StatusCreated, reg)
}

// @Summary      List registrations
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        member_id query int false "Filter by member"
// @Param        package_id query int false "Filter by package"
// @Param        status query string false "Filter by status"
// @Param        page query int false "Page"
// @Param        limit query int false "Page size"
// @Success      200 {object} map[string]interface{}
// @Failure      500 {object} api.ErrorResponse
// @Router       /registrations [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	memberID, _ := strconv.Atoi(c.Query("member_id"))
	packageID, _ := strconv.Atoi(c.Query("package_id"))

	registrations, total, err := h.service.List(c.Request.Context(), ListFilter{
		MemberID:  memberID,
		PackageID: packageID,
		Status:    c.Query("status"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch registrations"})
		return
	}

	pages := (total + limit - 1) / limit
	c.JSON(http.StatusOK, gin.H{
		"registrations": registrations,
		"pagination":    api.Pagination{Page: page, Limit: limit, Total: total, Pages: pages},
	})
}

// @Summary      Get a registration
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Registration ID"
// @Success      200 {object} registration.Registration
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /registrations/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid registration ID"})
		return
	}

	reg, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Registration not found"})
		return
	}

	c.JSON(http.StatusOK, reg)
}

// @Summary      Update a registration status
// @Tags         registrations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Registration ID"
// @Param        request body registration.UpdateStatusRequest true "New status"
// @Success      200 {object} registration.Registration
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /registrations/{id}/status [put]
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid registration ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	reg, err := h.service.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		switch err {
		case ErrRegistrationNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Registration not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update registration"})
		}
		return
	}

	c.JSON(http.StatusOK, reg)
}

// @Summary      List a member's active packages
// @Tags         registrations
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Member ID"
// @Success      200 {array} registration.ActivePackage
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{id}/packages [get]
func (h *Handler) MemberActivePackages(c *gin.Context) {
	memberID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid member ID"})
		return
	}

	packages, err := h.service.MemberActivePackages(c.Request.Context(), memberID)
	if err != nil {
		switch err {
		case ErrMemberNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Member not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch active packages"})
		}
		return
	}

	c.JSON(http.StatusOK, packages)
}
