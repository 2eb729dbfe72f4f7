package catalog

import (
	"net/http"
	"strconv"

	"gymdesk/internal/api"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// @Summary      Create a package
// @Tags         packages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body catalog.CreatePackageRequest true "Package payload"
// @Success      201 {object} catalog.Package
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /packages [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	pkg, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch err {
		case ErrCodeExists:
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Package code already exists"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to create package"})
		}
		return
	}

	c.JSON(http.StatusCreated, pkg)
}

// @Summary      List packages
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Filter by status"
// @Success      200 {array} catalog.Package
// @Failure      500 {object} api.ErrorResponse
// @Router       /packages [get]
func (h *Handler) List(c *gin.Context) {
	pkgs, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch packages"})
		return
	}

	c.JSON(http.StatusOK, pkgs)
}

// @Summary      Get a package
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Package ID"
// @Success      200 {object} catalog.Package
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /packages/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid package ID"})
		return
	}

	pkg, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Package not found"})
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// @Summary      Update a package
// @Tags         packages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Package ID"
// @Param        request body catalog.UpdatePackageRequest true "Fields to update"
// @Success      200 {object} catalog.Package
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /packages/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid package ID"})
		return
	}

	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	pkg, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch err {
		case ErrPackageNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Package not found"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update package"})
		}
		return
	}

	c.JSON(http.StatusOK, pkg)
}

// @Summary      Delete a package
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Package ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /packages/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid package ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch err {
		case ErrPackageNotFound:
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Package not found"})
		case ErrPackageInUse:
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Package is referenced by registrations"})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to delete package"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Package deleted"})
}
