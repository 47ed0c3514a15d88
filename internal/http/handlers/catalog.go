package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"safari/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type packageDealsRequest struct {
	PackageID int64 `json:"package_id"`
}

// PackageDeals answers both POST {package_id} and GET ?package_id=.
func (h *Handler) PackageDeals(c *gin.Context) {
	var req packageDealsRequest
	if c.Request.Method == http.MethodPost {
		if !BindJSONOrError(c, &req) {
			return
		}
	} else {
		id, err := strconv.ParseInt(strings.TrimSpace(c.Query("package_id")), 10, 64)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "package_id: required")
			return
		}
		req.PackageID = id
	}

	deals, err := h.catalogSvc(c).PackageDeals(c.Request.Context(), req.PackageID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, deals)
}

func (h *Handler) Addons(c *gin.Context) {
	addons, err := h.catalogSvc(c).Addons(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, addons)
}

func (h *Handler) Packages(c *gin.Context) {
	pkgs, err := h.catalogSvc(c).Packages(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, pkgs)
}

func (h *Handler) PackageBySlug(c *gin.Context) {
	p, err := h.catalogSvc(c).PackageBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, p)
}

func (h *Handler) CreateDeal(c *gin.Context) {
	var in models.DealInput
	if !BindJSONOrError(c, &in) {
		return
	}
	d, err := h.catalogSvc(c).CreateDeal(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, d)
}

func (h *Handler) UpdateDeal(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in models.DealInput
	if !BindJSONOrError(c, &in) {
		return
	}
	d, err := h.catalogSvc(c).UpdateDeal(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, d)
}

func (h *Handler) CreateAddon(c *gin.Context) {
	var in models.AddonInput
	if !BindJSONOrError(c, &in) {
		return
	}
	a, err := h.catalogSvc(c).CreateAddon(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, a)
}

func (h *Handler) UpdateAddon(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var in models.AddonInput
	if !BindJSONOrError(c, &in) {
		return
	}
	a, err := h.catalogSvc(c).UpdateAddon(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondOK(c, http.StatusOK, a)
}
