package handler

import (
	"fmt"
	"net/http"

	"gig-marketplace/internal/auth"
	"gig-marketplace/services/marketplace/helpers"
	"gig-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type GigHandler struct {
	service GigServiceInterface
}

func NewGigHandler(service GigServiceInterface) *GigHandler {
	return &GigHandler{service: service}
}

// CreateGigHandler handles POST /gigs
func (h *GigHandler) CreateGigHandler(c *gin.Context) {
	var req helpers.CreateGigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateGigHandler", err)
		return
	}

	ownerID := auth.UserID(c)
	gig, err := h.service.CreateGig(c.Request.Context(), ownerID, req.Title, req.Description, req.Budget)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("CreateGigHandler: failed to create gig", map[string]any{
			"handler":  "CreateGigHandler",
			"owner_id": ownerID,
			"error":    err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToGigResponse(gig), "gig created successfully")
	helpers.LogSuccess("CreateGigHandler", "gig created successfully", map[string]any{
		"gig_id":   gig.ID,
		"owner_id": ownerID,
		"budget":   gig.Budget,
	})
}

// ListGigsHandler handles GET /gigs?search=
func (h *GigHandler) ListGigsHandler(c *gin.Context) {
	search := c.Query("search")
	gigs, err := h.service.ListOpenGigs(c.Request.Context(), search)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListGigsHandler: error listing gigs", map[string]any{"search": search, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToGigResponses(gigs), "gigs retrieved successfully")
	helpers.LogSuccess("ListGigsHandler", "gigs retrieved successfully", map[string]any{
		"search": search,
		"count":  len(gigs),
	})
}
