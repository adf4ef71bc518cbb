package handler

import (
	"fmt"
	"net/http"

	"gig-marketplace/internal/auth"
	"gig-marketplace/services/marketplace/helpers"
	"gig-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type HireHandler struct {
	service HireServiceInterface
}

func NewHireHandler(service HireServiceInterface) *HireHandler {
	return &HireHandler{service: service}
}

// HireBidHandler handles PATCH /bids/:bid_id/hire
func (h *HireHandler) HireBidHandler(c *gin.Context) {
	bidID := c.Param("bid_id")
	requesterID := auth.UserID(c)

	outcome, err := h.service.Hire(c.Request.Context(), bidID, requesterID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("HireBidHandler: hire failed", map[string]any{
			"bid_id":       bidID,
			"requester_id": requesterID,
			"error":        err.Error(),
		})
		return
	}

	rejected := outcome.RejectedBidIDs
	if rejected == nil {
		rejected = []string{}
	}
	resp := helpers.HireResponse{
		Gig:            helpers.ToGigResponse(outcome.Gig),
		Bid:            helpers.ToBidResponse(outcome.Bid),
		RejectedBidIDs: rejected,
	}

	utils.JSONResponse(c, http.StatusOK, resp, "freelancer hired successfully")
	helpers.LogSuccess("HireBidHandler", "freelancer hired successfully", map[string]any{
		"bid_id":        outcome.Bid.ID,
		"gig_id":        outcome.Gig.ID,
		"freelancer_id": outcome.Bid.FreelancerID,
		"rejected":      len(rejected),
	})
}
