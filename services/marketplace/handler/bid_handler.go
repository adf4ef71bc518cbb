package handler

import (
	"fmt"
	"net/http"

	"gig-marketplace/internal/auth"
	model "gig-marketplace/internal/models"
	"gig-marketplace/services/marketplace/helpers"
	"gig-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type BidHandler struct {
	service BidServiceInterface
}

func NewBidHandler(service BidServiceInterface) *BidHandler {
	return &BidHandler{service: service}
}

// PlaceBidHandler handles POST /bids
func (h *BidHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	freelancerID := auth.UserID(c)
	bid, err := h.service.PlaceBid(c.Request.Context(), req.GigID, freelancerID, req.Amount, req.Message)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("PlaceBidHandler: failed to place bid", map[string]any{
			"handler":       "PlaceBidHandler",
			"gig_id":        req.GigID,
			"freelancer_id": freelancerID,
			"error":         err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToBidResponse(bid), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"bid_id":        bid.ID,
		"gig_id":        bid.GigID,
		"freelancer_id": freelancerID,
		"amount":        bid.Amount,
	})
}

// GetBidsForGigHandler handles GET /gigs/:gig_id/bids
func (h *BidHandler) GetBidsForGigHandler(c *gin.Context) {
	gigID := c.Param("gig_id")
	requesterID := auth.UserID(c)
	bids, err := h.service.GetBidsForGig(c.Request.Context(), gigID, requesterID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetBidsForGigHandler: error retrieving bids", map[string]any{
			"gig_id":       gigID,
			"requester_id": requesterID,
			"error":        err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetBidsForGigHandler", "bids retrieved successfully", map[string]any{
		"gig_id": gigID,
		"count":  len(bids),
	})
}

// GetMyBidsHandler handles GET /bids/my
func (h *BidHandler) GetMyBidsHandler(c *gin.Context) {
	freelancerID := auth.UserID(c)
	bids, err := h.service.GetMyBids(c.Request.Context(), freelancerID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetMyBidsHandler: error retrieving bids", map[string]any{"freelancer_id": freelancerID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetMyBidsHandler", "bids retrieved successfully", map[string]any{
		"freelancer_id": freelancerID,
		"count":         len(bids),
	})
}

// GetReceivedBidsHandler handles GET /bids/received
func (h *BidHandler) GetReceivedBidsHandler(c *gin.Context) {
	clientID := auth.UserID(c)
	bids, err := h.service.GetReceivedBids(c.Request.Context(), clientID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetReceivedBidsHandler: error retrieving bids", map[string]any{"client_id": clientID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("GetReceivedBidsHandler", "bids retrieved successfully", map[string]any{
		"client_id": clientID,
		"count":     len(bids),
	})
}

// AcceptBidHandler handles PATCH /bids/:bid_id/accept
func (h *BidHandler) AcceptBidHandler(c *gin.Context) {
	h.decide(c, "AcceptBidHandler", model.BidStatusAccepted)
}

// RejectBidHandler handles PATCH /bids/:bid_id/reject
func (h *BidHandler) RejectBidHandler(c *gin.Context) {
	h.decide(c, "RejectBidHandler", model.BidStatusRejected)
}

func (h *BidHandler) decide(c *gin.Context, handlerName string, to model.BidStatus) {
	bidID := c.Param("bid_id")
	requesterID := auth.UserID(c)

	decide := h.service.AcceptBid
	if to == model.BidStatusRejected {
		decide = h.service.RejectBid
	}

	bid, err := decide(c.Request.Context(), bidID, requesterID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn(handlerName+": bid decision failed", map[string]any{
			"bid_id":       bidID,
			"requester_id": requesterID,
			"error":        err.Error(),
		})
		return
	}

	msg := fmt.Sprintf("bid %s successfully", to)
	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponse(bid), msg)
	helpers.LogSuccess(handlerName, msg, map[string]any{
		"bid_id": bid.ID,
		"gig_id": bid.GigID,
	})
}
