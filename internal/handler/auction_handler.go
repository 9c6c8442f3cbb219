package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"auctionhouse/internal/auth"
	"auctionhouse/internal/errors"
	"auctionhouse/internal/model"
	"auctionhouse/internal/service"
)

// AuctionHandler handles auction endpoints.
type AuctionHandler struct {
	auctionService service.AuctionService
	now            func() time.Time
}

// NewAuctionHandler creates a new auction handler.
func NewAuctionHandler(auctionService service.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctionService: auctionService, now: time.Now}
}

// CreateAuctionRequest represents an auction creation request.
type CreateAuctionRequest struct {
	ItemDescription string              `json:"itemDescription" validate:"required"`
	StartingBid     decimal.NullDecimal `json:"startingBid" swaggertype:"number" example:"25.50"`
	Duration        int64               `json:"duration" validate:"gt=0" example:"300"`
}

// PlaceBidRequest represents a bid on an auction.
type PlaceBidRequest struct {
	AuctionID string              `json:"auctionId" validate:"required"`
	NewBid    decimal.NullDecimal `json:"newBid" swaggertype:"number" example:"30"`
}

// BidderSummary names the current highest bidder.
type BidderSummary struct {
	Name string `json:"name"`
}

// AuctionResponse is an auction as seen by clients.
type AuctionResponse struct {
	model.Auction
	CurrentHighestBidder BidderSummary       `json:"currentHighestBidder"`
	Status               model.AuctionStatus `json:"status" enums:"open,closed"`
}

// AuctionEnvelope wraps a single auction with a message.
type AuctionEnvelope struct {
	Message string          `json:"message,omitempty"`
	Auction AuctionResponse `json:"auction"`
}

// AuctionListResponse wraps the auction list.
type AuctionListResponse struct {
	Auctions []AuctionResponse `json:"auctions"`
}

// BidListResponse wraps the accepted bid history.
type BidListResponse struct {
	Bids []model.BidLog `json:"bids"`
}

func toAuctionResponse(detail service.AuctionDetail, now time.Time) AuctionResponse {
	return AuctionResponse{
		Auction:              detail.Auction,
		CurrentHighestBidder: BidderSummary{Name: detail.HighestBidderName},
		Status:               detail.Auction.Status(now),
	}
}

func invalidInput(message string) error {
	httpErr := errors.MapErrorToHTTP(fmt.Errorf("%w: %s", errors.ErrInvalidInput, message))
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func errorResponse(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func parseAuctionID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidInput("invalid auction id")
	}
	return id, nil
}

// ListAuctions godoc
// @Summary List auctions
// @Description All auctions, newest first, with the highest bidder's name and open/closed status.
// @Tags auctions
// @Produce json
// @Success 200 {object} AuctionListResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auction [get]
func (h *AuctionHandler) ListAuctions(c echo.Context) error {
	details, err := h.auctionService.ListAuctions(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}

	now := h.now()
	auctions := make([]AuctionResponse, 0, len(details))
	for _, d := range details {
		auctions = append(auctions, toAuctionResponse(d, now))
	}
	return c.JSON(http.StatusOK, AuctionListResponse{Auctions: auctions})
}

// CreateAuction godoc
// @Summary Create an auction
// @Tags auctions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAuctionRequest true "Auction data"
// @Success 201 {object} AuctionEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auction [post]
func (h *AuctionHandler) CreateAuction(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return errorResponse(c, errors.ErrUnauthorized)
	}

	var req CreateAuctionRequest
	if err := c.Bind(&req); err != nil {
		return invalidInput("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput("invalid auction data")
	}

	now := h.now()
	detail, err := h.auctionService.CreateAuction(c.Request().Context(), service.CreateAuctionInput{
		ItemDescription: req.ItemDescription,
		StartingBid:     req.StartingBid,
		Duration:        req.Duration,
	}, identity, now)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, AuctionEnvelope{
		Message: "Auction created successfully!",
		Auction: toAuctionResponse(*detail, now),
	})
}

// PlaceBid godoc
// @Summary Place a bid
// @Description Accepts a bid strictly above the current highest bid on an open auction. Bids in the final 10 seconds extend the auction to 10 seconds from the bid.
// @Tags auctions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PlaceBidRequest true "Bid data"
// @Success 200 {object} AuctionEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auction [patch]
func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		return errorResponse(c, errors.ErrUnauthorized)
	}

	var req PlaceBidRequest
	if err := c.Bind(&req); err != nil {
		return invalidInput("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return invalidInput("invalid bid data")
	}
	auctionID, err := parseAuctionID(req.AuctionID)
	if err != nil {
		return err
	}

	now := h.now()
	detail, err := h.auctionService.SubmitBid(c.Request().Context(), auctionID, req.NewBid, identity, now)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, AuctionEnvelope{
		Message: "Bid placed successfully!",
		Auction: toAuctionResponse(*detail, now),
	})
}

// GetAuction godoc
// @Summary Get an auction
// @Tags auctions
// @Produce json
// @Param id path string true "Auction ID"
// @Success 200 {object} AuctionEnvelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auction/{id} [get]
func (h *AuctionHandler) GetAuction(c echo.Context) error {
	id, err := parseAuctionID(c.Param("id"))
	if err != nil {
		return err
	}

	detail, err := h.auctionService.GetAuction(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, AuctionEnvelope{Auction: toAuctionResponse(*detail, h.now())})
}

// ListBids godoc
// @Summary List accepted bids
// @Tags auctions
// @Produce json
// @Param id path string true "Auction ID"
// @Success 200 {object} BidListResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auction/{id}/bids [get]
func (h *AuctionHandler) ListBids(c echo.Context) error {
	id, err := parseAuctionID(c.Param("id"))
	if err != nil {
		return err
	}

	bids, err := h.auctionService.ListBids(c.Request().Context(), id)
	if err != nil {
		return errorResponse(c, err)
	}
	if bids == nil {
		bids = []model.BidLog{}
	}
	return c.JSON(http.StatusOK, BidListResponse{Bids: bids})
}
