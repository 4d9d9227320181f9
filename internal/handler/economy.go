package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/economy"
	"github.com/emberfield/village/internal/logger"
)

// DonateRequest represents a full-stack donation to the village
type DonateRequest struct {
	Resource string `json:"resource" validate:"required,resource"`
}

// SellRequest represents a full-stack sale
type SellRequest struct {
	Resource string `json:"resource" validate:"required,resource"`
}

// BuyToolRequest represents a tool purchase from the dealer
type BuyToolRequest struct {
	Tool string `json:"tool" validate:"required,tool"`
}

// HandleDonate donates the player's whole stack of a resource to the village
// @Summary Donate a resource stack to the village
// @Tags economy
// @Accept json
// @Produce json
// @Param playerID path string true "Player ID"
// @Param request body DonateRequest true "Resource to donate"
// @Success 200 {object} domain.Player
// @Failure 400 {object} ErrorResponse "Nothing to donate"
// @Router /players/{playerID}/donate [post]
func HandleDonate(economySvc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		playerID := chi.URLParam(r, "playerID")

		var req DonateRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Donate"); err != nil {
			return
		}

		p, err := economySvc.Donate(r.Context(), playerID, domain.ItemType(req.Resource))
		if err != nil {
			log.Warn("Donation failed", "error", err, "playerID", playerID, "resource", req.Resource)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, p)
	}
}

// HandleSell sells the player's whole stack of a resource for coins
// @Summary Sell a resource stack
// @Tags economy
// @Accept json
// @Produce json
// @Param playerID path string true "Player ID"
// @Param request body SellRequest true "Resource to sell"
// @Success 200 {object} domain.Player
// @Failure 400 {object} ErrorResponse "Nothing to sell"
// @Router /players/{playerID}/sell [post]
func HandleSell(economySvc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		playerID := chi.URLParam(r, "playerID")

		var req SellRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sell"); err != nil {
			return
		}

		p, err := economySvc.Sell(r.Context(), playerID, domain.ItemType(req.Resource))
		if err != nil {
			log.Warn("Sale failed", "error", err, "playerID", playerID, "resource", req.Resource)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, p)
	}
}

// HandleBuyTool sells the player a tool
// @Summary Buy a tool
// @Tags economy
// @Accept json
// @Produce json
// @Param playerID path string true "Player ID"
// @Param request body BuyToolRequest true "Tool to buy"
// @Success 200 {object} domain.Player
// @Failure 400 {object} ErrorResponse "Already owned or not enough coins"
// @Router /players/{playerID}/buy-tool [post]
func HandleBuyTool(economySvc economy.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		playerID := chi.URLParam(r, "playerID")

		var req BuyToolRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Buy tool"); err != nil {
			return
		}

		p, err := economySvc.BuyTool(r.Context(), playerID, domain.ItemType(req.Tool))
		if err != nil {
			log.Warn("Purchase failed", "error", err, "playerID", playerID, "tool", req.Tool)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, p)
	}
}
