package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/inventory"
	"github.com/emberfield/village/internal/logger"
	"github.com/emberfield/village/internal/player"
	"github.com/emberfield/village/internal/skill"
)

// LeaderboardSize caps the reputation leaderboard
const LeaderboardSize = 10

// RegisterPlayerRequest represents the find-or-create request on first contact
type RegisterPlayerRequest struct {
	PlayerID string `json:"player_id" validate:"required,max=100"`
	Name     string `json:"name" validate:"required,max=100"`
}

// SetTargetRequest represents the move-to-target request
type SetTargetRequest struct {
	TargetID string  `json:"target_id" validate:"required,max=100"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// BumpSkillRequest represents a skill progression request
type BumpSkillRequest struct {
	Skill string `json:"skill" validate:"required,skill"`
}

// LeaderboardEntry is one row of the reputation leaderboard
type LeaderboardEntry struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	Reputation  int    `json:"reputation"`
}

// HandleRegisterPlayer resolves a player id, creating the player on first contact
// @Summary Find or create a player
// @Tags players
// @Accept json
// @Produce json
// @Param request body RegisterPlayerRequest true "Player identity"
// @Success 200 {object} domain.Player
// @Failure 400 {object} ValidationErrorResponse
// @Router /players [post]
func HandleRegisterPlayer(playerSvc player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req RegisterPlayerRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Register player"); err != nil {
			return
		}

		p, err := playerSvc.FindOrCreate(r.Context(), req.PlayerID, req.Name)
		if err != nil {
			log.Error("Failed to register player", "error", err, "playerID", req.PlayerID)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, p)
	}
}

// HandleListPlayers returns every player
// @Summary List players
// @Tags players
// @Produce json
// @Success 200 {array} domain.Player
// @Router /players [get]
func HandleListPlayers(playerSvc player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		players, err := playerSvc.List(r.Context())
		if err != nil {
			log.Error("Failed to list players", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
			return
		}

		respondJSON(w, http.StatusOK, players)
	}
}

// HandleGetPlayer returns one player snapshot
// @Summary Get a player
// @Tags players
// @Produce json
// @Param playerID path string true "Player ID"
// @Success 200 {object} domain.Player
// @Failure 404 {object} ErrorResponse
// @Router /players/{playerID} [get]
func HandleGetPlayer(playerSvc player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		playerID := chi.URLParam(r, "playerID")

		p, err := playerSvc.Get(r.Context(), playerID)
		if err != nil {
			log.Warn("Failed to get player", "error", err, "playerID", playerID)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, p)
	}
}

// HandleGetPlayerInventory returns everything a player holds
// @Summary Get a player's inventory
// @Tags players
// @Produce json
// @Param playerID path string true "Player ID"
// @Success 200 {array} domain.InventoryItem
// @Router /players/{playerID}/inventory [get]
func HandleGetPlayerInventory(inventorySvc inventory.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		playerID := chi.URLParam(r, "playerID")

		items, err := inventorySvc.Items(r.Context(), playerID)
		if err != nil {
			log.Error("Failed to get inventory", "error", err, "playerID", playerID)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, items)
	}
}

// HandleSetTarget starts the player moving toward a node or the off-screen sentinel
// @Summary Set a player's movement target
// @Tags players
// @Accept json
// @Produce json
// @Param playerID path string true "Player ID"
// @Param request body SetTargetRequest true "Target"
// @Success 200 {object} domain.Player
// @Failure 400 {object} ValidationErrorResponse
// @Router /players/{playerID}/target [post]
func HandleSetTarget(playerSvc player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		playerID := chi.URLParam(r, "playerID")

		var req SetTargetRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Set target"); err != nil {
			return
		}

		p, err := playerSvc.SetTarget(r.Context(), playerID, req.TargetID, req.X, req.Y)
		if err != nil {
			log.Error("Failed to set target", "error", err, "playerID", playerID, "targetID", req.TargetID)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, p)
	}
}

// HandleArrive resolves the player's target on arrival
// @Summary Report a player's arrival at their target
// @Tags players
// @Produce json
// @Param playerID path string true "Player ID"
// @Success 200 {object} domain.Player
// @Failure 409 {object} ErrorResponse "Node already claimed"
// @Router /players/{playerID}/arrived [post]
func HandleArrive(playerSvc player.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		playerID := chi.URLParam(r, "playerID")

		p, err := playerSvc.Arrive(r.Context(), playerID)
		if err != nil {
			log.Warn("Arrival failed", "error", err, "playerID", playerID)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, p)
	}
}

// HandleBumpSkill advances a player's skill track by one action
// @Summary Bump a player's skill
// @Tags players
// @Accept json
// @Produce json
// @Param playerID path string true "Player ID"
// @Param request body BumpSkillRequest true "Skill track"
// @Success 200 {object} domain.Skill
// @Failure 400 {object} ValidationErrorResponse
// @Router /players/{playerID}/skill [post]
func HandleBumpSkill(skillSvc skill.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		playerID := chi.URLParam(r, "playerID")

		var req BumpSkillRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Bump skill"); err != nil {
			return
		}

		track, err := skillSvc.Bump(r.Context(), playerID, domain.SkillKind(req.Skill))
		if err != nil {
			log.Error("Failed to bump skill", "error", err, "playerID", playerID, "skill", req.Skill)
			statusCode, userMsg := mapServiceErrorToUserMessage(err)
			respondError(w, statusCode, userMsg)
			return
		}

		respondJSON(w, http.StatusOK, track)
	}
}

// HandleLeaderboard returns the top players by reputation
// @Summary Reputation leaderboard
// @Tags players
// @Produce json
// @Success 200 {array} LeaderboardEntry
// @Router /leaderboard [get]
func HandleLeaderboard(playerSvc player.Service) http.HandlerFunc {
	titleCaser := cases.Title(language.English)

	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		top, err := playerSvc.TopByReputation(r.Context(), LeaderboardSize)
		if err != nil {
			log.Error("Failed to get leaderboard", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
			return
		}

		entries := make([]LeaderboardEntry, 0, len(top))
		for _, p := range top {
			entries = append(entries, LeaderboardEntry{
				PlayerID:    p.ID,
				DisplayName: titleCaser.String(p.Name),
				Reputation:  p.Reputation,
			})
		}

		respondJSON(w, http.StatusOK, entries)
	}
}
