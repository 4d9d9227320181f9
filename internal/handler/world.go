package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/logger"
	"github.com/emberfield/village/internal/node"
	"github.com/emberfield/village/internal/repository"
	"github.com/emberfield/village/internal/village"
)

// DefaultRecentCommands is how many command log entries the feed shows
const DefaultRecentCommands = 10

// HandleGetVillage returns the village aggregate snapshot
// @Summary Get the village snapshot
// @Tags world
// @Produce json
// @Success 200 {object} domain.Village
// @Router /village [get]
func HandleGetVillage(villageSvc village.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		v, err := villageSvc.Get(r.Context())
		if err != nil {
			log.Error("Failed to get village", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
			return
		}

		respondJSON(w, http.StatusOK, v)
	}
}

// HandleListNodes returns every node of the requested kind
// @Summary List resource nodes by kind
// @Tags world
// @Produce json
// @Param kind query string true "Node kind (tree or stone)"
// @Success 200 {array} domain.ResourceNode
// @Router /nodes [get]
func HandleListNodes(nodeSvc node.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		kind, ok := parseNodeKind(w, r)
		if !ok {
			return
		}

		nodes, err := nodeSvc.ListByKind(r.Context(), kind)
		if err != nil {
			log.Error("Failed to list nodes", "error", err, "kind", kind)
			respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
			return
		}

		respondJSON(w, http.StatusOK, nodes)
	}
}

// HandlePickHarvestable returns the node a player should be routed to next
// @Summary Pick the best harvestable node of a kind
// @Tags world
// @Produce json
// @Param kind query string true "Node kind (tree or stone)"
// @Success 200 {object} domain.ResourceNode
// @Failure 404 {object} ErrorResponse "No harvestable node"
// @Router /nodes/harvestable [get]
func HandlePickHarvestable(nodeSvc node.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		kind, ok := parseNodeKind(w, r)
		if !ok {
			return
		}

		n, err := nodeSvc.PickHarvestable(r.Context(), kind)
		if err != nil {
			if errors.Is(err, domain.ErrNodeNotFound) {
				respondError(w, http.StatusNotFound, ErrMsgNoHarvestableHTTP)
				return
			}
			log.Error("Failed to pick harvestable node", "error", err, "kind", kind)
			respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
			return
		}

		respondJSON(w, http.StatusOK, n)
	}
}

// HandleRecentCommands returns the newest command log entries
// @Summary Recent command feed
// @Tags world
// @Produce json
// @Param limit query int false "Max entries (default 10)"
// @Success 200 {array} domain.Command
// @Router /commands [get]
func HandleRecentCommands(commands repository.Command) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		limit := DefaultRecentCommands
		if raw := GetOptionalQueryParam(r, "limit", ""); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				respondError(w, http.StatusBadRequest, "Invalid limit parameter")
				return
			}
			limit = parsed
		}

		recent, err := commands.ListRecent(r.Context(), limit)
		if err != nil {
			log.Error("Failed to list commands", "error", err)
			respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
			return
		}

		respondJSON(w, http.StatusOK, recent)
	}
}

func parseNodeKind(w http.ResponseWriter, r *http.Request) (domain.NodeKind, bool) {
	raw, ok := GetQueryParam(r, w, "kind")
	if !ok {
		return "", false
	}

	kind := domain.NodeKind(raw)
	if _, known := domain.ProfileFor(kind); !known {
		respondError(w, http.StatusBadRequest, "Invalid kind parameter")
		return "", false
	}
	return kind, true
}
