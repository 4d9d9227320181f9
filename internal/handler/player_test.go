package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/event"
	"github.com/emberfield/village/internal/inventory"
	"github.com/emberfield/village/internal/node"
	"github.com/emberfield/village/internal/player"
	"github.com/emberfield/village/internal/skill"
)

type playerTestEnv struct {
	router   chi.Router
	players  *player.FakeRepository
	nodes    *node.FakeRepository
	commands *node.FakeCommandRepository
	items    *inventory.FakeRepository
}

func newPlayerTestEnv(t *testing.T) *playerTestEnv {
	t.Helper()
	env := &playerTestEnv{
		players:  player.NewFakeRepository(),
		nodes:    node.NewFakeRepository(),
		commands: node.NewFakeCommandRepository(),
		items:    inventory.NewFakeRepository(),
	}
	bus := event.NewMemoryBus()
	inventorySvc := inventory.NewService(env.items)
	playerSvc := player.NewService(env.players, env.nodes, env.commands, inventorySvc, bus)
	skillSvc := skill.NewService(env.players, inventorySvc, bus)

	r := chi.NewRouter()
	r.Post("/players", HandleRegisterPlayer(playerSvc))
	r.Get("/players", HandleListPlayers(playerSvc))
	r.Get("/players/{playerID}", HandleGetPlayer(playerSvc))
	r.Get("/players/{playerID}/inventory", HandleGetPlayerInventory(inventorySvc))
	r.Post("/players/{playerID}/target", HandleSetTarget(playerSvc))
	r.Post("/players/{playerID}/arrived", HandleArrive(playerSvc))
	r.Post("/players/{playerID}/skill", HandleBumpSkill(skillSvc))
	r.Get("/leaderboard", HandleLeaderboard(playerSvc))
	env.router = r
	return env
}

func (e *playerTestEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHandleRegisterPlayer(t *testing.T) {
	env := newPlayerTestEnv(t)

	w := env.do(t, http.MethodPost, "/players", RegisterPlayerRequest{PlayerID: "p1", Name: "alice"})
	assert.Equal(t, http.StatusOK, w.Code)

	var p domain.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, string(domain.StateIdle), string(p.State))
}

func TestHandleRegisterPlayerValidation(t *testing.T) {
	env := newPlayerTestEnv(t)

	w := env.do(t, http.MethodPost, "/players", map[string]string{"name": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "player_id")
}

func TestHandleGetPlayerNotFound(t *testing.T) {
	env := newPlayerTestEnv(t)

	w := env.do(t, http.MethodGet, "/players/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgPlayerNotFoundHTTP)
}

func TestHandleSetTarget(t *testing.T) {
	env := newPlayerTestEnv(t)
	env.players.Seed(domain.Player{ID: "p1"})

	w := env.do(t, http.MethodPost, "/players/p1/target", SetTargetRequest{TargetID: "node-3", X: 120, Y: 40})
	assert.Equal(t, http.StatusOK, w.Code)

	var p domain.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "node-3", p.TargetID)
	assert.Equal(t, domain.StateRunning, p.State)
}

func TestHandleArriveStartsWork(t *testing.T) {
	env := newPlayerTestEnv(t)
	n := env.nodes.Seed(domain.ResourceNode{Kind: domain.NodeTree, Size: 80})
	env.players.Seed(domain.Player{ID: "p1", State: domain.StateRunning, TargetID: n.ID})

	w := env.do(t, http.MethodPost, "/players/p1/arrived", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var p domain.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, domain.StateChopping, p.State)
}

func TestHandleArriveLostClaim(t *testing.T) {
	env := newPlayerTestEnv(t)
	n := env.nodes.Seed(domain.ResourceNode{Kind: domain.NodeTree, Size: 80, State: domain.NodeReserved})
	env.players.Seed(domain.Player{ID: "p1", State: domain.StateRunning, TargetID: n.ID})

	w := env.do(t, http.MethodPost, "/players/p1/arrived", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgNodeUnavailableHTTP)
}

func TestHandleBumpSkill(t *testing.T) {
	env := newPlayerTestEnv(t)
	env.players.Seed(domain.Player{ID: "p1", WoodSkill: domain.Skill{Level: 1, Experience: 4, NextLevelAt: 100}})

	w := env.do(t, http.MethodPost, "/players/p1/skill", BumpSkillRequest{Skill: "wood"})
	assert.Equal(t, http.StatusOK, w.Code)

	var track domain.Skill
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &track))
	assert.Equal(t, 5, track.Experience)
}

func TestHandleBumpSkillValidation(t *testing.T) {
	env := newPlayerTestEnv(t)
	env.players.Seed(domain.Player{ID: "p1"})

	w := env.do(t, http.MethodPost, "/players/p1/skill", BumpSkillRequest{Skill: "fishing"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "wood or mining")
}

func TestHandleGetPlayerInventory(t *testing.T) {
	env := newPlayerTestEnv(t)
	env.players.Seed(domain.Player{ID: "p1"})
	env.items.Seed(domain.InventoryItem{PlayerID: "p1", Type: domain.ItemWood, Amount: 6})

	w := env.do(t, http.MethodGet, "/players/p1/inventory", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var items []domain.InventoryItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, domain.ItemWood, items[0].Type)
}

func TestHandleLeaderboardTitleCasesNames(t *testing.T) {
	env := newPlayerTestEnv(t)
	env.players.Seed(domain.Player{ID: "p1", Name: "alice the brave", Reputation: 40})
	env.players.Seed(domain.Player{ID: "p2", Name: "bob", Reputation: 90})

	w := env.do(t, http.MethodGet, "/leaderboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var entries []LeaderboardEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "Bob", entries[0].DisplayName)
	assert.Equal(t, "Alice The Brave", entries[1].DisplayName)
}
