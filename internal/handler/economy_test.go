package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberfield/village/internal/domain"
	"github.com/emberfield/village/internal/economy"
	"github.com/emberfield/village/internal/event"
	"github.com/emberfield/village/internal/inventory"
	"github.com/emberfield/village/internal/player"
	"github.com/emberfield/village/internal/village"
)

type economyTestEnv struct {
	router   chi.Router
	players  *player.FakeRepository
	items    *inventory.FakeRepository
	villages *village.FakeRepository
}

func newEconomyTestEnv(t *testing.T) *economyTestEnv {
	t.Helper()
	env := &economyTestEnv{
		players:  player.NewFakeRepository(),
		items:    inventory.NewFakeRepository(),
		villages: village.NewFakeRepository(),
	}
	bus := event.NewMemoryBus()
	economySvc := economy.NewService(env.players, inventory.NewService(env.items), village.NewService(env.villages), bus)

	r := chi.NewRouter()
	r.Post("/players/{playerID}/donate", HandleDonate(economySvc))
	r.Post("/players/{playerID}/sell", HandleSell(economySvc))
	r.Post("/players/{playerID}/buy-tool", HandleBuyTool(economySvc))
	env.router = r
	return env
}

func (e *economyTestEnv) post(t *testing.T, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(raw))
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestHandleDonate(t *testing.T) {
	env := newEconomyTestEnv(t)
	env.players.Seed(domain.Player{ID: "p1"})
	env.items.Seed(domain.InventoryItem{PlayerID: "p1", Type: domain.ItemWood, Amount: 8})

	w := env.post(t, "/players/p1/donate", DonateRequest{Resource: "wood"})
	assert.Equal(t, http.StatusOK, w.Code)

	var p domain.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, 8, p.Reputation)

	v, err := env.villages.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, v.Wood)
}

func TestHandleDonateNothingToGive(t *testing.T) {
	env := newEconomyTestEnv(t)
	env.players.Seed(domain.Player{ID: "p1"})

	w := env.post(t, "/players/p1/donate", DonateRequest{Resource: "wood"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgItemNotFoundHTTP)
}

func TestHandleDonateInvalidResource(t *testing.T) {
	env := newEconomyTestEnv(t)

	w := env.post(t, "/players/p1/donate", DonateRequest{Resource: "gold"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "wood or stone")
}

func TestHandleSell(t *testing.T) {
	env := newEconomyTestEnv(t)
	env.players.Seed(domain.Player{ID: "p1"})
	env.items.Seed(domain.InventoryItem{PlayerID: "p1", Type: domain.ItemStone, Amount: 11})

	w := env.post(t, "/players/p1/sell", SellRequest{Resource: "stone"})
	assert.Equal(t, http.StatusOK, w.Code)

	var p domain.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, 11, p.Coins)
}

func TestHandleBuyTool(t *testing.T) {
	env := newEconomyTestEnv(t)
	env.players.Seed(domain.Player{ID: "p1", Coins: 30})

	w := env.post(t, "/players/p1/buy-tool", BuyToolRequest{Tool: "axe"})
	assert.Equal(t, http.StatusOK, w.Code)

	var p domain.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, 10, p.Coins)
}

func TestHandleBuyToolInsufficientCoins(t *testing.T) {
	env := newEconomyTestEnv(t)
	env.players.Seed(domain.Player{ID: "p1", Coins: 2})

	w := env.post(t, "/players/p1/buy-tool", BuyToolRequest{Tool: "pickaxe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgInsufficientCoinsHTTP)
}

func TestHandleBuyToolAlreadyOwned(t *testing.T) {
	env := newEconomyTestEnv(t)
	env.players.Seed(domain.Player{ID: "p1", Coins: 50})
	env.items.Seed(domain.InventoryItem{PlayerID: "p1", Type: domain.ItemAxe, Amount: 1, Durability: 20})

	w := env.post(t, "/players/p1/buy-tool", BuyToolRequest{Tool: "axe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), ErrMsgAlreadyOwnedHTTP)
}
