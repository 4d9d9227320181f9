package postgres

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/emberfield/village/internal/database"
	"github.com/emberfield/village/internal/domain"
)

// startTestDB brings up a disposable Postgres container and applies the
// embedded migrations. MaxConns is sized for the concurrency tests.
func startTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(15*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pgContainer.Terminate(ctx)
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, database.Migrate(connStr))

	pool, err := database.NewPool(connStr, 20, 30*time.Minute, time.Hour)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// The fakes reimplement the conditional updates in Go; this suite proves
// the real SQL predicates hold under actual concurrent connections.
func TestConditionalUpdates_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	pool := startTestDB(t)
	ctx := context.Background()

	nodes := NewNodeRepository(pool)
	players := NewPlayerRepository(pool)
	villages := NewVillageRepository(pool)

	t.Run("ReserveSingleWinner", func(t *testing.T) {
		require.NoError(t, nodes.Create(ctx, &domain.ResourceNode{
			ID: "it-reserve", Kind: domain.NodeTree, Size: 80, State: domain.NodeGrowing, Tier: 1,
		}))

		concurrent := 10
		var wins int32
		var wg sync.WaitGroup
		wg.Add(concurrent)
		start := make(chan struct{})

		for i := 0; i < concurrent; i++ {
			go func() {
				defer wg.Done()
				<-start
				won, err := nodes.Reserve(ctx, "it-reserve")
				assert.NoError(t, err)
				if won {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), wins, "exactly one caller may reserve a node")

		n, err := nodes.Get(ctx, "it-reserve")
		require.NoError(t, err)
		assert.Equal(t, domain.NodeReserved, n.State)
	})

	t.Run("CompleteAndResetSinglePayout", func(t *testing.T) {
		due := time.Now().Add(-time.Second)
		require.NoError(t, nodes.Create(ctx, &domain.ResourceNode{
			ID: "it-complete", Kind: domain.NodeStone, Size: 100, Yield: 4,
			State: domain.NodeWorking, ProgressFinishAt: &due, Tier: 2,
		}))

		concurrent := 10
		var wins int32
		var wg sync.WaitGroup
		wg.Add(concurrent)
		start := make(chan struct{})

		for i := 0; i < concurrent; i++ {
			go func() {
				defer wg.Done()
				<-start
				won, err := nodes.CompleteAndReset(ctx, "it-complete", time.Now(), 3, 2)
				assert.NoError(t, err)
				if won {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(1), wins, "a due node must be claimed by exactly one sweep")

		n, err := nodes.Get(ctx, "it-complete")
		require.NoError(t, err)
		assert.Equal(t, domain.NodeGrowing, n.State)
		assert.Equal(t, 0, n.Size)
		assert.Equal(t, 2, n.Yield)
		assert.Equal(t, 3, n.Tier)
		assert.Nil(t, n.ProgressFinishAt)
	})

	t.Run("SpendCoinsNeverOverdraws", func(t *testing.T) {
		require.NoError(t, players.Create(ctx, &domain.Player{
			ID: "it-spender", Name: "Spender", State: domain.StateIdle, LastActionAt: time.Now(),
			WoodSkill: domain.Skill{NextLevelAt: 100}, MiningSkill: domain.Skill{NextLevelAt: 100},
		}))
		require.NoError(t, players.AddCoins(ctx, "it-spender", 10))

		paid, err := players.SpendCoins(ctx, "it-spender", 20)
		require.NoError(t, err)
		assert.False(t, paid, "a price above the balance must not be charged")

		concurrent := 5
		var charges int32
		var wg sync.WaitGroup
		wg.Add(concurrent)
		start := make(chan struct{})

		for i := 0; i < concurrent; i++ {
			go func() {
				defer wg.Done()
				<-start
				ok, err := players.SpendCoins(ctx, "it-spender", 3)
				assert.NoError(t, err)
				if ok {
					atomic.AddInt32(&charges, 1)
				}
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(3), charges, "10 coins cover exactly three charges of 3")

		p, err := players.Get(ctx, "it-spender")
		require.NoError(t, err)
		assert.Equal(t, 1, p.Coins)
	})

	t.Run("GlobalTargetNeverOvershoots", func(t *testing.T) {
		_, err := pool.Exec(ctx, `UPDATE villages SET global_target = 0, global_target_success = 50`)
		require.NoError(t, err)

		concurrent := 7
		var credited int32
		var wg sync.WaitGroup
		wg.Add(concurrent)
		start := make(chan struct{})

		for i := 0; i < concurrent; i++ {
			go func() {
				defer wg.Done()
				<-start
				n, err := villages.AdvanceGlobalTarget(ctx, 10)
				assert.NoError(t, err)
				atomic.AddInt32(&credited, int32(n))
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int32(50), credited, "70 donated but only 50 fits under the threshold")

		v, err := villages.Get(ctx)
		require.NoError(t, err)
		require.NotNil(t, v.GlobalTarget)
		assert.Equal(t, 50, *v.GlobalTarget)
	})
}
