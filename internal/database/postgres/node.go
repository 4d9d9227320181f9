package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emberfield/village/internal/domain"
)

const nodeColumns = `node_id, kind, x, y, size, yield, state, progress_finish_at, tier`

// NodeRepository implements the resource node repository for PostgreSQL
type NodeRepository struct {
	db *pgxpool.Pool
}

// NewNodeRepository creates a new NodeRepository
func NewNodeRepository(db *pgxpool.Pool) *NodeRepository {
	return &NodeRepository{db: db}
}

func scanNode(row pgx.Row) (*domain.ResourceNode, error) {
	var n domain.ResourceNode
	err := row.Scan(&n.ID, &n.Kind, &n.X, &n.Y, &n.Size, &n.Yield, &n.State, &n.ProgressFinishAt, &n.Tier)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNodeNotFound
		}
		return nil, fmt.Errorf("failed to scan node: %w", err)
	}
	return &n, nil
}

// Create inserts a new resource node
func (r *NodeRepository) Create(ctx context.Context, node *domain.ResourceNode) error {
	query := `
		INSERT INTO resource_nodes (node_id, kind, x, y, size, yield, state, progress_finish_at, tier)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		node.ID, node.Kind, node.X, node.Y, node.Size, node.Yield, node.State, node.ProgressFinishAt, node.Tier,
	)
	if err != nil {
		return fmt.Errorf("failed to insert node: %w", err)
	}
	return nil
}

// Get retrieves a node by ID
func (r *NodeRepository) Get(ctx context.Context, nodeID string) (*domain.ResourceNode, error) {
	query := fmt.Sprintf(`SELECT %s FROM resource_nodes WHERE node_id = $1`, nodeColumns)
	return scanNode(r.db.QueryRow(ctx, query, nodeID))
}

// ListByKind returns all nodes of a kind
func (r *NodeRepository) ListByKind(ctx context.Context, kind domain.NodeKind) ([]domain.ResourceNode, error) {
	query := fmt.Sprintf(`SELECT %s FROM resource_nodes WHERE kind = $1 ORDER BY node_id`, nodeColumns)
	return r.queryNodes(ctx, query, kind)
}

// PickHarvestable returns the best reservable node of a kind, preferring
// nodes nearing natural completion
func (r *NodeRepository) PickHarvestable(ctx context.Context, kind domain.NodeKind) (*domain.ResourceNode, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM resource_nodes
		WHERE kind = $1 AND state = $2 AND size >= $3
		ORDER BY progress_finish_at ASC NULLS LAST
		LIMIT 1`, nodeColumns)
	return scanNode(r.db.QueryRow(ctx, query, kind, domain.NodeGrowing, domain.NodeHarvestableSize))
}

// ListGrowing returns all nodes below the size cap
func (r *NodeRepository) ListGrowing(ctx context.Context) ([]domain.ResourceNode, error) {
	query := fmt.Sprintf(`SELECT %s FROM resource_nodes WHERE size < $1`, nodeColumns)
	return r.queryNodes(ctx, query, domain.NodeMaxSize)
}

// ApplyGrowth atomically increments size (capped) and yield
func (r *NodeRepository) ApplyGrowth(ctx context.Context, nodeID string, sizeDelta, yieldDelta int) error {
	query := `
		UPDATE resource_nodes
		SET size = LEAST(size + $2, $4), yield = yield + $3
		WHERE node_id = $1
	`
	tag, err := r.db.Exec(ctx, query, nodeID, sizeDelta, yieldDelta, domain.NodeMaxSize)
	if err != nil {
		return fmt.Errorf("failed to grow node: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNodeNotFound
	}
	return nil
}

// Reserve flips a harvestable node from growing to reserved.
// The state predicate makes this the single atomic claim: of any number of
// concurrent callers exactly one sees a row updated.
func (r *NodeRepository) Reserve(ctx context.Context, nodeID string) (bool, error) {
	query := `
		UPDATE resource_nodes
		SET state = $2
		WHERE node_id = $1 AND state = $3 AND size >= $4
	`
	tag, err := r.db.Exec(ctx, query, nodeID, domain.NodeReserved, domain.NodeGrowing, domain.NodeHarvestableSize)
	if err != nil {
		return false, fmt.Errorf("failed to reserve node: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// StartWork moves a non-working node into the working state with a deadline
func (r *NodeRepository) StartWork(ctx context.Context, nodeID string, finishAt time.Time) (bool, error) {
	query := `
		UPDATE resource_nodes
		SET state = $2, progress_finish_at = $3
		WHERE node_id = $1 AND state <> $2
	`
	tag, err := r.db.Exec(ctx, query, nodeID, domain.NodeWorking, finishAt)
	if err != nil {
		return false, fmt.Errorf("failed to start work on node: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListCompleted returns working nodes whose deadline has passed
func (r *NodeRepository) ListCompleted(ctx context.Context, now time.Time) ([]domain.ResourceNode, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM resource_nodes
		WHERE state = $1 AND progress_finish_at <= $2`, nodeColumns)
	return r.queryNodes(ctx, query, domain.NodeWorking, now)
}

// CompleteAndReset atomically resets a due node back to growing. The state
// and deadline predicates keep a concurrent sweep from claiming it twice.
func (r *NodeRepository) CompleteAndReset(ctx context.Context, nodeID string, now time.Time, nextTier, nextYield int) (bool, error) {
	query := `
		UPDATE resource_nodes
		SET state = $2, size = 0, yield = $3, tier = $4, progress_finish_at = NULL
		WHERE node_id = $1 AND state = $5 AND progress_finish_at <= $6
	`
	tag, err := r.db.Exec(ctx, query, nodeID, domain.NodeGrowing, nextYield, nextTier, domain.NodeWorking, now)
	if err != nil {
		return false, fmt.Errorf("failed to reset node: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *NodeRepository) queryNodes(ctx context.Context, query string, args ...any) ([]domain.ResourceNode, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.ResourceNode
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *n)
	}
	return nodes, rows.Err()
}
