package db

import (
	"context"
	"fmt"
	"time"

	"github.com/anupam1005/SmartFarmAI/pkg/metrics"
)

const listUsersSQL = `SELECT * FROM users`

// ListUsers returns every row of the users table in database order.
func ListUsers(ctx context.Context, q Querier) ([]Row, error) {
	start := time.Now()
	rows, err := q.Query(ctx, listUsersSQL)
	metrics.RecordDBQuery("list_users", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return rows, nil
}
