package plan

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// StoredPlan is one persisted plan, kept as the raw JSON that was delivered
// to the user.
type StoredPlan struct {
	ID        int64
	UserID    string
	PlanData  []byte
	CreatedAt time.Time
}

// Repository is the database-backed history of generated plans.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository over an open connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save inserts a delivered plan into the history.
func (r *Repository) Save(ctx context.Context, userID string, planData []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO meal_plans (user_id, plan_data, created_at) VALUES (?, ?, ?)`,
		userID, planData, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save meal plan: %w", err)
	}
	return nil
}

// Get retrieves one stored plan by id.
func (r *Repository) Get(ctx context.Context, id int64) (*StoredPlan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan_data, created_at FROM meal_plans WHERE id = ?`, id)

	var p StoredPlan
	if err := row.Scan(&p.ID, &p.UserID, &p.PlanData, &p.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("meal plan %d not found", id)
		}
		return nil, fmt.Errorf("failed to load meal plan %d: %w", id, err)
	}
	return &p, nil
}

// ListRecentByUserID retrieves the N most recent plans for a user, newest
// first.
func (r *Repository) ListRecentByUserID(ctx context.Context, userID string, limit int) ([]StoredPlan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, plan_data, created_at
		 FROM meal_plans
		 WHERE user_id = ?
		 ORDER BY created_at DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent meal plans for user %s: %w", userID, err)
	}
	defer rows.Close()

	var plans []StoredPlan
	for rows.Next() {
		var p StoredPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.PlanData, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan meal plan row: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
