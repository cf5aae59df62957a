package store

import (
	"context"
	"fmt"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PricingStore struct {
	db *pgxpool.Pool
}

func NewPricingStore(db *pgxpool.Pool) *PricingStore {
	return &PricingStore{db: db}
}

// FindMatching returns catalog rows whose service name appears in the query
// text, most recently updated first. An empty result is not an error; the
// caller decides how to degrade.
func (s *PricingStore) FindMatching(ctx context.Context, queryText string, limit int) ([]domain.PricingItem, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, service, price, currency, notes, updated_at
		 FROM pricing_items
		 WHERE $1 ILIKE '%' || service || '%'
		 ORDER BY updated_at DESC
		 LIMIT $2`,
		queryText, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("pricing query: %w", err)
	}
	defer rows.Close()

	var items []domain.PricingItem
	for rows.Next() {
		var it domain.PricingItem
		if err := rows.Scan(&it.ID, &it.Service, &it.Price, &it.Currency, &it.Notes, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pricing row: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}
