// Package postgres implements the item repository against PostgreSQL for
// deployments that prefer the relational store (STORE_DRIVER=postgres).
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/catalog/pkg/database"
	pkgevents "github.com/ghuser/catalog/pkg/events"
	catalogdomain "github.com/ghuser/catalog/services/catalog/domain"
	domainevents "github.com/ghuser/catalog/services/catalog/domain/events"
	"github.com/ghuser/catalog/services/catalog/domain/models"
)

// ItemRepository implements repositories.ItemRepository against PostgreSQL.
type ItemRepository struct {
	db  *database.Database
	bus *pkgevents.EventBus
}

// NewItemRepository returns an ItemRepository backed by the given connection
// pool and event bus. The bus is used to publish ItemCreatedEvent within the
// same transaction as the insert; it may be nil.
func NewItemRepository(db *database.Database, bus *pkgevents.EventBus) *ItemRepository {
	return &ItemRepository{db: db, bus: bus}
}

// ListAll retrieves every item, oldest first.
func (r *ItemRepository) ListAll(ctx context.Context) ([]*models.Item, error) {
	const query = `SELECT id, name, price, created_at FROM catalog_items ORDER BY created_at, id`

	rows, err := r.db.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.Item, 0)
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// GetByID retrieves an item by ID. Returns ErrItemNotFound if absent.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	const query = `SELECT id, name, price, created_at FROM catalog_items WHERE id = $1`

	var item models.Item
	err := r.db.DB().QueryRowContext(ctx, query, id).Scan(&item.ID, &item.Name, &item.Price, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("query item: %w", err)
	}
	return &item, nil
}

// Create persists a new item and publishes ItemCreatedEvent within the same
// transaction. Returns ErrItemAlreadyExists on unique constraint violations.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	const query = `INSERT INTO catalog_items (id, name, price, created_at) VALUES ($1, $2, $3, $4)`

	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, item.ID, item.Name, item.Price, item.CreatedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return catalogdomain.ErrItemAlreadyExists
			}
			return fmt.Errorf("insert item: %w", err)
		}

		if r.bus != nil {
			if err := r.publishCreated(tx, item); err != nil {
				return fmt.Errorf("publish item created: %w", err)
			}
		}
		return nil
	})
}

// Update replaces the stored row with the same ID.
// Returns ErrItemNotFound if no row matched.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	const query = `UPDATE catalog_items SET name = $2, price = $3 WHERE id = $1`

	result, err := r.db.DB().ExecContext(ctx, query, item.ID, item.Name, item.Price)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return catalogdomain.ErrItemNotFound
	}
	return nil
}

// Delete removes an item by ID. Returns ErrItemNotFound if no row matched.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM catalog_items WHERE id = $1`

	result, err := r.db.DB().ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return catalogdomain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) publishCreated(tx *sql.Tx, item *models.Item) error {
	event := domainevents.ItemCreatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     item.ID,
		Name:       item.Name,
		Price:      item.Price,
		OccurredAt: item.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", "1")
	p, err := r.bus.NewTxPublisher(tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	return p.Publish(domainevents.TopicItemCreated, msg)
}
