// Package mongodb implements the item repository against MongoDB, the
// service's document store. Items live in the "items" collection keyed by
// the item's UUID in string form.
package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	pkgevents "github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/logger"
	catalogdomain "github.com/ghuser/catalog/services/catalog/domain"
	domainevents "github.com/ghuser/catalog/services/catalog/domain/events"
	"github.com/ghuser/catalog/services/catalog/domain/models"
)

const itemCollectionName = "items"

// itemDocument is the persisted shape of an Item.
type itemDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Price     float64   `bson:"price"`
	CreatedAt time.Time `bson:"created_at"`
}

// ItemRepository implements repositories.ItemRepository against MongoDB.
type ItemRepository struct {
	collection *mongo.Collection
	bus        *pkgevents.EventBus
	log        logger.Logger
}

// NewItemRepository returns an ItemRepository backed by the given database.
// bus may be nil; when set, an ItemCreatedEvent is published after each
// successful insert. Publishing is best-effort — MongoDB has no shared
// transaction with the bus, so a publish failure is logged, not returned.
func NewItemRepository(db *mongo.Database, bus *pkgevents.EventBus, log logger.Logger) *ItemRepository {
	return &ItemRepository{
		collection: db.Collection(itemCollectionName),
		bus:        bus,
		log:        log,
	}
}

// ListAll retrieves every item, oldest first.
func (r *ItemRepository) ListAll(ctx context.Context) ([]*models.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []itemDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	items := make([]*models.Item, 0, len(docs))
	for _, doc := range docs {
		item, err := docToItem(doc)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// GetByID retrieves an item by ID. Returns ErrItemNotFound if absent.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var doc itemDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogdomain.ErrItemNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	return docToItem(doc)
}

// Create inserts a new item and publishes ItemCreatedEvent.
// Returns ErrItemAlreadyExists on a duplicate key.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	_, err := r.collection.InsertOne(ctx, itemToDoc(item))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return catalogdomain.ErrItemAlreadyExists
		}
		return fmt.Errorf("insert item: %w", err)
	}

	r.publishCreated(ctx, item)
	return nil
}

// Update replaces the stored document with the same ID.
// Returns ErrItemNotFound if no document matched.
func (r *ItemRepository) Update(ctx context.Context, item *models.Item) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": item.ID.String()}, itemToDoc(item))
	if err != nil {
		return fmt.Errorf("replace item: %w", err)
	}
	if result.MatchedCount == 0 {
		return catalogdomain.ErrItemNotFound
	}
	return nil
}

// Delete removes an item by ID. Returns ErrItemNotFound if no document matched.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if result.DeletedCount == 0 {
		return catalogdomain.ErrItemNotFound
	}
	return nil
}

func (r *ItemRepository) publishCreated(ctx context.Context, item *models.Item) {
	if r.bus == nil {
		return
	}
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
		r.log.ErrorContext(ctx, "marshal item.created failed", "item_id", item.ID, "error", err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", "1")
	if err := r.bus.Publish(ctx, domainevents.TopicItemCreated, msg); err != nil {
		r.log.WarnContext(ctx, "publish item.created failed", "item_id", item.ID, "error", err)
	}
}

func itemToDoc(item *models.Item) itemDocument {
	return itemDocument{
		ID:        item.ID.String(),
		Name:      item.Name,
		Price:     item.Price,
		CreatedAt: item.CreatedAt.UTC(),
	}
}

func docToItem(doc itemDocument) (*models.Item, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse item id %q: %w", doc.ID, err)
	}
	return &models.Item{
		ID:        id,
		Name:      doc.Name,
		Price:     doc.Price,
		CreatedAt: doc.CreatedAt,
	}, nil
}
