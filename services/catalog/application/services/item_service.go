package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	pkgcache "github.com/ghuser/catalog/pkg/cache"
	pkgevents "github.com/ghuser/catalog/pkg/events"
	"github.com/ghuser/catalog/pkg/logger"
	domainevents "github.com/ghuser/catalog/services/catalog/domain/events"
	"github.com/ghuser/catalog/services/catalog/domain/models"
	"github.com/ghuser/catalog/services/catalog/domain/repositories"
)

// ItemService is the stateless core of the catalog API. Every operation maps
// onto a single repository call, with an existence check before mutations.
// The item.created event is published by the repository layer; updated and
// deleted events are published here. Reads are served from Redis cache when
// available.
//
// Cache and bus side effects are best-effort: their failures never change a
// request's outcome.
type ItemService struct {
	repo  repositories.ItemRepository
	cache *pkgcache.ItemCache
	bus   *pkgevents.EventBus
	log   logger.Logger
}

// NewItemService returns an ItemService wired with the given collaborators.
// cache and bus may be nil; the corresponding side effects are then skipped.
func NewItemService(repo repositories.ItemRepository, itemCache *pkgcache.ItemCache, bus *pkgevents.EventBus, log logger.Logger) *ItemService {
	return &ItemService{repo: repo, cache: itemCache, bus: bus, log: log}
}

// List returns every stored item and logs the count returned.
func (s *ItemService) List(ctx context.Context) ([]*models.Item, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	s.log.InfoContext(ctx, "retrieved items", "count", len(items))

	return items, nil
}

// GetByID retrieves an Item using a read-through cache pattern:
//  1. Check Redis cache first.
//  2. On cache miss (or cache error), query the store.
//  3. Asynchronously warm the cache with the store result.
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, id); err == nil {
			return &models.Item{
				ID:        cached.ID,
				Name:      cached.Name,
				Price:     cached.Price,
				CreatedAt: cached.CreatedAt,
			}, nil
		} else if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "item cache read failed", "item_id", id, "error", err)
		}
	}

	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if s.cache != nil {
		go func() {
			_ = s.cache.Set(context.Background(), &pkgcache.CachedItem{
				ID:        item.ID,
				Name:      item.Name,
				Price:     item.Price,
				CreatedAt: item.CreatedAt,
			})
		}()
	}

	return item, nil
}

// Create builds a new Item with a fresh ID and current UTC timestamp, copies
// name and price from the input, and persists it. Repeated identical creates
// produce distinct items. The repository publishes ItemCreatedEvent.
func (s *ItemService) Create(ctx context.Context, name string, price float64) (*models.Item, error) {
	item := models.NewItem(name, price)

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	return item, nil
}

// Update replaces the name and price of an existing item, carrying forward
// its ID and creation timestamp. Returns ErrItemNotFound if no item with the
// given ID exists.
//
// The existence check and the update are two separate repository calls; a
// concurrent delete between them surfaces as a repository error, not as a
// partial write.
func (s *ItemService) Update(ctx context.Context, id uuid.UUID, name string, price float64) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	updated := existing.WithDetails(name, price)
	if err := s.repo.Update(ctx, updated); err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	s.invalidateCache(ctx, id)
	s.publishUpdated(ctx, updated)
	return nil
}

// Delete removes an item by ID. Returns ErrItemNotFound if no item with the
// given ID exists. Deletion is permanent; there is no soft delete.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.invalidateCache(ctx, id)
	s.publishDeleted(ctx, id)
	return nil
}

func (s *ItemService) invalidateCache(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(context.WithoutCancel(ctx), id); err != nil {
		s.log.WarnContext(ctx, "item cache invalidation failed", "item_id", id, "error", err)
	}
}

func (s *ItemService) publishUpdated(ctx context.Context, item *models.Item) {
	s.publish(ctx, domainevents.TopicItemUpdated, domainevents.ItemUpdatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     item.ID,
		Name:       item.Name,
		Price:      item.Price,
		CreatedAt:  item.CreatedAt,
		OccurredAt: time.Now().UTC(),
	})
}

func (s *ItemService) publishDeleted(ctx context.Context, id uuid.UUID) {
	s.publish(ctx, domainevents.TopicItemDeleted, domainevents.ItemDeletedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ItemID:     id,
		OccurredAt: time.Now().UTC(),
	})
}

func (s *ItemService) publish(ctx context.Context, topic string, event any) {
	if s.bus == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.ErrorContext(ctx, "marshal event failed", "topic", topic, "error", err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_version", "1")
	if err := s.bus.Publish(ctx, topic, msg); err != nil {
		s.log.WarnContext(ctx, "publish event failed", "topic", topic, "error", err)
	}
}
