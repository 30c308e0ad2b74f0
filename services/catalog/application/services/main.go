package services

import (
	"github.com/ghuser/catalog/pkg/app"
	"github.com/ghuser/catalog/pkg/cache"
	"github.com/ghuser/catalog/services/catalog/domain/repositories"
	"github.com/ghuser/catalog/services/catalog/infrastructure/persistence/mongodb"
	"github.com/ghuser/catalog/services/catalog/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item *ItemService
}

// New wires the item application service with infrastructure from the
// Application container. The connected store decides which repository
// implementation backs it: Mongo when a.Mongo is set, Postgres otherwise.
func New(a *app.Application) *Services {
	var repo repositories.ItemRepository
	if a.Mongo != nil {
		repo = mongodb.NewItemRepository(a.Mongo.Database(), a.EventBus, a.Logger)
	} else {
		repo = postgres.NewItemRepository(a.Db, a.EventBus)
	}

	itemCache := cache.NewItemCache(a.Redis)
	return &Services{
		Item: NewItemService(repo, itemCache, a.EventBus, a.Logger),
	}
}
