package di

import (
	"signin/internal/models"
	"signin/internal/providers"
	"signin/internal/services"
	"signin/internal/storage/interfaces"
	"signin/internal/structures"
)

// Core is the dependency graph without the HTTP server, used by CLI commands.
type Core struct {
	Conf     *structures.Config
	Logger   providers.Logger
	Store    interfaces.KeyValueStore
	Service  *services.SignInService
	Profiles *models.ProfileStore
}

func (c *Core) Close() {
	if err := c.Store.Close(); err != nil {
		c.Logger.Errorf(providers.TypeApp, "Closing store: %v", err)
	}
	c.Logger.Close()
}
