// AngelaMos | 2026
// context.go

package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/carterperez-dev/talentgrid/internal/app"
	"github.com/carterperez-dev/talentgrid/internal/config"
	"github.com/carterperez-dev/talentgrid/internal/core"
)

// commandContext loads config, the database and the domain services on
// first use so commands that need none of them stay cheap.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	dbOnce sync.Once
	db     *core.Database
	dbErr  error

	svcOnce sync.Once
	svcs    *app.Services
	svcErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := "config.yaml"
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) database(ctx context.Context) (*core.Database, error) {
	c.dbOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.dbErr = err
			return
		}
		c.db, c.dbErr = core.NewDatabase(ctx, cfg.Database)
	})
	return c.db, c.dbErr
}

func (c *commandContext) services(ctx context.Context) (*app.Services, error) {
	c.svcOnce.Do(func() {
		db, err := c.database(ctx)
		if err != nil {
			c.svcErr = err
			return
		}
		c.svcs, c.svcErr = app.NewServices(ctx, c.config, db, nil, c.logger())
	})
	return c.svcs, c.svcErr
}

func (c *commandContext) logger() *slog.Logger {
	if c.config == nil {
		return slog.Default()
	}
	return app.NewLogger(c.config.Log)
}

func (c *commandContext) close() {
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			slog.Warn("database close error", "error", err)
		}
	}
}
