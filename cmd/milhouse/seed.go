package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"milhouse/internal/client"
	domainproperties "milhouse/internal/domain/properties"
)

type counter interface {
	Count(ctx context.Context) (int64, error)
}

// seed imports a JSON export of the properties collection when the store is
// empty. Documents missing title, type or sale type are logged and skipped;
// the per-type listing rules only apply to admin edits.
func (a *application) seed(ctx context.Context, path string, logger *slog.Logger) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	empty, err := a.storeIsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		logger.Info("property store not empty, seed skipped", "path", path)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("seed file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read seed: %w", err)
	}
	items, err := client.DecodeProperties(data, logger)
	if err != nil {
		return fmt.Errorf("decode seed: %w", err)
	}

	now := time.Now()
	imported := 0
	for _, p := range items {
		if !domainproperties.IsObjectIDHex(string(p.ID)) {
			p.ID = domainproperties.PropertyID(primitive.NewObjectID().Hex())
		}
		if err := p.CheckRequired(); err != nil {
			logger.Warn("seed property invalid", "property_id", p.ID, "title", p.Title, "error", err)
			continue
		}
		if p.CreatedAt.IsZero() {
			p.MarkCreated(now)
		}
		p.ClearEvents()
		if err := a.repo.Create(ctx, &p); err != nil {
			logger.Error("cannot store seed property", "property_id", p.ID, "error", err)
			continue
		}
		imported++
	}
	a.snapshot.Invalidate()
	logger.Info("seed imported", "path", path, "imported", imported, "total", len(items))
	return nil
}

func (a *application) storeIsEmpty(ctx context.Context) (bool, error) {
	if c, ok := a.repo.(counter); ok {
		n, err := c.Count(ctx)
		return n == 0, err
	}
	all, err := a.repo.List(ctx)
	return len(all) == 0, err
}
