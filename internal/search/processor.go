package search

import (
	"github.com/hyperjump/kondate/internal/config"
	"github.com/hyperjump/kondate/internal/models"
)

// ProcessQuery validates the query and applies the configured limits.
func ProcessQuery(query *models.SearchQuery, cfg *config.SearchConfig) error {
	if query.Limit <= 0 && cfg != nil {
		query.Limit = cfg.DefaultLimit
	}
	if err := query.Validate(); err != nil {
		return err
	}
	if cfg != nil && cfg.MaxLimit > 0 && query.Limit > cfg.MaxLimit {
		query.Limit = cfg.MaxLimit
	}
	return nil
}
