// Package settings reads and writes room tunables kept in the runtime_config
// table and applies them over the environment configuration at startup.
package settings

import (
	"fmt"
	"log"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/playpong/backend/internal/config"
	"github.com/playpong/backend/internal/models"
)

// GetAll returns all runtime config entries
func GetAll(db *sqlx.DB) ([]models.RuntimeConfig, error) {
	var configs []models.RuntimeConfig
	err := db.Select(&configs, `
		SELECT key, value, value_type, description, updated_by, updated_at
		FROM runtime_config
		ORDER BY key
	`)
	return configs, err
}

// Get returns a single runtime config entry
func Get(db *sqlx.DB, key string) (*models.RuntimeConfig, error) {
	var cfg models.RuntimeConfig
	err := db.Get(&cfg, `SELECT key, value, value_type, description, updated_by, updated_at FROM runtime_config WHERE key=$1`, key)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidateValue checks value against the declared value type.
func ValidateValue(valueType, value string) error {
	switch valueType {
	case "int":
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid integer value: %s", value)
		}
	case "float":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("invalid float value: %s", value)
		}
	case "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid boolean value: %s (must be 'true' or 'false')", value)
		}
	}
	return nil
}

// Update changes a single runtime config value
func Update(db *sqlx.DB, key, value, updatedBy string) error {
	existing, err := Get(db, key)
	if err != nil {
		return fmt.Errorf("config key not found: %s", key)
	}

	if err := ValidateValue(existing.ValueType, value); err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE runtime_config SET value=$1, updated_by=$2, updated_at=NOW() WHERE key=$3
	`, value, updatedBy, key)
	return err
}

// ApplyToConfig loads runtime config from DB and applies overrides to cfg.
func ApplyToConfig(db *sqlx.DB, cfg *config.Config) error {
	configs, err := GetAll(db)
	if err != nil {
		return fmt.Errorf("load runtime config: %w", err)
	}

	n := Apply(configs, cfg)
	log.Printf("[CONFIG] Applied %d runtime config overrides from database", n)
	return nil
}

// Apply overrides cfg with the given entries and returns how many were
// applied. Empty or malformed values are skipped.
func Apply(configs []models.RuntimeConfig, cfg *config.Config) int {
	applied := 0
	for _, c := range configs {
		if c.Value == "" {
			continue
		}
		ok := true
		switch c.Key {
		case "admin_name":
			cfg.AdminName = c.Value
		case "tick_rate":
			ok = setInt(c.Value, &cfg.TickRate)
		case "bot_rate":
			ok = setInt(c.Value, &cfg.BotRate)
		case "wind_enabled":
			var b bool
			b, ok = parseBool(c.Value)
			if ok {
				cfg.WindEnabled = b
			}
		case "wind_magnitude":
			ok = setFloat(c.Value, &cfg.WindMagnitude)
		case "wind_flip_chance":
			ok = setFloat(c.Value, &cfg.WindFlipChance)
		case "max_wind_velocity":
			ok = setFloat(c.Value, &cfg.MaxWindVelocity)
		default:
			log.Printf("[CONFIG] Unknown runtime config key %q", c.Key)
			continue
		}
		if !ok {
			log.Printf("[CONFIG] Skipping malformed runtime config %s=%q", c.Key, c.Value)
			continue
		}
		applied++
	}
	return applied
}

func setInt(value string, dst *int) bool {
	v, err := strconv.Atoi(value)
	if err != nil || v <= 0 {
		return false
	}
	*dst = v
	return true
}

func setFloat(value string, dst *float64) bool {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || v < 0 {
		return false
	}
	*dst = v
	return true
}

func parseBool(value string) (bool, bool) {
	switch value {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}
