package settings

import (
	"testing"

	"github.com/playpong/backend/internal/config"
	"github.com/playpong/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestApplyOverridesRoomTunables(t *testing.T) {
	cfg := &config.Config{AdminName: "env-admin", TickRate: 60, BotRate: 30, WindMagnitude: 0.05}

	n := Apply([]models.RuntimeConfig{
		{Key: "admin_name", Value: "Xander"},
		{Key: "tick_rate", Value: "120"},
		{Key: "wind_enabled", Value: "true"},
		{Key: "wind_magnitude", Value: "0.1"},
		{Key: "max_wind_velocity", Value: "0"},
	}, cfg)

	assert.Equal(t, 5, n)
	assert.Equal(t, "Xander", cfg.AdminName)
	assert.Equal(t, 120, cfg.TickRate)
	assert.Equal(t, 30, cfg.BotRate)
	assert.True(t, cfg.WindEnabled)
	assert.Equal(t, 0.1, cfg.WindMagnitude)
	assert.Equal(t, 0.0, cfg.MaxWindVelocity)
}

func TestApplySkipsEmptyMalformedAndUnknown(t *testing.T) {
	cfg := &config.Config{AdminName: "env-admin", TickRate: 60, WindFlipChance: 0.2}

	n := Apply([]models.RuntimeConfig{
		{Key: "admin_name", Value: ""},
		{Key: "tick_rate", Value: "-5"},
		{Key: "wind_flip_chance", Value: "often"},
		{Key: "wind_enabled", Value: "yes"},
		{Key: "paddle_color", Value: "red"},
	}, cfg)

	assert.Equal(t, 0, n)
	assert.Equal(t, "env-admin", cfg.AdminName)
	assert.Equal(t, 60, cfg.TickRate)
	assert.Equal(t, 0.2, cfg.WindFlipChance)
	assert.False(t, cfg.WindEnabled)
}

func TestValidateValue(t *testing.T) {
	tests := []struct {
		valueType string
		value     string
		wantErr   bool
	}{
		{"int", "60", false},
		{"int", "6.5", true},
		{"float", "0.05", false},
		{"float", "windy", true},
		{"bool", "true", false},
		{"bool", "TRUE", true},
		{"string", "anything", false},
	}
	for _, tt := range tests {
		err := ValidateValue(tt.valueType, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateValue(%q, %q) error = %v, wantErr %v", tt.valueType, tt.value, err, tt.wantErr)
		}
	}
}
