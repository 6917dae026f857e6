package models

import "time"

// RuntimeConfig is one tunable stored in the runtime_config table.
type RuntimeConfig struct {
	Key         string    `db:"key" json:"key"`
	Value       string    `db:"value" json:"value"`
	ValueType   string    `db:"value_type" json:"value_type"`
	Description string    `db:"description" json:"description"`
	UpdatedBy   string    `db:"updated_by" json:"updated_by"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
