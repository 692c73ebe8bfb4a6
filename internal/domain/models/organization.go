package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Organization is the top-level tenant. It exclusively owns Schools;
// School membership is exclusively by link row, never shared ownership.
type Organization struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DisplayName string    `gorm:"type:varchar(255);not null" json:"display_name"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	Settings    string    `gorm:"type:jsonb;default:'{}'" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Schools []School `gorm:"foreignKey:OrganizationID" json:"schools,omitempty"`
}

// TableName specifies the table name for Organization.
func (Organization) TableName() string {
	return "organizations"
}

// Validate validates the organization data.
func (o *Organization) Validate() error {
	if strings.TrimSpace(o.DisplayName) == "" {
		return errors.New("display_name is required")
	}
	return nil
}

// Domain returns the organization's authorization domain string, e.g. "org-7".
func (o *Organization) Domain() string {
	return fmt.Sprintf("org-%d", o.ID)
}

// Deactivate soft-deletes the organization. Callers (internal/orggraph)
// are responsible for cascading to owned schools and membership rows
// inside the same transaction.
func (o *Organization) Deactivate() {
	o.IsActive = false
}

// Activate re-activates the organization.
func (o *Organization) Activate() {
	o.IsActive = true
}

// SettingsMap decodes the settings column into a map. An empty or
// malformed column decodes to an empty map rather than an error, since
// settings are advisory, never required for authorization decisions.
func (o *Organization) SettingsMap() map[string]interface{} {
	settings := map[string]interface{}{}
	if strings.TrimSpace(o.Settings) == "" {
		return settings
	}
	if err := json.Unmarshal([]byte(o.Settings), &settings); err != nil {
		return map[string]interface{}{}
	}
	return settings
}

// SetSettingsMap replaces the settings column with the JSON encoding of m.
func (o *Organization) SetSettingsMap(m map[string]interface{}) error {
	encoded, err := json.Marshal(m)
	if err != nil {
		return err
	}
	o.Settings = string(encoded)
	return nil
}
