package models

import (
	"time"

	"github.com/google/uuid"
)

// View types surfaced by the listing service.
const (
	ViewTypeView          = "view"
	ViewTypeTable         = "table"
	ViewTypeAttachedTable = "attached_table"
)

// Datasource backing types.
const (
	DatasourceTypeNative  = "engine-native"
	DatasourceTypeForeign = "foreign-database"
)

// ViewRegistryRecord is the durable record of a previously imported view.
// Created on successful import of an external source; re-import of the same
// SharedLink resolves to the same ViewName rather than creating a duplicate.
type ViewRegistryRecord struct {
	ID                 uuid.UUID `json:"id"`
	ViewName           string    `json:"view_name"`
	DisplayName        string    `json:"display_name"`
	SharedLink         string    `json:"shared_link"`
	DatasourceProvider string    `json:"datasource_provider"`
	DatasourceType     string    `json:"datasource_type"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	LastUsedAt         time.Time `json:"last_used_at"`
}

// ViewMetadata carries registry metadata on a listed view.
type ViewMetadata struct {
	CreatedAt          *time.Time `json:"created_at,omitempty"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
	LastUsedAt         *time.Time `json:"last_used_at,omitempty"`
	DatasourceProvider string     `json:"datasource_provider,omitempty"`
	DatasourceType     string     `json:"datasource_type,omitempty"`
}

// ViewInfo is the ephemeral projection of a view combining registry data
// with live-catalog presence. Never persisted; recomputed on every uncached
// listing.
type ViewInfo struct {
	ViewName    string        `json:"view_name"`
	DisplayName string        `json:"display_name"`
	SharedLink  string        `json:"shared_link"`
	Type        string        `json:"type"`
	Metadata    *ViewMetadata `json:"metadata,omitempty"`
}

// DatasourceRef identifies a datasource attached to a conversation.
type DatasourceRef struct {
	ID       uuid.UUID `json:"id"`
	Provider string    `json:"provider"`
	Name     string    `json:"name"`
}
