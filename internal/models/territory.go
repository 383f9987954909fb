package models

// TerritoryLevel identifies the administrative level of a gazetteer entry.
type TerritoryLevel string

const (
	LevelRegion    TerritoryLevel = "region"
	LevelComuna    TerritoryLevel = "comuna"
	LevelLocalidad TerritoryLevel = "localidad"
)

// Territory is one gazetteer entry. The catalog is read-mostly: it is edited
// by an external management surface and consumed read-only by the resolver,
// which builds its immutable index from the enabled entries at startup.
type Territory struct {
	ID       string `json:"id" badgerhold:"key"`
	TenantID string `json:"tenant_id" badgerhold:"index"`

	Name  string         `json:"name" badgerhold:"index"`
	Level TerritoryLevel `json:"level"`

	// ParentID points at the owning territory; empty for top-level units.
	// The catalog forms a tree rooted at the country's regions.
	ParentID string `json:"parent_id,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	Aliases []string `json:"aliases,omitempty"`
	Enabled bool     `json:"enabled"`
}
