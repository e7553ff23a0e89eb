package tenants

// Entity is a legal entity listed under a tenant in the directory.
type Entity struct {
	Name         string `json:"name"`
	EntityID     int64  `json:"entity_id"`
	CountryCode  string `json:"country_code"`
	BaseCurrency string `json:"base_currency"`
}

// DirectoryEntry is one tenant of the tenant directory with its entities.
type DirectoryEntry struct {
	TenantID   int64    `json:"tenant_id"`
	TenantName string   `json:"tenant_name"`
	Entities   []Entity `json:"entities"`
}

// Summary identifies the active tenant.
type Summary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
