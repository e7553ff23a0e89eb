package finapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"

	"github.com/odyssey-erp/execboard/internal/tenants"
)

// directoryPayload accepts either a bare array or a {"data": [...]} envelope.
type directoryPayload []tenants.DirectoryEntry

func (p *directoryPayload) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []tenants.DirectoryEntry
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
		*p = entries
		return nil
	}
	var envelope struct {
		Data []tenants.DirectoryEntry `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	*p = envelope.Data
	return nil
}

var tenantDirectoryResource = resource[[]tenants.DirectoryEntry]{
	name:    "tenant-directory",
	path:    "/tenant-directory",
	failure: "Unable to load tenant directory",
	mock:    MockTenantDirectory,
}

// FetchTenantDirectory loads the tenants visible to the configured default
// tenant. Without a default tenant name the mock directory is served.
func (c *Client) FetchTenantDirectory(ctx context.Context) ([]tenants.DirectoryEntry, error) {
	if c.Configured() && c.tenant == "" {
		c.logger.Warn("finapi: default tenant not configured, serving mock directory")
		c.observeFallback(tenantDirectoryResource.name, FallbackMock)
		return MockTenantDirectory(), nil
	}
	params := url.Values{}
	params.Set("tenant", c.tenant)
	return fetchResource(ctx, c, tenantDirectoryResource, params, func(p directoryPayload) []tenants.DirectoryEntry {
		if p == nil {
			return []tenants.DirectoryEntry{}
		}
		return []tenants.DirectoryEntry(p)
	})
}
