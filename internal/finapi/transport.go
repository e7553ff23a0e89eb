package finapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/odyssey-erp/execboard/internal/correlation"
)

// TenantHeader carries the active tenant id on upstream requests.
const TenantHeader = "X-Tenant-Id"

type tenantContextKey struct{}

// WithTenant stores the active tenant id for outgoing requests.
func WithTenant(ctx context.Context, tenantID int64) context.Context {
	if tenantID <= 0 {
		return ctx
	}
	return context.WithValue(ctx, tenantContextKey{}, strconv.FormatInt(tenantID, 10))
}

// TenantFromContext returns the tenant id stored by WithTenant.
func TenantFromContext(ctx context.Context) string {
	id, _ := ctx.Value(tenantContextKey{}).(string)
	return id
}

// headerTransport injects the tenant and correlation headers when the request
// does not already carry them.
type headerTransport struct {
	base            http.RoundTripper
	defaultTenantID string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	tenantID := ""
	if req.Header.Get(TenantHeader) == "" {
		tenantID = TenantFromContext(ctx)
		if tenantID == "" {
			tenantID = t.defaultTenantID
		}
	}
	correlationID := ""
	if req.Header.Get(correlation.HeaderName) == "" {
		correlationID = correlation.GetID(ctx)
	}
	if tenantID == "" && correlationID == "" {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(ctx)
	if tenantID != "" {
		clone.Header.Set(TenantHeader, tenantID)
	}
	if correlationID != "" {
		clone.Header.Set(correlation.HeaderName, correlationID)
	}
	return t.base.RoundTrip(clone)
}
