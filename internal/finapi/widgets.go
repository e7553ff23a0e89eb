package finapi

import (
	"context"
	"net/url"

	"github.com/odyssey-erp/execboard/internal/period"
)

// WidgetRequest scopes an AR or AP widget fetch.
type WidgetRequest struct {
	EntityIDs string
	Mode      period.Mode
	Compare   period.Compare
	From      string
	To        string
	ReportCcy string
}

// NewWidgetRequest derives a request from a resolved period window.
func NewWidgetRequest(entityIDs string, window period.Window, reportCcy string) WidgetRequest {
	return WidgetRequest{
		EntityIDs: entityIDs,
		Mode:      window.Mode,
		Compare:   window.Compare,
		From:      window.From,
		To:        window.To,
		ReportCcy: reportCcy,
	}
}

func (r WidgetRequest) params() url.Values {
	params := url.Values{}
	params.Set("entityIds", r.EntityIDs)
	params.Set("mode", string(r.Mode))
	params.Set("compare", string(r.Compare))
	if r.From != "" {
		params.Set("from", r.From)
	}
	if r.To != "" {
		params.Set("to", r.To)
	}
	if r.ReportCcy != "" {
		params.Set("reportCcy", r.ReportCcy)
	}
	return params
}

var (
	arWidgetResource = resource[ARWidgetResponse]{
		name:    "ar-widget",
		path:    "/ar-widget",
		failure: "Unable to load Accounts Receivable widget",
		mock:    MockARWidget,
	}
	apWidgetResource = resource[APWidgetResponse]{
		name:    "ap-widget",
		path:    "/ap-widget",
		failure: "Unable to load Accounts Payable widget",
		mock:    MockAPWidget,
	}
)

// FetchARWidget loads the receivables widget.
func (c *Client) FetchARWidget(ctx context.Context, req WidgetRequest) (ARWidgetResponse, error) {
	return fetchResource(ctx, c, arWidgetResource, req.params(), identity[ARWidgetResponse])
}

// FetchAPWidget loads the payables widget.
func (c *Client) FetchAPWidget(ctx context.Context, req WidgetRequest) (APWidgetResponse, error) {
	return fetchResource(ctx, c, apWidgetResource, req.params(), identity[APWidgetResponse])
}

func identity[T any](v T) T { return v }
