package finapi

import (
	"context"
	"net/url"
	"strconv"
)

var (
	boardOverviewResource = resource[BoardOverviewResponse]{
		name:    "board-overview",
		path:    "/board-overview",
		failure: "Unable to load board overview",
		mock:    MockBoardOverview,
	}
	headlinesResource = resource[HeadlinesResponse]{
		name:    "headlines",
		path:    "/signals/headlines",
		failure: "Unable to load signal headlines",
		mock:    MockHeadlines,
	}
)

// FetchBoardOverview loads the multi-domain board summary. asOf and reportCcy
// are optional.
func (c *Client) FetchBoardOverview(ctx context.Context, entityIDs, asOf, reportCcy string) (BoardOverviewResponse, error) {
	params := url.Values{}
	params.Set("entityIds", entityIDs)
	if asOf != "" {
		params.Set("asOf", asOf)
	}
	if reportCcy != "" {
		params.Set("reportCcy", reportCcy)
	}
	return fetchResource(ctx, c, boardOverviewResource, params, identity[BoardOverviewResponse])
}

// FetchHeadlines loads the narrative signals of a tenant, scoped to one entity
// when entityID is positive.
func (c *Client) FetchHeadlines(ctx context.Context, tenant string, entityID int64) (HeadlinesResponse, error) {
	params := url.Values{}
	params.Set("tenant", tenant)
	if entityID > 0 {
		params.Set("entityId", strconv.FormatInt(entityID, 10))
	}
	return fetchResource(ctx, c, headlinesResource, params, identity[HeadlinesResponse])
}
