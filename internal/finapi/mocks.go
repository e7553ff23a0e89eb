package finapi

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/odyssey-erp/execboard/internal/tenants"
)

//go:embed mocks/*.json
var mockFS embed.FS

// loadMock decodes an embedded fixture. Each call returns a fresh value so
// callers may mutate it freely.
func loadMock[T any](name string) T {
	var out T
	raw, err := mockFS.ReadFile("mocks/" + name)
	if err != nil {
		panic(fmt.Sprintf("finapi: mock %s: %v", name, err))
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(fmt.Sprintf("finapi: mock %s: %v", name, err))
	}
	return out
}

// MockARWidget returns the bundled AR widget payload.
func MockARWidget() ARWidgetResponse { return loadMock[ARWidgetResponse]("ar_widget.json") }

// MockAPWidget returns the bundled AP widget payload.
func MockAPWidget() APWidgetResponse { return loadMock[APWidgetResponse]("ap_widget.json") }

// MockCashOutlook returns the bundled 13-week outlook.
func MockCashOutlook() CashOutlookResponse {
	return loadMock[CashOutlookResponse]("cash_outlook.json")
}

// MockHeadlines returns the bundled signal headlines.
func MockHeadlines() HeadlinesResponse { return loadMock[HeadlinesResponse]("headlines.json") }

// MockBoardOverview returns the bundled board overview.
func MockBoardOverview() BoardOverviewResponse {
	return loadMock[BoardOverviewResponse]("board_overview.json")
}

// MockTenantDirectory returns the bundled tenant directory.
func MockTenantDirectory() []tenants.DirectoryEntry {
	return loadMock[[]tenants.DirectoryEntry]("tenant_directory.json")
}
