// Package dashboard folds analytics payloads into the section view model and
// owns the shared filter state that drives every fetch.
package dashboard

import (
	"time"

	"github.com/odyssey-erp/execboard/internal/format"
)

// HealthStatus is the canonical section health.
type HealthStatus string

const (
	StatusHealthy  HealthStatus = "healthy"
	StatusWarning  HealthStatus = "warning"
	StatusCritical HealthStatus = "critical"
)

// Trend is the direction of a KPI change.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// Display values shared by every section.
const (
	ValuePlaceholder = format.Placeholder
	ValueLoading     = format.Loading
)

// KPI is one rendered indicator of a section.
type KPI struct {
	Label  string       `json:"label"`
	Value  string       `json:"value"`
	Change *float64     `json:"change,omitempty"`
	Trend  Trend        `json:"trend,omitempty"`
	Status HealthStatus `json:"status,omitempty"`
}

// SectionConfig is a rendered dashboard section. Sections are rebuilt from a
// base template on every change and never mutated in place.
type SectionConfig struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Icon          Icon         `json:"icon"`
	Status        HealthStatus `json:"status"`
	HideStatus    bool         `json:"hideStatus,omitempty"`
	KPIs          []KPI        `json:"kpis"`
	SparklineData []float64    `json:"sparklineData,omitempty"`
	Source        string       `json:"source,omitempty"`
	StatusReason  string       `json:"statusReason,omitempty"`
}

// Clone returns a deep copy of the section.
func (s SectionConfig) Clone() SectionConfig {
	out := s
	if s.KPIs != nil {
		out.KPIs = make([]KPI, len(s.KPIs))
		for i, kpi := range s.KPIs {
			if kpi.Change != nil {
				change := *kpi.Change
				kpi.Change = &change
			}
			out.KPIs[i] = kpi
		}
	}
	if s.SparklineData != nil {
		out.SparklineData = append([]float64(nil), s.SparklineData...)
	}
	return out
}

// EntityType classifies an entity option.
type EntityType string

const (
	EntitySubsidiary   EntityType = "subsidiary"
	EntityDivision     EntityType = "division"
	EntityConsolidated EntityType = "consolidated"
)

// Entity is a selectable entity of the active tenant.
type Entity struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Type              EntityType `json:"type"`
	DirectoryEntityID int64      `json:"directoryEntityId,omitempty"`
	TenantID          int64      `json:"tenantId,omitempty"`
	CountryCode       string     `json:"countryCode,omitempty"`
	BaseCurrency      string     `json:"baseCurrency,omitempty"`
}

// Severity ranks alerts.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Alert is a notification attached to a section.
type Alert struct {
	ID          string    `json:"id"`
	Severity    Severity  `json:"severity"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Section     string    `json:"section"`
	Timestamp   time.Time `json:"timestamp"`
	IsRead      bool      `json:"isRead"`
}
