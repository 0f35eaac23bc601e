package trail

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Report is a point-in-time summary of a Manager, suitable for logging.
type Report struct {
	ID        uuid.UUID      `json:"id"`
	Depth     int            `json:"depth"`
	TrailLen  int            `json:"trail_len"`
	Clock     uint64         `json:"clock"`
	Resources map[string]int `json:"resources,omitempty"`
}

// Report summarises the manager state. Resource counts are keyed by kind
// name, with optional stores prefixed by "optional_".
func (m *Manager) Report() Report {
	report := Report{
		ID:       m.ID(),
		Depth:    m.snapshots.depth(),
		TrailLen: m.trail.length(),
		Clock:    m.clock,
	}
	for kind := Kind(0); kind < kindCount; kind++ {
		if store := m.values[kind]; store != nil && store.size() > 0 {
			report.resources()[kind.String()] = store.size()
		}
		if store := m.optionals[kind]; store != nil && store.size() > 0 {
			report.resources()["optional_"+kind.String()] = store.size()
		}
	}
	return report
}

func (r *Report) resources() map[string]int {
	if r.Resources == nil {
		r.Resources = map[string]int{}
	}
	return r.Resources
}

// ToJSON serialises the report.
func (r Report) ToJSON() ([]byte, error) {
	type alias Report
	return json.Marshal(alias(r))
}

// ReportFromJSON deserialises a payload produced by ToJSON.
func ReportFromJSON(payload []byte) (Report, error) {
	type alias Report
	var report alias
	if err := json.Unmarshal(payload, &report); err != nil {
		return Report{}, err
	}
	return Report(report), nil
}
