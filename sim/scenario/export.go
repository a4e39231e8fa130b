package scenario

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Export serializes a scenario as indented JSON.
func (e *Engine) Export(id string) ([]byte, error) {
	s, ok := e.scenarios[id]
	if !ok {
		return nil, fmt.Errorf("scenario %s not found", id)
	}
	return json.MarshalIndent(s, "", "  ")
}

// Import registers a scenario from its JSON export. The imported copy gets a
// fresh ID and timestamp and is never a baseline.
func (e *Engine) Import(data []byte) (*Scenario, error) {
	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("import scenario: %w", err)
	}
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().Format(time.RFC3339)
	s.IsBaseline = false
	e.scenarios[s.ID] = &s
	e.order = append(e.order, s.ID)
	return &s, nil
}
