package api

import (
	"context"
	"encoding/json"
	"strings"
)

// Fetcher defines the read side of the game API. Section is the API section
// ("user", "market", ...), selections the requested field names, id an
// optional entity id for non-self lookups.
type Fetcher interface {
	Fetch(ctx context.Context, section string, selections []string, id string) (map[string]json.RawMessage, error)
}

// MockFetcher returns scripted responses for development and testing.
// Responses and Errors are keyed by the first selection of the request
// ("profile" for the batched status fetch, "crimes", "gyms", "inventory",
// "education" for the detail fetches).
type MockFetcher struct {
	Responses map[string]map[string]json.RawMessage
	Errors    map[string]error
	Calls     []string
}

func (m *MockFetcher) Fetch(_ context.Context, _ string, selections []string, _ string) (map[string]json.RawMessage, error) {
	key := ""
	if len(selections) > 0 {
		key = selections[0]
	}
	m.Calls = append(m.Calls, strings.Join(selections, ","))
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if resp, ok := m.Responses[key]; ok {
		return resp, nil
	}
	return map[string]json.RawMessage{}, nil
}

// Raw is a test helper for building response fields from JSON literals.
func Raw(fields map[string]string) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		out[k] = json.RawMessage(v)
	}
	return out
}
