package publishers

import (
	"encoding/json"
	"fmt"
)

// encodeEvent returns the JSON payload and the routing attributes shared by
// every queue sender.
func encodeEvent(evt Event) ([]byte, map[string]string, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal event: %w", err)
	}
	attrs := map[string]string{
		"provider_id": evt.ProviderID,
		"event_type":  evt.Type,
	}
	if evt.Summary.ID != "" {
		attrs["record_id"] = evt.Summary.ID
	}
	return payload, attrs, nil
}
