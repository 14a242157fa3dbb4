package client

import (
	"encoding/json"
	"fmt"
)

// envelope is the discriminated view of the three response shapes the API
// has been observed to produce: a raw payload, a {success, data} wrapper,
// or an error wrapper.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Detail  string          `json:"detail"`
	Error   string          `json:"error"`
}

// normalizeEnvelope unwraps a successful response body into its payload.
// The discrimination runs exactly once here, at the gateway boundary.
func normalizeEnvelope(raw []byte) (json.RawMessage, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// Not an object (e.g. a bare array); pass through untouched.
		return raw, nil
	}

	if env.Success != nil {
		if !*env.Success {
			detail := env.Detail
			if detail == "" {
				detail = env.Error
			}
			if detail == "" {
				detail = "request reported failure"
			}
			return nil, fmt.Errorf("client: %s", detail)
		}
		if env.Data != nil {
			return env.Data, nil
		}
	}
	return raw, nil
}
