// Package api defines the wire messages of the settleup RPC services.
//
// Messages are plain Go structs encoded as JSON. Amounts are decimal strings
// ("30.00") so no precision is lost in transit.
package api

import (
	"encoding/json"
	"fmt"
)

// JSONCodec is a connect.Codec that encodes messages with encoding/json.
// It registers under the "json" name, so Connect clients and handlers speak
// application/json.
type JSONCodec struct{}

// Name implements connect.Codec.
func (JSONCodec) Name() string { return "json" }

// Marshal implements connect.Codec.
func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec.
func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}
