package storage

import (
	"encoding/json"
	"fmt"

	"github.com/petpractice/vet-scheduler/internal/store"
)

// StateKey is the fixed application key the whole state document lives
// under, regardless of backend.
const StateKey = "petpractice:state"

func encodeState(state store.AppState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state document: %w", err)
	}
	return data, nil
}

func decodeState(data []byte) (*store.AppState, error) {
	var state store.AppState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode state document: %w", err)
	}
	return &state, nil
}
