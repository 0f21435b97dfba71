package repository

import (
	"encoding/json"
	"fmt"

	"franchise-league/internal/domain"
)

// SchemaVersion is written into every stored document.
const SchemaVersion = 2

type document struct {
	SchemaVersion int `json:"schemaVersion"`
	domain.GameState
}

func encodeState(gs domain.GameState) ([]byte, error) {
	data, err := json.Marshal(document{SchemaVersion: SchemaVersion, GameState: gs})
	if err != nil {
		return nil, fmt.Errorf("failed to encode league state: %w", err)
	}
	return data, nil
}

// decodeState reads a stored document, upgrading older layouts first.
func decodeState(data []byte) (domain.GameState, error) {
	var header struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return domain.GameState{}, fmt.Errorf("failed to read schema version: %w", err)
	}
	if header.SchemaVersion > SchemaVersion {
		return domain.GameState{}, fmt.Errorf("unsupported schema version %d", header.SchemaVersion)
	}
	if header.SchemaVersion < 2 {
		upgraded, err := upgradeV1(data)
		if err != nil {
			return domain.GameState{}, fmt.Errorf("failed to upgrade v1 document: %w", err)
		}
		data = upgraded
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.GameState{}, fmt.Errorf("failed to decode league state: %w", err)
	}
	return doc.GameState, nil
}

// upgradeV1 renames the old "season" phase and fills the bowling preset
// that v1 teams did not carry.
func upgradeV1(data []byte) ([]byte, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var phase string
	if p, ok := raw["phase"]; ok {
		if err := json.Unmarshal(p, &phase); err != nil {
			return nil, err
		}
	}
	if phase == "season" {
		raw["phase"] = mustJSON(domain.PhaseRegularSeason)
	}

	if t, ok := raw["teams"]; ok {
		var teams []map[string]json.RawMessage
		if err := json.Unmarshal(t, &teams); err != nil {
			return nil, err
		}
		for _, team := range teams {
			preset, ok := team["bowlingPreset"]
			if !ok || string(preset) == `""` || string(preset) == "null" {
				team["bowlingPreset"] = mustJSON(domain.PresetBalanced)
			}
		}
		raw["teams"] = mustJSON(teams)
	}

	raw["schemaVersion"] = mustJSON(SchemaVersion)
	return json.Marshal(raw)
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
