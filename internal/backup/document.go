// Package backup implements the backup document format, the restore merge
// policy and the debounced auto-backup scheduler.
package backup

import (
	"encoding/json"
	"fmt"

	"fittracker/server/internal/domain"
)

// ErrInvalidDocument is returned when a backup document fails structural
// validation. Import never partially applies an invalid document.
var ErrInvalidDocument = fmt.Errorf("invalid backup document")

// Document is the on-disk/cloud backup format: a single JSON object with
// workouts, clients and the coach profile. Dates serialize as ISO-8601.
type Document struct {
	Workouts     []domain.Workout     `json:"workouts"`
	Clients      []domain.Client      `json:"clients"`
	CoachProfile *domain.CoachProfile `json:"coachProfile,omitempty"`
}

// Encode renders the document as indented JSON, the format coaches download
// and the cloud blob stores.
func (d *Document) Encode() ([]byte, error) {
	if d.Workouts == nil {
		d.Workouts = []domain.Workout{}
	}
	if d.Clients == nil {
		d.Clients = []domain.Client{}
	}
	return json.MarshalIndent(d, "", "  ")
}

// ParseDocument validates and decodes a backup document. Each top-level
// key, if present, must have the expected container type; otherwise the
// whole document is rejected (validate-then-apply).
func ParseDocument(data []byte) (*Document, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: not a JSON object: %v", ErrInvalidDocument, err)
	}

	if err := expectContainer(raw, "workouts", '['); err != nil {
		return nil, err
	}
	if err := expectContainer(raw, "clients", '['); err != nil {
		return nil, err
	}
	if err := expectContainer(raw, "coachProfile", '{'); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// expectContainer checks that the key, when present and non-null, is a
// container of the expected kind ('[' or '{').
func expectContainer(raw map[string]json.RawMessage, key string, kind byte) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	for _, b := range v {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		if b == 'n' { // null, treated as absent
			return nil
		}
		if b != kind {
			return fmt.Errorf("%w: %q must be a %s", ErrInvalidDocument, key, kindName(kind))
		}
		return nil
	}
	return fmt.Errorf("%w: %q is empty", ErrInvalidDocument, key)
}

func kindName(kind byte) string {
	if kind == '[' {
		return "JSON array"
	}
	return "JSON object"
}

// Merge combines a cloud document into the local one with a last-write-wins
// policy per record: a remote record replaces the local one when its
// timestamp is newer; records missing locally are appended. Local record
// order is preserved, new remote records keep their remote order.
func Merge(local, remote Document) Document {
	out := Document{
		Workouts:     mergeWorkouts(local.Workouts, remote.Workouts),
		Clients:      mergeClients(local.Clients, remote.Clients),
		CoachProfile: local.CoachProfile,
	}
	if remote.CoachProfile != nil {
		if local.CoachProfile == nil || remote.CoachProfile.UpdatedAt.After(local.CoachProfile.UpdatedAt) {
			out.CoachProfile = remote.CoachProfile
		}
	}
	return out
}

func mergeWorkouts(local, remote []domain.Workout) []domain.Workout {
	localIdx := make(map[string]int, len(local))
	out := make([]domain.Workout, len(local))
	copy(out, local)
	for i := range out {
		localIdx[out[i].ID.Hex()] = i
	}
	for _, r := range remote {
		if i, ok := localIdx[r.ID.Hex()]; ok {
			if r.UpdatedAt.After(out[i].UpdatedAt) {
				out[i] = r
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

func mergeClients(local, remote []domain.Client) []domain.Client {
	localIdx := make(map[string]int, len(local))
	out := make([]domain.Client, len(local))
	copy(out, local)
	for i := range out {
		localIdx[out[i].ID.Hex()] = i
	}
	for _, r := range remote {
		if i, ok := localIdx[r.ID.Hex()]; ok {
			// Clients carry no update timestamp; the newer creation wins.
			if r.CreatedAt.After(out[i].CreatedAt) {
				out[i] = r
			}
			continue
		}
		out = append(out, r)
	}
	return out
}
