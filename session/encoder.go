package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	recordSchemaVersionCurrent = 1
)

// ErrUnsupportedSchema is returned by Decode for blobs written by an
// unknown encoder version.
var ErrUnsupportedSchema = errors.New("unsupported session schema version")

type wireRecord struct {
	Version int `json:"v"`
	*Record
}

// Encode serializes r with the current schema version.
func Encode(r *Record) ([]byte, error) {
	if r == nil {
		return nil, errors.New("nil session record")
	}
	if r.Subject == "" {
		return nil, errors.New("session record has no subject")
	}
	return json.Marshal(wireRecord{Version: recordSchemaVersionCurrent, Record: r})
}

// Decode parses a stored blob. Blobs without a version field are treated
// as schema 1.
func Decode(data []byte) (*Record, error) {
	rec := &Record{}
	wire := wireRecord{Record: rec}
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode session record: %w", err)
	}
	switch wire.Version {
	case 0, recordSchemaVersionCurrent:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedSchema, wire.Version)
	}
	if rec.Subject == "" {
		return nil, errors.New("decode session record: missing subject")
	}
	return rec, nil
}
