package alloc

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Report format changes.
const reportSchemaVersion uint16 = 1

// Report is the externally consumable form of an accounting snapshot, for
// tooling that collects allocator behavior across runs. This is peripheral
// to the erasure core; decode failures are ordinary errors, not faults.
type Report struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	AllocCount uint64
	FreeCount  uint64
	LiveCount  uint64
	LiveBytes  uint64
	TotalBytes uint64
}

// Report builds a schema-stamped report from the current snapshot.
func (t *Tracking) Report() Report {
	s := t.Snapshot()
	return Report{
		Schema:     reportSchemaVersion,
		AllocCount: s.AllocCount,
		FreeCount:  s.FreeCount,
		LiveCount:  s.LiveCount,
		LiveBytes:  s.LiveBytes,
		TotalBytes: s.TotalBytes,
	}
}

// EncodeSnapshot serializes a report.
func EncodeSnapshot(r Report) ([]byte, error) {
	return msgpack.Marshal(&r)
}

// DecodeSnapshot deserializes a report, rejecting unknown schema versions.
func DecodeSnapshot(data []byte) (Report, error) {
	var r Report
	if err := msgpack.Unmarshal(data, &r); err != nil {
		return Report{}, err
	}
	if r.Schema != reportSchemaVersion {
		return Report{}, fmt.Errorf("unknown report schema %d (want %d)", r.Schema, reportSchemaVersion)
	}
	return r, nil
}
