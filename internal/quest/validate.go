package quest

import (
	"github.com/sydneyquest/questapi/internal/geo"
)

// ScanCode classifies the outcome of validating a marker scan. All
// failures are recoverable; none change state.
type ScanCode string

const (
	ScanOK                 ScanCode = "ok"
	ScanUnrecognizedMarker ScanCode = "unrecognized_marker"
	ScanOutOfRange         ScanCode = "out_of_range"
	ScanQuestNotStarted    ScanCode = "quest_not_started"
	ScanOutOfSequence      ScanCode = "out_of_sequence"
)

// ScanResult is the value returned by ValidateScan. Checkpoint and
// Distance are set whenever the marker was recognized; Next names the
// expected checkpoint on an out-of-sequence failure.
type ScanResult struct {
	Code       ScanCode
	Checkpoint *Checkpoint
	Distance   float64
	Next       *Checkpoint
}

// OK reports whether the scan is acceptable.
func (r ScanResult) OK() bool { return r.Code == ScanOK }

// ValidateScan decides whether a decoded marker code is acceptable for
// this quest at the user's reported position. progress may be nil when
// the quest has not been started. Checks run in a deliberate order,
// short-circuiting on the first failure: marker lookup, geofence,
// quest-started, sequence. Geofence comes before sequence so "move
// closer" is only ever reported when true, and "out of order" only
// when the user is demonstrably in range of the wrong checkpoint.
func ValidateScan(q *Quest, progress *ProgressRecord, code string, user geo.Coordinates) ScanResult {
	cp := q.CheckpointByQR(code)
	if cp == nil {
		return ScanResult{Code: ScanUnrecognizedMarker}
	}

	dist := geo.DistanceMeters(user, cp.Coordinates)
	if dist > cp.Radius {
		return ScanResult{Code: ScanOutOfRange, Checkpoint: cp, Distance: dist}
	}

	// The start marker is always scannable in range: it begins the
	// quest, and re-scanning it is a harmless no-op for the caller.
	if cp.Kind == KindStart {
		return ScanResult{Code: ScanOK, Checkpoint: cp, Distance: dist}
	}

	if progress == nil {
		return ScanResult{Code: ScanQuestNotStarted, Checkpoint: cp, Distance: dist}
	}

	// CurrentID is the most recently satisfied checkpoint; only its
	// immediate successor is scannable. A repeat scan of an already
	// completed checkpoint fails here too, which is what makes a
	// double-fired scan event safe.
	if q.IndexOf(cp.ID) != q.IndexOf(progress.CurrentID)+1 {
		return ScanResult{
			Code:       ScanOutOfSequence,
			Checkpoint: cp,
			Distance:   dist,
			Next:       q.NextAfter(progress.CurrentID),
		}
	}

	return ScanResult{Code: ScanOK, Checkpoint: cp, Distance: dist}
}
