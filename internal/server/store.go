package server

import (
	"context"
	"errors"

	"github.com/sydneyquest/questapi/internal/geo"
	"github.com/sydneyquest/questapi/internal/quest"
)

var ErrNotFound = errors.New("not found")

// DevicePrefs is the per-device preferences blob: onboarding state,
// sensor permission grants and the last reported position.
type DevicePrefs struct {
	OnboardingCompleted bool          `json:"onboardingCompleted"`
	Permissions         Permissions   `json:"permissions"`
	LastLocation        *LastLocation `json:"lastLocation,omitempty"`
}

type Permissions struct {
	GPS    string `json:"gps"`
	Camera string `json:"camera"`
}

type LastLocation struct {
	geo.Coordinates
	Timestamp string `json:"timestamp"`
}

// Store is the progress state machine's persistence contract, keyed
// by device and quest. Operations that require a progress record are
// silent no-ops when none exists: client-side state corruption should
// degrade gracefully, never crash the experience.
type Store interface {
	// StartQuest creates a progress record positioned at the start
	// checkpoint. Idempotent: an existing record is left untouched.
	StartQuest(ctx context.Context, deviceID, questID, startCheckpointID string) error

	// Advance moves the current checkpoint into the completed set and
	// makes nextCheckpointID current. The caller guarantees next is
	// the immediate successor in sequence order.
	Advance(ctx context.Context, deviceID, questID, nextCheckpointID string) error

	// RecordHint bumps the checkpoint's hint counter, saturating at
	// the hint-ladder size. Returns the post-increment count.
	RecordHint(ctx context.Context, deviceID, questID, checkpointID string) (int, error)

	// Complete folds the progress record into a completion record iff
	// the current checkpoint is finishCheckpointID. Calling it again
	// returns the existing completion without writing a second one.
	Complete(ctx context.Context, deviceID, questID, finishCheckpointID, voucherCode string) (*quest.CompletionRecord, error)

	// GetProgress returns nil (not an error) when no record exists.
	GetProgress(ctx context.Context, deviceID, questID string) (*quest.ProgressRecord, error)

	HasCompleted(ctx context.Context, deviceID, questID string) (bool, error)
	GetCompletion(ctx context.Context, deviceID, questID string) (*quest.CompletionRecord, error)
	ListCompletions(ctx context.Context, deviceID string) ([]quest.CompletionRecord, error)

	// GetDevice returns defaults (permissions "prompt") for unknown
	// devices rather than an error.
	GetDevice(ctx context.Context, deviceID string) (DevicePrefs, error)
	PutDevice(ctx context.Context, deviceID string, prefs DevicePrefs) error
}
