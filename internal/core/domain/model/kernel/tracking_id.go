package kernel

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"storefront/internal/pkg/errs"

	"github.com/oklog/ulid/v2"
)

// TrackingIDPrefix marks every identifier issued by the storefront.
const TrackingIDPrefix = "MS-"

const maxTrackingIDLength = 64

// ErrTrackingIDIsNotConstructed is returned when validating a zero-value TrackingID.
var ErrTrackingIDIsNotConstructed = errs.NewValueIsRequiredError(
	"TrackingID must be created via TrackingIDGenerator or TrackingIDFromString")

// TrackingID is the opaque identifier a customer uses to follow an order.
// The zero value is invalid.
type TrackingID struct {
	value string
}

// TrackingIDFromString restores a TrackingID received from a client or read from storage.
// Any non-blank token without whitespace is accepted so that identifiers issued
// under an older format still resolve.
func TrackingIDFromString(s string) (TrackingID, error) {
	if strings.TrimSpace(s) == "" {
		return TrackingID{}, errs.NewValueIsRequiredError("trackingId")
	}
	if len(s) > maxTrackingIDLength {
		return TrackingID{}, errs.NewValueIsOutOfRangeError("trackingId length", len(s), 1, maxTrackingIDLength)
	}
	if strings.IndexFunc(s, unicode.IsSpace) >= 0 || strings.IndexFunc(s, unicode.IsControl) >= 0 {
		return TrackingID{}, errs.NewValueIsInvalidErrorWithCause("trackingId",
			fmt.Errorf("%q contains whitespace or control characters", s))
	}
	return TrackingID{value: s}, nil
}

// String returns the textual form, e.g. "MS-01J9ZKQ5W3D2V6T3KX4Y7B8C9A".
func (id TrackingID) String() string {
	return id.value
}

// IsEqual reports whether both identifiers carry the same token.
func (id TrackingID) IsEqual(other TrackingID) bool {
	return id.value == other.value
}

// Validate fails for the zero value.
func (id TrackingID) Validate() error {
	if id.value == "" {
		return ErrTrackingIDIsNotConstructed
	}
	return nil
}

// TrackingIDGenerator issues new tracking ids: the prefix followed by a ULID.
// ULIDs sort by creation time and are monotonic within the same millisecond,
// so ids issued by one generator never repeat. Safe for concurrent use.
type TrackingIDGenerator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

// NewTrackingIDGenerator returns a generator reading time from now.
// A nil now defaults to time.Now.
func NewTrackingIDGenerator(now func() time.Time) *TrackingIDGenerator {
	if now == nil {
		now = time.Now
	}
	return &TrackingIDGenerator{
		now:     now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Next returns a fresh tracking id.
func (g *TrackingIDGenerator) Next() (TrackingID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now()), g.entropy)
	if err != nil {
		return TrackingID{}, fmt.Errorf("generate tracking id: %w", err)
	}
	return TrackingID{value: TrackingIDPrefix + id.String()}, nil
}
