// Package audit chains reveal events into a tamper-evident, append-only trail.
package audit

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/blind-hire/internal/types"
	"golang.org/x/crypto/blake2b"
)

// GenesisHash is the PrevHash of the first event in a trail.
var GenesisHash = strings.Repeat("0", blake2b.Size256*2)

// Seal links event to the previous hash and computes its own hash.
func Seal(event types.RevealEvent, prevHash string) types.RevealEvent {
	if prevHash == "" {
		prevHash = GenesisHash
	}
	// Postgres timestamptz keeps microseconds; truncate so digests survive a round trip.
	event.Timestamp = event.Timestamp.UTC().Truncate(time.Microsecond)
	event.PrevHash = prevHash
	event.Hash = digest(event)
	return event
}

// Verify walks events in append order and checks every link and digest.
func Verify(events []types.RevealEvent) error {
	prev := GenesisHash
	for i, e := range events {
		if e.PrevHash != prev {
			return &ChainError{Index: i, EventID: e.ID, Message: "previous hash does not match"}
		}
		if want := digest(e); e.Hash != want {
			return &ChainError{Index: i, EventID: e.ID, Message: "event hash does not match contents"}
		}
		prev = e.Hash
	}
	return nil
}

// Head returns the hash new events should chain to.
func Head(events []types.RevealEvent) string {
	if len(events) == 0 {
		return GenesisHash
	}
	return events[len(events)-1].Hash
}

func digest(e types.RevealEvent) string {
	// Fields are length-prefixed so no two distinct events share an encoding.
	var b strings.Builder
	for _, field := range []string{
		e.ID,
		e.CandidateID,
		e.JobID,
		e.RecruiterID,
		e.Timestamp.UTC().Format(time.RFC3339Nano),
		e.PrevHash,
	} {
		fmt.Fprintf(&b, "%d:%s;", len(field), field)
	}
	sum := blake2b.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// ChainError reports the first broken link in a trail.
type ChainError struct {
	Index   int
	EventID string
	Message string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("audit chain broken at event %d (%s): %s", e.Index, e.EventID, e.Message)
}
