package sessions

import "context"

// Repo is durable string storage keyed by slot, the equivalent of browser
// local storage. Implementations must apply WriteAll atomically: a reader
// never observes some of the values without the others.
type Repo interface {
	// Write overwrites a single slot
	Write(ctx context.Context, slot Slot, value string) error

	// WriteAll overwrites every given slot in one atomic step
	WriteAll(ctx context.Context, values map[Slot]string) error

	// Read returns the slot value and false when the slot is absent
	Read(ctx context.Context, slot Slot) (string, bool, error)

	// ReadAll returns every given slot that is present, read in one atomic
	// step. Absent slots are missing from the map.
	ReadAll(ctx context.Context, slots ...Slot) (map[Slot]string, error)

	// Clear removes the given slots. Clearing an absent slot is not an error.
	Clear(ctx context.Context, slots ...Slot) error

	// Close releases any underlying connection
	Close() error
}
