package store

import "context"

// ConsistencyLevel defines the consistency requirements for reads outside a unit of work.
type ConsistencyLevel int

const (
	// StrongConsistency requires reads from the primary database. It is the default.
	StrongConsistency ConsistencyLevel = iota

	// EventualConsistency allows reads from a replica database, trading freshness
	// for a reduced load on the primary. Suitable for listing and reporting queries.
	EventualConsistency
)

// contextKey is a private type to prevent context key collisions.
type contextKey string

// ConsistencyLevelKey is the context key used to store consistency level preferences.
const ConsistencyLevelKey contextKey = "store.consistency_level"

// WithStrongConsistency returns a context that routes reads to the primary database.
func WithStrongConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, StrongConsistency)
}

// WithEventualConsistency returns a context that allows reads from a replica.
//
// Example usage:
//
//	ctx = store.WithEventualConsistency(ctx)
//	books, err := engine.Catalog().List(ctx, filter)
func WithEventualConsistency(ctx context.Context) context.Context {
	return context.WithValue(ctx, ConsistencyLevelKey, EventualConsistency)
}

// GetConsistencyLevel extracts the consistency level from the context,
// defaulting to StrongConsistency.
func GetConsistencyLevel(ctx context.Context) ConsistencyLevel {
	if level, ok := ctx.Value(ConsistencyLevelKey).(ConsistencyLevel); ok {
		return level
	}

	return StrongConsistency
}

// String provides a string representation of ConsistencyLevel for logging and debugging.
func (c ConsistencyLevel) String() string {
	switch c {
	case StrongConsistency:
		return "strong"
	case EventualConsistency:
		return "eventual"
	default:
		return "unknown"
	}
}
