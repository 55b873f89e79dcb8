package ports

// Contract for memoizing feasibility decisions keyed by a canonical encoding
// of (vehicles, lanes). Implementations must be safe for concurrent use.
type FeasibilityCache interface {
	// Return the memoized answer and whether it was present.
	Get(key string) (fits bool, ok bool)
	// Store an answer if the key is absent. Racing writers are harmless
	// because a key always maps to the same answer.
	Add(key string, fits bool)
	// Number of entries currently held.
	Len() int
}
