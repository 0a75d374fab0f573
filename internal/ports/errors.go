package ports

import "errors"

// ErrCacheMiss marks a cache load that found nothing usable: absent, stale,
// or corrupt snapshots all surface as a miss and trigger a rebuild.
var ErrCacheMiss = errors.New("embedding cache miss")

// ErrPlanNotFound marks a plan-store lookup for an unknown plan ID.
var ErrPlanNotFound = errors.New("plan not found")
