// Package store provides the data-access abstraction the grid renders from.
//
// A Store is an immutable query handle. Sort and Range return derived handles
// without touching data; Fetch evaluates the accumulated transforms against the
// underlying Source and returns the current window together with the total
// number of items before any range was applied.
//
//	s := store.New(store.NewMemory(items))
//	res, err := s.Sort("name", false).Range(10, 5).Fetch(ctx)
//
// Sources are pluggable: an in-memory slice (NewMemory), a bbolt bucket
// (OpenBolt) and objects decoded from files or S3 (LoadFile, LoadS3).
// Instrument wraps any Store with Prometheus metrics and OpenTelemetry spans.
package store
