// Package testutil generates reproducible records and ID tables for LighDB
// tests, and computes the exact result of an ID lookup to compare against.
//
//	rng := testutil.NewRNG(4711)
//	records := rng.Records(1000, 32)
//	ids := rng.ZipfIDs(1000, 16, 1.5)
//	want := testutil.Indexes(ids, 7)
package testutil
