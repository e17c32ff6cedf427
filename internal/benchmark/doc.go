// SPDX-License-Identifier: MPL-2.0

// Package benchmark holds benchmarks for the hot paths of plugload:
//   - manifest decoding in every supported format
//   - namespace tree generation
//   - name resolution with and without the result cache
//
// To generate a PGO profile, run:
//
//	go test -run '^$' -bench . -cpuprofile default.pgo ./internal/benchmark
package benchmark
