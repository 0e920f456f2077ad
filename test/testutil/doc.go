// Package testutil provides shared test utilities and fixtures for integration tests.
//
// This package contains common setup code, test data, and assertion helpers
// that are used across multiple integration tests.
//
// Examples of utilities that belong here:
//   - Assignment invariant checkers (capacity, membership, tag eligibility)
//   - Common fixtures (resource catalogs, participant waves)
//
// Note: For NATS server setup, use the github.com/muenchnerfurs/roomshare/testing
// package. This package is specifically for integration test scenarios.
package testutil
