// Package testing provides test utilities for the roomshare library.
//
// This package offers helpers for setting up test environments, particularly
// embedded NATS servers for integration testing. It follows Go's convention
// of providing testing utilities in a dedicated package (similar to net/http/httptest).
//
// Key utilities:
//   - StartEmbeddedNATS: In-process NATS server for event publishing tests
//   - NewTestLogger: Logger that writes through testing.T
//
// Example usage:
//
//	import (
//	    "testing"
//	    sharetest "github.com/muenchnerfurs/roomshare/testing"
//	)
//
//	func TestMyComponent(t *testing.T) {
//	    _, nc := sharetest.StartEmbeddedNATS(t)
//	    // Use nc for your tests
//	}
package testing
