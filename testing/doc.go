// Package testing provides test utilities for leadroute.
//
// The helpers start an embedded NATS server with JetStream, create throwaway KV
// buckets and build fixture rosters. Like net/http/httptest, the package exists to be
// imported from tests.
//
//	import routetest "github.com/arloliu/leadroute/testing"
//
//	func TestRosterWatch(t *testing.T) {
//	    _, nc := routetest.StartEmbeddedNATS(t)
//	    kv := routetest.CreateJetStreamKV(t, nc, "roster")
//	}
package testing
