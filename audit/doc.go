// Package audit publishes routing decisions to a NATS JetStream KV bucket.
//
// Every assignment, reassignment and unroutable work item becomes one record under
// "<prefix>.<sequence>", where the sequence is monotonic across process restarts.
// Wire a Publisher into an engine through its hooks:
//
//	pub := audit.NewPublisher(bucket)
//	if err := pub.DiscoverHighestSequence(ctx); err != nil {
//	    return err
//	}
//	engine, err := leadroute.NewEngine(&cfg, src, leadroute.WithHooks(pub.Hooks()))
package audit
