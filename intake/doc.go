// Package intake routes leads arriving on a NATS JetStream stream.
//
// A Consumer keeps one durable pull consumer on the lead stream, decodes every message
// as a JSON work item and hands it to a Router (usually a *leadroute.Engine). Message
// disposition follows the routing outcome:
//
//   - assigned: Ack
//   - no eligible agent: Ack, or NakWithDelay when Config.UnroutedDelay is set so the
//     lead is retried once capacity frees up
//   - malformed payload or invalid work item: Term (redelivery cannot fix it)
//   - any other error: Nak
//
// Example:
//
//	consumer, err := intake.NewConsumer(js, intake.Config{
//	    StreamName: "LEADS",
//	    Subject:    "leads.>",
//	}, engine)
//	if err != nil {
//	    return err
//	}
//	if err := consumer.Start(ctx); err != nil {
//	    return err
//	}
//	defer consumer.Stop()
package intake
