// Package leadroute provides a Go library for routing incoming work items (leads) to the
// best available worker (agent) of a roster.
//
// Leadroute discovers candidates with a configurable set of routing rules, ranks them
// with a composite match score, spreads near-tied winners with round-robin rotation, and
// commits one unit of load to the selected worker. Decisions run in memory and never
// block; only Refresh talks to the roster source.
//
// # Quick Start
//
// Basic usage with default settings:
//
//	import (
//	    "github.com/arloliu/leadroute"
//	    "github.com/arloliu/leadroute/source"
//	)
//
//	cfg := leadroute.DefaultConfig()
//	src, err := source.LoadStaticFile("roster.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine, err := leadroute.NewEngine(&cfg, src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := engine.Refresh(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	assignment, err := engine.AutoAssign(ctx, leadroute.WorkItem{
//	    ID:       "lead-42",
//	    Score:    85,
//	    Location: "Carlsbad",
//	})
//
// # Key Features
//
//   - Rule-Based Discovery: territory, lead score, source, specialty, language and budget rules
//   - Composite Scoring: free capacity plus territory, specialty, language and seniority bonuses
//   - Round-Robin Fairness: near-tied candidates take turns instead of the first always winning
//   - Capacity Safety: concurrent decisions never push a worker past its capacity
//   - Live Rule Updates: partial updates validated per rule group and swapped in atomically
//   - Stream Intake: the intake package routes leads published to a JetStream stream
//
// # Decision Pipeline
//
// Every AutoAssign call runs the same steps over one registry snapshot:
//
//	discover → filter available → rank → select → commit load
//
// A work item without eligible workers yields a nil assignment and no error.
//
// # Advanced Usage
//
// Roster from NATS KV with decision auditing:
//
//	import (
//	    "github.com/arloliu/leadroute"
//	    "github.com/arloliu/leadroute/audit"
//	    "github.com/arloliu/leadroute/source"
//	)
//
//	roster := source.NewKV(rosterBucket)
//	pub := audit.NewPublisher(auditBucket)
//	if err := pub.DiscoverHighestSequence(ctx); err != nil {
//	    return err
//	}
//
//	engine, err := leadroute.NewEngine(&cfg, roster,
//	    leadroute.WithHooks(pub.Hooks()),
//	    leadroute.WithMetrics(leadroute.NewPrometheusMetrics(prometheus.DefaultRegisterer, "")),
//	)
//	roster.OnChange(engine.Refresh)
//	if err := roster.Start(ctx); err != nil {
//	    return err
//	}
//
// See the examples/ directory for complete working examples.
package leadroute
