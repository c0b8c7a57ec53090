// Package selector picks the winning candidate from a ranked list.
package selector

import (
	"slices"
	"sync/atomic"

	"github.com/arloliu/leadroute/internal/ranking"
	"github.com/arloliu/leadroute/rule"
)

// Choice is the selector's pick.
type Choice struct {
	// Index is the position of the winner in the ranked list.
	Index int

	// RoundRobin reports whether the winner was picked by rotation among near-ties.
	RoundRobin bool
}

// Selector applies round-robin rotation among near-tied top candidates.
//
// The rotating index is the only state and is advanced atomically, so one Selector is
// shared by all concurrent decisions.
type Selector struct {
	next atomic.Uint64
}

// New creates a selector with the rotating index at zero.
func New() *Selector {
	return &Selector{}
}

// Select picks the winner.
//
// When rotation is enabled, there are at least two candidates and the gap between the
// first two is below the tie margin, the near-tie group is every candidate scoring at
// least top-margin. The group is taken in discovery order, not score order, so that
// load changes caused by earlier picks do not reshuffle the rotation. The rotating
// index advances only when the near-tie path is taken.
//
// Parameters:
//   - ranked: Candidates sorted by descending score
//   - policy: Round-robin policy in effect
//
// Returns:
//   - Choice: Position of the winner in ranked
//   - bool: false when ranked is empty
func (s *Selector) Select(ranked []ranking.Candidate, policy rule.RoundRobinPolicy) (Choice, bool) {
	if len(ranked) == 0 {
		return Choice{}, false
	}

	margin := policy.Margin()
	top := ranked[0].Score
	if !policy.Enabled || len(ranked) < 2 || top-ranked[1].Score >= margin {
		return Choice{Index: 0}, true
	}

	group := make([]int, 0, len(ranked))
	for i, c := range ranked {
		if c.Score >= top-margin {
			group = append(group, i)
		}
	}
	slices.SortFunc(group, func(a, b int) int { return ranked[a].Order - ranked[b].Order })

	n := s.next.Add(1) - 1

	return Choice{Index: group[n%uint64(len(group))], RoundRobin: true}, true
}
