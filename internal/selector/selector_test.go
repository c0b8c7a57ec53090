package selector

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/leadroute/internal/ranking"
	"github.com/arloliu/leadroute/rule"
	"github.com/arloliu/leadroute/types"
)

var rotate = rule.RoundRobinPolicy{Enabled: true}

func ranked(scores ...float64) []ranking.Candidate {
	out := make([]ranking.Candidate, len(scores))
	for i, s := range scores {
		out[i] = ranking.Candidate{Worker: types.Worker{ID: string(rune('a' + i))}, Score: s, Order: i}
	}

	return out
}

func TestSelector_Empty(t *testing.T) {
	_, ok := New().Select(nil, rotate)
	require.False(t, ok)
}

func TestSelector_SingleCandidate(t *testing.T) {
	s := New()
	for range 3 {
		choice, ok := s.Select(ranked(50), rotate)
		require.True(t, ok)
		require.Equal(t, 0, choice.Index)
		require.False(t, choice.RoundRobin)
	}
}

func TestSelector_RotatesNearTies(t *testing.T) {
	s := New()
	candidates := ranked(80, 75, 71, 40)

	var picks []int
	for range 4 {
		choice, ok := s.Select(candidates, rotate)
		require.True(t, ok)
		require.True(t, choice.RoundRobin)
		picks = append(picks, choice.Index)
	}
	require.Equal(t, []int{0, 1, 2, 0}, picks)
}

func TestSelector_GroupBoundaryInclusive(t *testing.T) {
	s := New()
	candidates := ranked(80, 75, 70, 69.9)

	seen := map[int]bool{}
	for range 6 {
		choice, _ := s.Select(candidates, rotate)
		seen[choice.Index] = true
	}
	require.Equal(t, map[int]bool{0: true, 1: true, 2: true}, seen)
}

func TestSelector_GroupFollowsDiscoveryOrder(t *testing.T) {
	s := New()
	candidates := []ranking.Candidate{
		{Worker: types.Worker{ID: "x"}, Score: 90, Order: 2},
		{Worker: types.Worker{ID: "y"}, Score: 88, Order: 0},
		{Worker: types.Worker{ID: "z"}, Score: 85, Order: 1},
	}

	var picks []string
	for range 3 {
		choice, _ := s.Select(candidates, rotate)
		picks = append(picks, candidates[choice.Index].Worker.ID)
	}
	require.Equal(t, []string{"y", "z", "x"}, picks)
}

func TestSelector_ClearWinner(t *testing.T) {
	s := New()
	for range 3 {
		choice, _ := s.Select(ranked(90, 80, 79), rotate)
		require.Equal(t, 0, choice.Index, "a gap of exactly the margin is a clear winner")
		require.False(t, choice.RoundRobin)
	}

	choice, _ := s.Select(ranked(80, 75), rotate)
	require.Equal(t, 0, choice.Index, "clear wins do not advance the rotating index")
}

func TestSelector_Disabled(t *testing.T) {
	s := New()
	for range 3 {
		choice, _ := s.Select(ranked(80, 79, 78), rule.RoundRobinPolicy{})
		require.Equal(t, 0, choice.Index)
	}
}

func TestSelector_CustomMargin(t *testing.T) {
	s := New()
	policy := rule.RoundRobinPolicy{Enabled: true, TieMargin: 2}

	choice, _ := s.Select(ranked(80, 77), policy)
	require.False(t, choice.RoundRobin)

	choice, _ = s.Select(ranked(80, 79), policy)
	require.True(t, choice.RoundRobin)
}

func TestSelector_ConcurrentRotationIsFair(t *testing.T) {
	s := New()
	candidates := ranked(80, 79, 78)

	const calls = 300
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		counts = map[int]int{}
	)
	for range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()
			choice, _ := s.Select(candidates, rotate)
			mu.Lock()
			counts[choice.Index]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Equal(t, map[int]int{0: calls / 3, 1: calls / 3, 2: calls / 3}, counts)
}
