package leadroute

import "github.com/arloliu/leadroute/types"

// Sentinel errors returned by the Engine, re-exported from the types package.
var (
	ErrInvalidConfig        = types.ErrInvalidConfig
	ErrRosterSourceRequired = types.ErrRosterSourceRequired
	ErrInvalidWorkItem      = types.ErrInvalidWorkItem
	ErrDecisionTimeout      = types.ErrDecisionTimeout
	ErrSameWorker           = types.ErrSameWorker
	ErrWorkerNotFound       = types.ErrWorkerNotFound
	ErrInvalidWorker        = types.ErrInvalidWorker
	ErrCapacityExhausted    = types.ErrCapacityExhausted
	ErrInvalidRule          = types.ErrInvalidRule
	ErrUnknownRuleGroup     = types.ErrUnknownRuleGroup
)
