package testing

import (
	"testing"

	"github.com/arloliu/leadroute/internal/logger"
	"github.com/arloliu/leadroute/types"
)

// NewTestLogger returns a logger that writes through t.Logf.
func NewTestLogger(t testing.TB) types.Logger {
	return logger.NewTest(t)
}
