package common

import (
	"os"
	"testing"

	"github.com/dominant-strategies/quai-evm/log"
)

func TestMain(m *testing.M) {
	// Swap in log.New(log.WithLevel("debug")) to see log output while testing
	log.Global = log.NewNullLogger()
	os.Exit(m.Run())
}
