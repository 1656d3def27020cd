package ui

import (
	"os"
	"testing"

	"github.com/vanderheijden86/trendradar/pkg/debug"
)

func TestMain(m *testing.M) {
	// Keep test output quiet even when RADAR_DEBUG is set in the shell.
	debug.SetEnabled(false)
	os.Exit(m.Run())
}
