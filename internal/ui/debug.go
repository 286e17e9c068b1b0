package ui

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "hexroute-debug.log"

// startDebugLog points the app logger at DebugLogPath when --debug is set.
// Without the flag the logger stays a no-op.
func (a *App) startDebugLog() error {
	if !a.debug || a.logOut != nil {
		return nil
	}

	f, err := os.Create(DebugLogPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	a.logOut = f
	a.log = zerolog.New(f).With().Timestamp().Str("component", "cli").Logger()
	a.log.Debug().Str("log_file", DebugLogPath).Msg("debug start")
	return nil
}

// stopDebugLog flushes and closes the debug log file.
func (a *App) stopDebugLog() {
	if a.logOut == nil {
		return
	}
	a.log.Debug().Msg("debug end")
	_ = a.logOut.Close()
	a.logOut = nil
	a.log = zerolog.Nop()
}
