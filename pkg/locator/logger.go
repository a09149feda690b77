package locator

import "github.com/entrhq/wordleprobe/pkg/logging"

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("locator")
	if err != nil {
		debugLog.Warnf("Failed to initialize locator logger, using stderr fallback: %v", err)
	}
}
