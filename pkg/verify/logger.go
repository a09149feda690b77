package verify

import "github.com/entrhq/wordleprobe/pkg/logging"

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("verify")
	if err != nil {
		debugLog.Warnf("Failed to initialize verify logger, using stderr fallback: %v", err)
	}
}
