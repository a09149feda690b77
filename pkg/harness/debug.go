package harness

import "github.com/entrhq/wordleprobe/pkg/logging"

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("harness")
	if err != nil {
		debugLog.Warnf("Failed to initialize harness logger, using stderr fallback: %v", err)
	}
}
