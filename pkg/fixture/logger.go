package fixture

import "github.com/entrhq/wordleprobe/pkg/logging"

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("fixture")
	if err != nil {
		debugLog.Warnf("Failed to initialize fixture logger, using stderr fallback: %v", err)
	}
}
