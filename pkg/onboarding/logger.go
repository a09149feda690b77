package onboarding

import "github.com/entrhq/wordleprobe/pkg/logging"

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("onboarding")
	if err != nil {
		debugLog.Warnf("Failed to initialize onboarding logger, using stderr fallback: %v", err)
	}
}
