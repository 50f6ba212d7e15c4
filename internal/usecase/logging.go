// Package usecase contains the application use cases.
package usecase

import "github.com/runoshun/focusday/internal/domain"

// logInfo writes to logger when one is configured.
func logInfo(logger domain.Logger, userID, category, msg string) {
	if logger != nil {
		logger.Info(userID, category, msg)
	}
}

// logWarn writes to logger when one is configured.
func logWarn(logger domain.Logger, userID, category, msg string) {
	if logger != nil {
		logger.Warn(userID, category, msg)
	}
}
