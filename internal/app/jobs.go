package app

import "time"

// JobResult reports the outcome of a batch pass. Ids are application ids.
type JobResult struct {
	Processed []string
	Failed    []string
}

type ExtendedApplication struct {
	ApplicationID        string
	ApplicationReference string
	FinalActionDate      time.Time
}

type ExtensionRequest struct {
	ExtensionLength time.Duration
	Threshold       time.Duration
}

type ExtensionResult struct {
	Extended []ExtendedApplication
	// Skipped holds applications in range left alone by the re-extension policy.
	Skipped []string
	// NotifyFailed holds applications whose post-commit notification failed.
	NotifyFailed []string
}
