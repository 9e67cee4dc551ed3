package config

// ArtifactMode decides when a trace, screenshot or video is captured and kept.
type ArtifactMode string

// Artifact modes
const (
	ArtifactOff             ArtifactMode = "off"
	ArtifactOn              ArtifactMode = "on"
	ArtifactOnlyOnFailure   ArtifactMode = "only-on-failure"
	ArtifactOnFirstRetry    ArtifactMode = "on-first-retry"
	ArtifactRetainOnFailure ArtifactMode = "retain-on-failure"
)

// Valid reports whether m is a known mode.
func (m ArtifactMode) Valid() bool {
	switch m {
	case ArtifactOff, ArtifactOn, ArtifactOnlyOnFailure, ArtifactOnFirstRetry, ArtifactRetainOnFailure:
		return true
	}
	return false
}

// Record reports whether recording must start before the given attempt
// (0-based). Failure-dependent modes record every attempt and decide later.
func (m ArtifactMode) Record(attempt int) bool {
	switch m {
	case ArtifactOff:
		return false
	case ArtifactOnFirstRetry:
		return attempt == 1
	default:
		return true
	}
}

// Keep reports whether the artifact of a finished attempt is kept.
func (m ArtifactMode) Keep(attempt int, failed bool) bool {
	switch m {
	case ArtifactOn:
		return true
	case ArtifactOnlyOnFailure, ArtifactRetainOnFailure:
		return failed
	case ArtifactOnFirstRetry:
		return attempt == 1
	default:
		return false
	}
}
