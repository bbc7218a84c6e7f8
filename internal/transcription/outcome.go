package transcription

// Tier identifies which path produced a transcript, so callers can
// distinguish quality levels instead of sniffing placeholder strings.
type Tier int

const (
	// TierPrimary is the hosted speech-to-text service.
	TierPrimary Tier = iota
	// TierDegraded is the low-fidelity local fallback model.
	TierDegraded
	// TierUnavailable means no path produced speech; Text carries a
	// human-readable placeholder, never an error.
	TierUnavailable
)

// Outcome is the result of one transcription attempt. Text is always
// non-empty: real speech for the first two tiers, a bracketed Portuguese
// placeholder for TierUnavailable.
type Outcome struct {
	Tier Tier
	Text string
}

func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierDegraded:
		return "degraded"
	default:
		return "unavailable"
	}
}
