package message

// connectedCTA builds an ask that flows from the proof point just
// mentioned rather than reading like a drop-in block. Every CTA is a
// question: a touch without a question is a touch without an ask.
func connectedCTA(tier string, tone Tone, seniority, company, competitor string) string {
	strategic := isStrategic(seniority)

	switch tier {
	case "hot":
		switch tone {
		case ToneFriendly:
			if competitor != "" {
				return "Happy to show you what that'd look like against your " + competitor + " setup - worth 15 minutes?"
			}
			return "Happy to show you what that'd look like for " + company + " - worth 15 minutes?"
		case ToneDirect:
			if strategic {
				return "Open to exploring how that maps to " + company + "?"
			}
			if competitor != "" {
				return "Open to seeing how that compares to your " + competitor + " setup?"
			}
			return "Open to seeing how that'd work for " + company + "?"
		default:
			return "Would you expect similar results at " + company + "?"
		}

	case "warm":
		switch tone {
		case ToneFriendly:
			if competitor != "" {
				return "If that resonates, want me to walk through how it'd compare to your " + competitor + " setup?"
			}
			return "If that resonates, want me to walk through how it'd map to " + company + "?"
		case ToneDirect:
			if strategic {
				return "Worth exploring how that'd apply to " + company + "?"
			}
			if competitor != "" {
				return "Worth seeing how that stacks up against " + competitor + "?"
			}
			return "Worth exploring if that fits " + company + "?"
		default:
			return "Are you running into something similar at " + company + "?"
		}

	case "cool":
		switch tone {
		case ToneFriendly:
			return "If any of that's relevant to " + company + ", want me to share more?"
		case ToneDirect:
			return "Useful to see more?"
		default:
			return "Is this even on your radar right now?"
		}
	}

	return "Worth keeping on file in case it's helpful down the road?"
}

// softAsk is the easy-out after the CTA. Hot prospects get minimal
// softeners, cold prospects get generous ones; direct tone skips them.
func softAsk(tier string, tone Tone) string {
	if tone == ToneDirect {
		return ""
	}
	switch tier {
	case "hot":
		if tone == ToneFriendly {
			return ""
		}
		return "Either way, appreciate the read."
	case "warm":
		if tone == ToneFriendly {
			return "No worries if the timing's off."
		}
		return "No pressure either way."
	default:
		if tone == ToneFriendly {
			return "Either way, no worries at all."
		}
		return "No pressure at all."
	}
}

func signoff(tone Tone, sender string) string {
	switch tone {
	case ToneFriendly:
		return "Cheers,\n" + sender
	case ToneDirect:
		return sender
	default:
		return "Best,\n" + sender
	}
}

// psLine adds an optional second proof point for hot/warm prospects on
// the email channel only.
func psLine(tier, channel string, used, other SelectedProofPoint) string {
	if channel != "email" {
		return ""
	}
	if tier != "hot" && tier != "warm" {
		return ""
	}
	if other.Key == "" || other.Key == used.Key {
		return ""
	}
	if tier == "hot" {
		return "P.S. " + other.Text + "."
	}
	return "P.S. " + other.Text + " - happy to share the full story if relevant."
}
