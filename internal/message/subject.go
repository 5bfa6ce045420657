package message

// subjectCandidates returns the subject-line options for a written
// touch. Call snippets have no subject; unknown touches get none.
func subjectCandidates(touchNumber int, firstName, company, fn, painLabel, ourCompany string) []string {
	switch touchNumber {
	case 1:
		return []string{
			fn + " at " + company,
			"Thought for " + firstName + " re: " + painLabel,
			company + "'s " + fn + " team",
		}
	case 3:
		return []string{
			"Re: " + fn + " at " + company,
			"Quick follow-up, " + firstName,
			"One more thought for " + company,
		}
	case 5:
		return []string{
			capitalize(painLabel) + " at " + company,
			firstName + " - different angle",
			ourCompany + " + " + company,
		}
	case 6:
		return []string{
			"Closing the loop",
			"Last note, " + firstName,
		}
	}
	return nil
}
