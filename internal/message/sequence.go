package message

import (
	"time"

	"cadence/internal/artifact"
	"cadence/internal/score"
)

// CadencePlan is the touch schedule for one tier.
type CadencePlan struct {
	Touches     []int  `json:"touches"`
	DaysBetween []int  `json:"days_between"`
	Label       string `json:"label"`
}

// Cadences maps tier to schedule. Hotter prospects get more touches
// compressed into fewer days.
var Cadences = map[string]CadencePlan{
	"hot": {
		Touches:     []int{1, 2, 3, 4, 5, 6},
		DaysBetween: []int{0, 2, 3, 5, 7, 10},
		Label:       "aggressive (10 days)",
	},
	"warm": {
		Touches:     []int{1, 2, 3, 4, 5, 6},
		DaysBetween: []int{0, 3, 5, 8, 11, 14},
		Label:       "standard (14 days)",
	},
	"cool": {
		Touches:     []int{1, 3, 6},
		DaysBetween: []int{0, 7, 21},
		Label:       "gentle (21 days)",
	},
	"cold": {
		Touches:     []int{1, 6},
		DaysBetween: []int{0, 14},
		Label:       "light (14 days)",
	},
}

// SequenceTouch is one scheduled touch within a generated sequence.
type SequenceTouch struct {
	TouchNumber int       `json:"touch_number"`
	SendDate    time.Time `json:"send_date"`
	Variants    VariantSet `json:"variants"`
}

// Sequence is a full multi-touch plan for one prospect.
type Sequence struct {
	ContactID  string          `json:"contact_id"`
	ArtifactID string          `json:"artifact_id"`
	Tier       string          `json:"tier"`
	Cadence    CadencePlan     `json:"cadence"`
	Touches    []SequenceTouch `json:"touches"`
}

// GenerateSequence renders every touch in the tier's cadence, rotating
// proof points and opener angles across touches so no two written
// touches lean on the same story. The email touch is skipped when no
// email address is known. Prior touches already sent (from the
// touchpoint log) seed the rotation and are not regenerated.
func (g *Generator) GenerateSequence(a *artifact.ResearchArtifact, sc *score.Result, prior []PriorTouch, hasEmail bool, start time.Time) (*Sequence, error) {
	tier := "cool"
	if sc != nil {
		tier = string(sc.Tier)
	}
	plan, ok := Cadences[tier]
	if !ok {
		plan = Cadences["warm"]
	}

	sent := make(map[int]bool)
	rotation := append([]PriorTouch(nil), prior...)
	for _, p := range prior {
		sent[p.TouchNumber] = true
	}

	seq := &Sequence{
		ContactID:  a.Contact.ID,
		ArtifactID: a.ID,
		Tier:       tier,
		Cadence:    plan,
	}

	for i, touchNum := range plan.Touches {
		if sent[touchNum] {
			continue
		}
		if touchNum == 5 && !hasEmail {
			continue
		}
		sendDate := start.AddDate(0, 0, plan.DaysBetween[i])

		set, err := g.Generate(a, sc, touchNum, rotation, sendDate)
		if err != nil {
			return nil, err
		}
		seq.Touches = append(seq.Touches, SequenceTouch{
			TouchNumber: touchNum,
			SendDate:    sendDate,
			Variants:    *set,
		})

		// Written touches consume their proof point and angle so the
		// next touch rotates onto fresh material.
		if len(set.Variants) > 0 {
			v := set.Variants[0]
			if v.TouchType != TouchCallSnippet && v.TouchType != TouchBreakup {
				rotation = append(rotation, PriorTouch{
					TouchNumber:   touchNum,
					ProofPointKey: v.ProofPointKey,
					Angle:         v.Angle,
				})
			}
		}
	}
	return seq, nil
}
