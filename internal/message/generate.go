package message

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"cadence/internal/artifact"
	"cadence/internal/logging"
	"cadence/internal/score"
)

// WordBounds returns the body word-count window for a touch number.
// Written touches have tight windows; call snippets get the default.
func WordBounds(touchNumber int) (minWords, maxWords int) {
	switch touchNumber {
	case 1, 5:
		return 70, 120
	case 3:
		return 40, 70
	case 6:
		return 30, 50
	}
	return 30, 130
}

// Generator renders message variants from artifacts and scores. It is
// deterministic: the same inputs always produce the same bodies, so a
// regenerated variant can be diffed against a stored one.
type Generator struct {
	catalog *Catalog
	log     *slog.Logger
}

func NewGenerator(c *Catalog) *Generator {
	return &Generator{catalog: c, log: logging.New("message")}
}

// Generate produces one variant per tone for a single touch. Prior
// touches feed rotation: their proof points are excluded and their
// opener angles deprioritized. Fails closed with
// *InsufficientEvidenceError when the artifact has no evidence-backed
// hook to open from.
func (g *Generator) Generate(a *artifact.ResearchArtifact, sc *score.Result, touchNumber int, prior []PriorTouch, now time.Time) (*VariantSet, error) {
	usedAngles := make(map[string]bool)
	excludePPs := make(map[string]bool)
	for _, p := range prior {
		if p.Angle != "" {
			usedAngles[p.Angle] = true
		}
		if p.ProofPointKey != "" {
			excludePPs[p.ProofPointKey] = true
		}
	}

	hook, err := pickOpenerHook(a, usedAngles)
	if err != nil {
		return nil, err
	}

	pp, ok := SelectProofPoint(g.catalog, a, excludePPs)
	if !ok {
		// Every proof point already used: restart rotation.
		pp, _ = SelectProofPoint(g.catalog, a, nil)
	}

	tier := "cool"
	scoreID := ""
	if sc != nil {
		tier = string(sc.Tier)
		scoreID = sc.ID
	}

	channel, touchType := ChannelFor(touchNumber)
	objection := PredictObjection(a)
	rawPain := pickPainHook(a)
	firstName := firstNameOf(a.Contact.Name)
	company := a.Account.Name
	if company == "" {
		company = "your company"
	}

	set := &VariantSet{
		ContactID:   a.Contact.ID,
		ArtifactID:  a.ID,
		TouchNumber: touchNumber,
		Tier:        tier,
	}

	for _, tone := range Tones {
		v := Variant{
			ID:                 uuid.NewString(),
			ContactID:          a.Contact.ID,
			ArtifactID:         a.ID,
			ScoreID:            scoreID,
			TouchNumber:        touchNumber,
			Channel:            channel,
			TouchType:          touchType,
			Tone:               tone,
			PainHook:           rawPain,
			PredictedObjection: objection,
			CreatedAt:          now,
		}

		switch touchType {
		case TouchCallSnippet:
			v.Body = g.renderSnippet(a, tone, firstName, company, rawPain, pp)
			v.ProofPointKey = pp.Key
		case TouchBreakup:
			v.Body = renderBreakup(tone, firstName, company, signoff(tone, g.catalog.Sender))
		default:
			g.renderWritten(&v, a, tier, tone, touchNumber, firstName, company, rawPain, hook, pp)
		}

		v.WordCount = wordCount(v.Body)
		v.SubjectCandidates = subjectCandidates(touchNumber, firstName, company,
			functionLabel(a.Contact.Title), shortPainLabel(rawPain), g.catalog.Company)
		set.Variants = append(set.Variants, v)
	}

	g.log.Debug("variants generated",
		"contact_id", a.Contact.ID,
		"touch", touchNumber,
		"tier", tier,
		"proof_point", pp.Key,
		"angle", hook.Source)
	return set, nil
}

// renderWritten fills in a touch 1, 3, or 5 body plus the variant
// fields that only written touches carry.
func (g *Generator) renderWritten(v *Variant, a *artifact.ResearchArtifact, tier string, tone Tone, touchNumber int, firstName, company, rawPain string, hook artifact.Hook, pp SelectedProofPoint) {
	tools, competitor := toolsAndCompetitor(a)
	opener := renderOpener(hook, a, tone)
	pain := renderPainSentence(rawPain, a, tone)
	bridge := bridgePhrase(pp.Text, a, tools)
	cta := connectedCTA(tier, tone, a.Contact.Seniority, company, competitor)
	soft := softAsk(tier, tone)
	sign := signoff(tone, g.catalog.Sender)
	vp := pickValueProp(g.catalog, a, tone)

	ctaLine := cta
	if soft != "" {
		ctaLine = cta + " " + soft
	}

	var d draft
	d.greeting = "Hi " + firstName + ","
	d.ctaLine = ctaLine
	d.ctaBare = cta
	d.signoff = sign

	switch touchNumber {
	case 3:
		switch tone {
		case ToneFriendly:
			d.core = []string{"Circling back quick. Thought this might be relevant for " + company + " - " + pp.Text + bridge + "."}
		case ToneDirect:
			d.core = []string{"Following up. " + pp.Text + bridge + ". " + cta}
			d.ctaLine, d.ctaBare = "", ""
		default:
			d.core = []string{"Circling back - " + pp.Text + bridge + ". " + ctaLine}
			d.ctaLine, d.ctaBare = "", ""
		}
	case 5:
		other, _ := SelectProofPoint(g.catalog, a, map[string]bool{pp.Key: true})
		d.ps = psLine(tier, ChannelEmail, pp, other)
		switch tone {
		case ToneFriendly:
			d.core = []string{
				"Reaching out via email since I know LinkedIn can get noisy. " + opener + ".",
				capitalize(pain) + " - " + pp.Text + bridge + ".",
			}
		case ToneDirect:
			proofAndAsk := pp.Text + bridge + "."
			if vp != "" {
				proofAndAsk += " " + vp + "."
			}
			proofAndAsk += " " + cta
			d.core = []string{
				"Switching to email. " + opener + ". " + capitalize(pain) + ".",
				proofAndAsk,
			}
			d.ctaLine, d.ctaBare = "", ""
		default:
			d.core = []string{
				"Trying email since LinkedIn can be easy to miss. " + opener + " - " + pain + "?",
				pp.Text + bridge + ". " + ctaLine,
			}
			d.ctaLine, d.ctaBare = "", ""
		}
	default: // touch 1
		d.core = []string{opener + ". " + capitalize(pain) + " - " + pp.Text + bridge + "."}
	}

	for _, prop := range g.catalog.ValueProps {
		d.padding = append(d.padding, prop+".")
	}

	minW, maxW := WordBounds(touchNumber)
	v.Body = d.fit(minW, maxW)
	v.Opener = opener
	v.OpenerEvidence = hook.Evidence
	v.Angle = hook.Source
	v.ProofPointKey = pp.Key
	v.CTA = cta
}

func (g *Generator) renderSnippet(a *artifact.ResearchArtifact, tone Tone, firstName, company, rawPain string, pp SelectedProofPoint) string {
	senderFirst := firstNameOf(g.catalog.Sender)
	pain := renderPainSentence(rawPain, a, tone)

	var opener string
	switch tone {
	case ToneFriendly:
		opener = "Hey " + firstName + ", this is " + senderFirst + " from " + g.catalog.Company + " - calling about your " + a.Contact.Title + " work at " + company + "."
	case ToneDirect:
		opener = "Hi " + firstName + ", " + senderFirst + " from " + g.catalog.Company + ". Quick call about " + company + "."
	default:
		opener = "Hey " + firstName + ", " + senderFirst + " from " + g.catalog.Company + " - had a question about how " + company + " handles test automation."
	}

	return "OPENER: " + opener + "\n" +
		"PAIN: " + capitalize(pain) + ".\n" +
		"BRIDGE: We helped " + pp.Short + ". Worth 60 seconds to see if it's relevant?"
}

// renderBreakup writes the close-out touch: no pitch, no proof point,
// one question so the door stays visibly open.
func renderBreakup(tone Tone, firstName, company, sign string) string {
	switch tone {
	case ToneFriendly:
		return "Hi " + firstName + ",\n\n" +
			"I've reached out a couple of times and haven't heard back, which is totally fine. " +
			"Mind if I close the loop so I'm not clogging your inbox?\n\n" +
			"If the timing's ever right, my door's open.\n\n" + sign
	case ToneDirect:
		return "Hi " + firstName + ",\n\n" +
			"Closing the loop here. If testing tooling comes back on the radar at " + company + ", would a quick note be welcome then?\n\n" +
			"Either way, thanks for the time - I'll leave it here unless I hear otherwise.\n\n" + sign
	default:
		return "Hi " + firstName + ",\n\n" +
			"Figured I'd close the loop rather than keep pinging. " +
			"If priorities shift down the road, is it fair to assume I can reach back out?\n\n" +
			"Either way, wishing you and the team a smooth release season.\n\n" + sign
	}
}

// draft holds the pieces of a written body so word-count fitting can
// pad or trim without string surgery on an assembled message.
type draft struct {
	greeting string
	core     []string
	ctaLine  string // empty when the CTA is folded into core
	ctaBare  string // ctaLine without the softener
	signoff  string
	ps       string
	padding  []string // value-prop sentences, appended as needed
}

func (d *draft) assemble(withPS bool, soft bool) string {
	paras := []string{d.greeting}
	paras = append(paras, d.core...)
	if d.ctaLine != "" {
		if soft {
			paras = append(paras, d.ctaLine)
		} else {
			paras = append(paras, d.ctaBare)
		}
	}
	paras = append(paras, d.signoff)
	body := strings.Join(paras, "\n\n")
	if withPS && d.ps != "" {
		body += "\n\n" + d.ps
	}
	return body
}

// fit pads a short body with unused value-prop sentences and trims a
// long one by dropping the PS and then the softener. Only approved
// catalog copy is ever added, never synthesized filler.
func (d *draft) fit(minW, maxW int) string {
	body := d.assemble(true, true)
	for wordCount(body) < minW && len(d.padding) > 0 {
		next := d.padding[0]
		d.padding = d.padding[1:]
		if strings.Contains(body, strings.TrimSuffix(next, ".")) {
			continue
		}
		d.core = append(d.core, next)
		body = d.assemble(true, true)
	}
	if wordCount(body) > maxW {
		body = d.assemble(false, true)
	}
	if wordCount(body) > maxW {
		body = d.assemble(false, false)
	}
	return body
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func firstNameOf(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return "there"
	}
	return fields[0]
}
