package artifact

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed pains.yaml
var defaultPainsYAML []byte

// LibraryPain is one curated pain entry in the vertical library.
type LibraryPain struct {
	Pain       string   `yaml:"pain"`
	Confidence float64  `yaml:"confidence"`
	Tags       []string `yaml:"tags,omitempty"`
}

// VerticalPains holds the curated pains and typical tooling for one vertical.
type VerticalPains struct {
	TypicalTools []string      `yaml:"typical_tools,omitempty"`
	Pains        []LibraryPain `yaml:"pains"`
}

// PainLibrary is the per-vertical pain-hypothesis library. Loaded once,
// then treated as an immutable snapshot; reload by calling LoadPainLibrary
// again.
type PainLibrary struct {
	Verticals map[string]VerticalPains `yaml:"verticals"`
}

// LoadPainLibrary reads and validates a pain library from a YAML file.
func LoadPainLibrary(path string) (*PainLibrary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pain library: %w", err)
	}
	return parsePainLibrary(data)
}

// DefaultPainLibrary returns the embedded library.
func DefaultPainLibrary() *PainLibrary {
	lib, err := parsePainLibrary(defaultPainsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded pain library invalid: %v", err))
	}
	return lib
}

func parsePainLibrary(data []byte) (*PainLibrary, error) {
	var lib PainLibrary
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse pain library: %w", err)
	}
	for vertical, vp := range lib.Verticals {
		for _, p := range vp.Pains {
			if p.Confidence < 0 || p.Confidence > 1 {
				return nil, fmt.Errorf("pain library %s/%q: confidence %v out of [0,1]",
					vertical, p.Pain, p.Confidence)
			}
		}
	}
	return &lib, nil
}

// PainsFor returns the library pains for a vertical as evidence-cited
// hypotheses. Confidence is boosted by 0.1 (capped at 1.0) when the
// account's known tools overlap the vertical's typical tooling.
func (l *PainLibrary) PainsFor(vertical string, knownTools []string) []PainHypothesis {
	vp, ok := l.Verticals[vertical]
	if !ok {
		for k, v := range l.Verticals {
			if strings.EqualFold(k, vertical) {
				vp, ok = v, true
				break
			}
		}
	}
	if !ok {
		return nil
	}

	overlap := false
	for _, t := range knownTools {
		for _, typical := range vp.TypicalTools {
			if strings.EqualFold(t, typical) {
				overlap = true
			}
		}
	}

	var pains []PainHypothesis
	for _, p := range vp.Pains {
		conf := p.Confidence
		if overlap {
			conf = math.Min(1.0, conf+0.1)
		}
		pains = append(pains, PainHypothesis{
			Label:      p.Pain,
			Confidence: math.Round(conf*100) / 100,
			Evidence:   "vertical pain library: " + vertical,
		})
	}
	return pains
}
