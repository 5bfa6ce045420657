// Package message composes tone variants of outreach copy for a numbered
// touch sequence. Every factual claim is pulled from the proof-point
// catalog or an artifact evidence string; when no evidence-backed hook
// exists the generator fails closed rather than fabricating one.
package message

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// ProofPoint is a pre-approved, factual customer outcome.
type ProofPoint struct {
	Text    string   `yaml:"text"`
	Short   string   `yaml:"short"`
	BestFor []string `yaml:"best_for"`
	Metric  string   `yaml:"metric"`
}

// Catalog is the closed content catalog: proof points, value props,
// approved customer names and stats, and the forbidden-phrase list.
// Loaded once and passed around as an immutable snapshot.
type Catalog struct {
	Sender           string                `yaml:"sender"`
	Company          string                `yaml:"company"`
	ProofPoints      map[string]ProofPoint `yaml:"proof_points"`
	ValueProps       []string              `yaml:"value_props"`
	ForbiddenPhrases []string              `yaml:"forbidden_phrases"`
	Customers        []string              `yaml:"customers"`
	Stats            []string              `yaml:"stats"`
}

// LoadCatalog reads and validates a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return parseCatalog(data)
}

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	c, err := parseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog invalid: %v", err))
	}
	return c
}

func parseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(c.ProofPoints) == 0 {
		return nil, fmt.Errorf("catalog has no proof points")
	}
	for key, pp := range c.ProofPoints {
		if pp.Text == "" || pp.Short == "" {
			return nil, fmt.Errorf("proof point %q missing text or short form", key)
		}
	}
	if c.Sender == "" || c.Company == "" {
		return nil, fmt.Errorf("catalog must name sender and company")
	}
	if len(c.ValueProps) < 2 {
		return nil, fmt.Errorf("catalog needs at least two value props")
	}
	return &c, nil
}

// Has reports whether a proof-point key exists in the catalog.
func (c *Catalog) Has(key string) bool {
	_, ok := c.ProofPoints[key]
	return ok
}

// Keys returns all proof-point keys, sorted.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.ProofPoints))
	for k := range c.ProofPoints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ApprovedCustomer reports whether a name appears in the approved
// customer list (case-insensitive).
func (c *Catalog) ApprovedCustomer(name string) bool {
	for _, cust := range c.Customers {
		if strings.EqualFold(cust, name) {
			return true
		}
	}
	return false
}
