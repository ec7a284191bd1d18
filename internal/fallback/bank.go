// Package fallback holds the static question bank used when AI generation is
// unavailable. The bank ships embedded in the binary so the engine never
// depends on the filesystem or network to produce a question set.
package fallback

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chinonsochikelue/dreamalign-lite-sub000/internal/engine"
)

//go:embed bank.yaml
var bankYAML []byte

type Bank struct {
	Roles   map[string]map[string][]string `yaml:"roles"`
	Default map[string][]string            `yaml:"default"`
}

func Load() (*Bank, error) {
	var b Bank
	if err := yaml.Unmarshal(bankYAML, &b); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	if len(b.Default) == 0 {
		return nil, fmt.Errorf("question bank has no default set")
	}
	return &b, nil
}

// Lookup returns the static question list for a role and interview type, in
// bank order. Unrecognized roles use the role-agnostic default set; an
// unrecognized type falls through to the default general list. Callers
// truncate to the count dictated by difficulty.
func (b *Bank) Lookup(role string, interviewType engine.InterviewType) []string {
	key := strings.ToLower(strings.TrimSpace(role))
	if sets, ok := b.Roles[key]; ok {
		if qs, ok := sets[string(interviewType)]; ok && len(qs) > 0 {
			return qs
		}
	}
	if qs, ok := b.Default[string(interviewType)]; ok && len(qs) > 0 {
		return qs
	}
	return b.Default[string(engine.TypeGeneral)]
}
