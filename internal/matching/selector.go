package matching

import (
	"strings"

	"export-pilot/internal/entity"
)

// Score weights. Keyword agreement dominates; extension agreement only nudges.
const keywordScore = 10

// ExtensionPolicy controls how a rule's allowed extensions are applied.
// The two call-site flavors in the product differ deliberately: the lab
// submission slots exclude wrong-extension files outright, while diagnosis
// and docs auto-fill only reward extension agreement.
type ExtensionPolicy int

const (
	// ExtensionBonus adds Rule.ExtBonus when the file extension is allowed.
	ExtensionBonus ExtensionPolicy = iota
	// ExtensionFilter excludes files whose extension is not allowed.
	ExtensionFilter
)

// Rule is the matching policy for one required-document slot.
type Rule struct {
	Keywords    []string
	AllowedExts []string
	Policy      ExtensionPolicy
	// ExtBonus is the fixed score added for extension agreement (2..4 across
	// call sites). Zero means no extension reward.
	ExtBonus int
	// BonusTokens score like extra half-weight keywords; the product uses the
	// project code here (e.g. "rt100").
	BonusTokens []string
	// BonusTokenScore is added once per BonusToken hit.
	BonusTokenScore int
}

// SelectBest picks the single best-matching file for rule, or nil.
//
// Each file scores +10 per normalized keyword appearing as a substring of the
// normalized file name, plus the rule's extension bonus when its extension is
// allowed. Ties keep the first-seen file. A best score of zero is never a
// match: an empty rule must not spuriously select anything.
func SelectBest(files []entity.FileRecord, rule Rule) *entity.FileRecord {
	keywords := make([]string, 0, len(rule.Keywords))
	for _, k := range rule.Keywords {
		if n := Normalize(k); n != "" {
			keywords = append(keywords, n)
		}
	}
	allowed := make(map[string]struct{}, len(rule.AllowedExts))
	for _, e := range rule.AllowedExts {
		allowed[Normalize(e)] = struct{}{}
	}

	var best *entity.FileRecord
	bestScore := -1

	for i := range files {
		f := &files[i]
		name := Normalize(f.Name)
		ext := Ext(f.Name)

		_, extOK := allowed[ext]
		if rule.Policy == ExtensionFilter && len(allowed) > 0 && !extOK {
			continue
		}

		score := 0
		for _, k := range keywords {
			if strings.Contains(name, k) {
				score += keywordScore
			}
		}
		if len(allowed) > 0 && extOK {
			score += rule.ExtBonus
		}
		for _, t := range rule.BonusTokens {
			if n := Normalize(t); n != "" && strings.Contains(name, n) {
				score += rule.BonusTokenScore
			}
		}

		if score > bestScore {
			bestScore = score
			best = f
		}
	}

	if bestScore <= 0 {
		return nil
	}
	out := *best
	return &out
}
