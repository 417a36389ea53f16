// Package waiver resolves complexity waivers for a source file. Two
// tiers are consulted in order: an external .waiver.json registry
// discovered by walking up from the file, then an inline declaration
// in the source itself. An external match wins even when expired, so
// the audit trail always names the entry that applied.
//
// Resolution never fails past this boundary: missing files, malformed
// registries, and unreadable documents all degrade to a not-waived
// result carrying a human-readable reason.
package waiver

import "time"

// Overrides carries the per-rule threshold overrides an inline
// declaration may supply.
type Overrides struct {
	Nesting       *int `json:"nesting,omitempty"`
	ConceptsTotal *int `json:"concepts_total,omitempty"`
}

// Resolution is the outcome of a waiver check.
type Resolution struct {
	Waived bool `json:"waived"`

	// Matched reports that some entry or declaration applied, even
	// when it did not waive (expired entry, thin decision record).
	Matched bool `json:"matched"`

	Reason    string     `json:"reason,omitempty"`
	ADR       string     `json:"adr,omitempty"`
	Entry     *Entry     `json:"entry,omitempty"`
	Overrides *Overrides `json:"overrides,omitempty"`
}

// Resolver runs the two-tier resolution chain. The zero value uses
// the real clock.
type Resolver struct {
	// Now overrides the clock for expiry checks (nil means time.Now).
	Now func() time.Time
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Check resolves a waiver for the file. The external registry is
// consulted first when both paths are known; inline declarations are
// a fallback only when no external entry matched at all.
func (r Resolver) Check(source []byte, filePath, projectRoot string) Resolution {
	if filePath != "" && projectRoot != "" {
		external := r.checkExternal(filePath, projectRoot)
		if external.Matched {
			return external
		}
	}
	return r.checkInline(source, filePath, projectRoot)
}
