package waiver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func fixedClock(day string) func() time.Time {
	return func() time.Time {
		ts, _ := time.Parse("2006-01-02", day)
		return ts
	}
}

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"src/auth/login.go", "src/auth/login.go", true},
		{"src/crypto/aes.go", "src/crypto/*.go", true},
		{"src/crypto/sub/aes.go", "src/crypto/*.go", false},
		{"internal/a/b/c.go", "internal/**/*.go", true},
		{"internal/top.go", "internal/**/*.go", true},
		{"pkg/a/b.go", "internal/**/*.go", false},
		// The prefix stops at a segment boundary: sibling directories
		// and files sharing the prefix string stay outside the waiver.
		{"internals/evil.go", "internal/**/*.go", false},
		{"internalfoo.go", "internal/**/*.go", false},
		{"a/deep/tree/x.go", "**/*.go", true},
		// Any-depth patterns outside the .go-suffix shape fail closed.
		{"src/a/b/c.py", "src/**/*.py", false},
		{"src/auth/login.go", "src/crypto/*.go", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MatchPattern(tc.path, tc.pattern), "path %q pattern %q", tc.path, tc.pattern)
	}
}

func TestParseRegistry(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	writeFile(t, valid, `{"version":"1.0","waivers":[{"pattern":"src/*.go","adr":"ADR-007"}]}`)
	reg, err := ParseRegistry(valid)
	require.NoError(t, err)
	require.NotNil(t, reg)
	require.Len(t, reg.Waivers, 1)
	assert.Equal(t, "ADR-007", reg.Waivers[0].ADR)

	// Missing version or waivers parses to "no registry".
	headless := filepath.Join(dir, "headless.json")
	writeFile(t, headless, `{"waivers":[]}`)
	reg, err = ParseRegistry(headless)
	require.NoError(t, err)
	assert.Nil(t, reg)

	malformed := filepath.Join(dir, "malformed.json")
	writeFile(t, malformed, `{"version":`)
	_, err = ParseRegistry(malformed)
	assert.Error(t, err)
}

func TestFindRegistry_WalksUpward(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, RegistryFilename), `{"version":"1.0","waivers":[]}`)

	subject := filepath.Join(root, "src", "auth", "login.go")
	writeFile(t, subject, "package auth")

	found := FindRegistry(subject, root)
	assert.Equal(t, filepath.Join(root, RegistryFilename), found)

	empty := t.TempDir()
	other := filepath.Join(empty, "x.go")
	writeFile(t, other, "package x")
	assert.Empty(t, FindRegistry(other, empty))
}

func TestIsExpired(t *testing.T) {
	at, _ := time.Parse("2006-01-02", "2026-08-24")
	past := "2025-12-31"
	future := "2027-01-01"
	garbage := "not-a-date"

	assert.False(t, IsExpired(Entry{}, at))
	assert.True(t, IsExpired(Entry{ExpiresAt: &past}, at))
	assert.False(t, IsExpired(Entry{ExpiresAt: &future}, at))
	// A typo must not silently revoke an approved waiver.
	assert.False(t, IsExpired(Entry{ExpiresAt: &garbage}, at))
}

func TestCheck_ExternalWaived(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, RegistryFilename), `{
		"version": "1.0",
		"waivers": [
			{"pattern": "src/crypto/*.go", "adr": "ADR-007", "justification": "constant-time primitives", "expires_at": "2027-12-31"}
		]
	}`)
	subject := filepath.Join(root, "src", "crypto", "aes.go")
	writeFile(t, subject, "package crypto")

	r := Resolver{Now: fixedClock("2026-08-24")}
	res := r.Check(nil, subject, root)

	assert.True(t, res.Waived)
	assert.True(t, res.Matched)
	assert.Equal(t, "ADR-007", res.ADR)
	assert.Equal(t, "constant-time primitives", res.Reason)
	require.NotNil(t, res.Entry)
}

func TestCheck_ExpiredEntryStillReported(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, RegistryFilename), `{
		"version": "1.0",
		"waivers": [
			{"pattern": "src/crypto/*.go", "adr": "ADR-007", "expires_at": "2025-12-31"}
		]
	}`)
	subject := filepath.Join(root, "src", "crypto", "aes.go")
	writeFile(t, subject, "package crypto")

	r := Resolver{Now: fixedClock("2026-08-24")}
	res := r.Check(nil, subject, root)

	// Expired: not waived, but the matched entry and its decision
	// record stay visible for audit.
	assert.False(t, res.Waived)
	assert.True(t, res.Matched)
	assert.Equal(t, "ADR-007", res.ADR)
	require.NotNil(t, res.Entry)
	assert.Contains(t, res.Reason, "expired")
}

func TestCheck_FirstMatchingEntryWins(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, RegistryFilename), `{
		"version": "1.0",
		"waivers": [
			{"pattern": "src/**/*.go", "adr": "ADR-001", "justification": "broad"},
			{"pattern": "src/crypto/*.go", "adr": "ADR-007", "justification": "narrow"}
		]
	}`)
	subject := filepath.Join(root, "src", "crypto", "aes.go")
	writeFile(t, subject, "package crypto")

	res := Resolver{}.Check(nil, subject, root)
	assert.True(t, res.Waived)
	assert.Equal(t, "ADR-001", res.ADR)
}

func TestParseInline(t *testing.T) {
	source := []byte(`package sample

var __essential_complexity__ = map[string]any{
	"adr":     "docs/adr/003-parser.md",
	"nesting": 7,
	"reason":  "documentation only",
}
`)
	cfg := ParseInline(source)
	require.NotNil(t, cfg)
	assert.Equal(t, "docs/adr/003-parser.md", cfg.ADR)
	require.NotNil(t, cfg.Nesting)
	assert.Equal(t, 7, *cfg.Nesting)
	assert.Nil(t, cfg.ConceptsTotal)
}

func TestParseInline_NestedConcepts(t *testing.T) {
	source := []byte(`package sample

var __essential_complexity__ = map[string]any{
	"adr":      "docs/adr/004.md",
	"concepts": map[string]any{"total": 15},
}
`)
	cfg := ParseInline(source)
	require.NotNil(t, cfg)
	require.NotNil(t, cfg.ConceptsTotal)
	assert.Equal(t, 15, *cfg.ConceptsTotal)
}

func TestParseInline_Absent(t *testing.T) {
	assert.Nil(t, ParseInline([]byte("package sample\n\nfunc F() {}\n")))
	assert.Nil(t, ParseInline([]byte("not go source at all")))
}

func TestCheck_InlineADRSubstance(t *testing.T) {
	root := t.TempDir()
	source := []byte(`package sample

var __essential_complexity__ = map[string]any{
	"adr": "docs/adr/001.md",
}
`)
	subject := filepath.Join(root, "src", "sample.go")
	writeFile(t, subject, string(source))
	adrPath := filepath.Join(root, "docs", "adr", "001.md")

	// 49 trimmed characters: insufficient.
	writeFile(t, adrPath, strings.Repeat("x", 49)+"\n\n")
	res := Resolver{}.Check(source, subject, root)
	assert.False(t, res.Waived)
	assert.True(t, res.Matched)
	assert.Contains(t, res.Reason, "too short")

	// 50 trimmed characters: accepted.
	writeFile(t, adrPath, strings.Repeat("x", 50)+"\n\n")
	res = Resolver{}.Check(source, subject, root)
	assert.True(t, res.Waived)
	assert.Equal(t, "docs/adr/001.md", res.ADR)
}

func TestCheck_InlineMissingADRFile(t *testing.T) {
	root := t.TempDir()
	source := []byte(`package sample

var __essential_complexity__ = map[string]any{
	"adr":     "docs/adr/missing.md",
	"nesting": 9,
}
`)
	subject := filepath.Join(root, "src", "sample.go")
	writeFile(t, subject, string(source))

	res := Resolver{}.Check(source, subject, root)
	assert.False(t, res.Waived)
	assert.Contains(t, res.Reason, "not readable")
	require.NotNil(t, res.Overrides)
	require.NotNil(t, res.Overrides.Nesting)
	assert.Equal(t, 9, *res.Overrides.Nesting)
}

func TestCheck_ExternalMatchSuppressesInline(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, RegistryFilename), `{
		"version": "1.0",
		"waivers": [
			{"pattern": "src/*.go", "adr": "ADR-020", "expires_at": "2020-01-01"}
		]
	}`)
	adrPath := filepath.Join(root, "docs", "adr", "002.md")
	writeFile(t, adrPath, strings.Repeat("y", 80))
	source := []byte(`package sample

var __essential_complexity__ = map[string]any{
	"adr": "docs/adr/002.md",
}
`)
	subject := filepath.Join(root, "src", "sample.go")
	writeFile(t, subject, string(source))

	// The expired external match decides; the valid inline waiver is
	// never consulted.
	res := Resolver{Now: fixedClock("2026-08-24")}.Check(source, subject, root)
	assert.False(t, res.Waived)
	assert.Equal(t, "ADR-020", res.ADR)
	require.NotNil(t, res.Entry)
}

func TestCheck_NothingApplies(t *testing.T) {
	root := t.TempDir()
	subject := filepath.Join(root, "src", "plain.go")
	writeFile(t, subject, "package plain")

	res := Resolver{}.Check([]byte("package plain"), subject, root)
	assert.False(t, res.Waived)
	assert.False(t, res.Matched)
	assert.NotEmpty(t, res.Reason)
}
