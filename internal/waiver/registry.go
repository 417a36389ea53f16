package waiver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// RegistryFilename is the external waiver registry's fixed name.
const RegistryFilename = ".waiver.json"

// Entry is one waiver in the external registry. The engine only ever
// reads entries; humans edit the registry file.
type Entry struct {
	Pattern       string  `json:"pattern"`
	ADR           string  `json:"adr"`
	Justification *string `json:"justification,omitempty"`
	ApprovedAt    *string `json:"approved_at,omitempty"`
	ExpiresAt     *string `json:"expires_at,omitempty"`
	Approver      *string `json:"approver,omitempty"`
}

// Registry is the parsed .waiver.json structure.
type Registry struct {
	Schema  string  `json:"$schema,omitempty"`
	Version string  `json:"version"`
	Waivers []Entry `json:"waivers"`
}

// ParseRegistry parses a registry file. A file missing version or
// waivers parses to nil, treated the same as no registry at all.
func ParseRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, err
	}
	if reg.Version == "" || reg.Waivers == nil {
		return nil, nil
	}
	return &reg, nil
}

// FindRegistry walks up from the file's directory toward projectRoot
// looking for a registry file. Returns "" when none exists inside the
// root.
func FindRegistry(filePath, projectRoot string) string {
	current := filepath.Dir(filePath)
	for strings.HasPrefix(current, projectRoot) || current == projectRoot {
		candidate := filepath.Join(current, RegistryFilename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return ""
}

// MatchPattern tests a slash-normalized relative path against an
// entry's pattern. Single-segment globs go through filepath.Match; a
// pattern containing the any-depth "**" segment is only honored in
// its prefix-plus-extension form ("dir/**/*.go"). Patterns outside
// that shape do not match, which fails closed: an unrecognized
// pattern never waives anything.
func MatchPattern(path, pattern string) bool {
	normalizedPath := strings.ReplaceAll(path, "\\", "/")
	normalizedPattern := strings.ReplaceAll(pattern, "\\", "/")

	if matched, _ := filepath.Match(normalizedPattern, normalizedPath); matched {
		return true
	}

	if strings.Contains(normalizedPattern, "**") {
		if strings.HasSuffix(normalizedPattern, "*.go") {
			base := strings.TrimSuffix(normalizedPattern, "*.go")
			base = strings.TrimSuffix(base, "/")
			base = strings.TrimSuffix(base, "**")
			base = strings.TrimSuffix(base, "/")
			if !strings.HasSuffix(normalizedPath, ".go") {
				return false
			}
			// The prefix must end at a path segment boundary so a
			// waiver on internal/** cannot reach internals/.
			return base == "" || strings.HasPrefix(normalizedPath, base+"/")
		}
	}

	return false
}

// expiresLayout is the registry's date format for expires_at.
const expiresLayout = "2006-01-02"

// IsExpired reports whether an entry's expiry date has passed at the
// given time. No expiry means permanent; an unparseable date counts
// as not expired so a typo cannot silently revoke an approved waiver.
func IsExpired(entry Entry, at time.Time) bool {
	if entry.ExpiresAt == nil || *entry.ExpiresAt == "" {
		return false
	}
	expiry, err := time.Parse(expiresLayout, *entry.ExpiresAt)
	if err != nil {
		return false
	}
	return at.After(expiry)
}

// checkExternal resolves against the external registry. Matched is
// true whenever some entry's pattern applied, including expired
// entries, so the caller can stop the fallback chain and surface the
// entry for audit.
func (r Resolver) checkExternal(filePath, projectRoot string) Resolution {
	registryPath := FindRegistry(filePath, projectRoot)
	if registryPath == "" {
		return Resolution{Reason: "no waiver registry found"}
	}

	reg, err := ParseRegistry(registryPath)
	if err != nil || reg == nil {
		return Resolution{Reason: "waiver registry unreadable or malformed"}
	}

	relative, err := filepath.Rel(projectRoot, filePath)
	if err != nil {
		relative = filePath
	}
	relative = strings.ReplaceAll(relative, "\\", "/")

	for i := range reg.Waivers {
		entry := reg.Waivers[i]
		if !MatchPattern(relative, entry.Pattern) {
			continue
		}
		if IsExpired(entry, r.now()) {
			return Resolution{
				Matched: true,
				Reason:  "waiver expired: " + *entry.ExpiresAt,
				ADR:     entry.ADR,
				Entry:   &entry,
			}
		}
		reason := ""
		if entry.Justification != nil {
			reason = *entry.Justification
		}
		return Resolution{
			Waived:  true,
			Matched: true,
			Reason:  reason,
			ADR:     entry.ADR,
			Entry:   &entry,
		}
	}

	return Resolution{Reason: "no waiver pattern matched"}
}
