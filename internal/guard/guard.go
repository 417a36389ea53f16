// Package guard flags files in protected zones: security-sensitive
// paths where any change requires a decision record and review
// regardless of its complexity score. Zone membership never waives or
// tightens a gate by itself; it adds requirements on top.
package guard

import (
	"path/filepath"
	"strings"
)

// Zone is one protected path pattern and what touching it demands.
type Zone struct {
	Pattern     string `json:"pattern"`
	Category    string `json:"category"`
	Description string `json:"description"`
	RequiresADR bool   `json:"requires_adr"`
}

// deployZones protect deployment and cluster configuration.
var deployZones = []Zone{
	{"*/rbac/*", "deploy", "RBAC configuration", true},
	{"*/network-policy/*", "deploy", "network policy", true},
	{"*/ingress/*", "deploy", "ingress configuration", true},
	{"*/tls/*", "deploy", "TLS certificates", true},
	{"*/secrets/*", "deploy", "secrets management", true},
	{"*/sealed-secrets/*", "deploy", "sealed secrets", true},
}

// sourceZones protect security-sensitive source code.
var sourceZones = []Zone{
	{"*/auth/*", "auth", "authentication module", true},
	{"*/authn/*", "auth", "authentication module", true},
	{"*/authz/*", "auth", "authorization module", true},
	{"*/oauth/*", "auth", "OAuth module", true},
	{"*/jwt/*", "auth", "JWT handling", true},
	{"*/crypto/*", "crypto", "cryptographic code", true},
	{"*/encryption/*", "crypto", "cryptographic code", true},
	{"*/pii/*", "sensitive_data", "personal data handling", true},
	{"*/audit/*", "audit", "audit trail", true},
}

// CheckResult reports which zones a file sits in.
type CheckResult struct {
	Protected    bool     `json:"protected"`
	FilePath     string   `json:"file_path"`
	Zones        []Zone   `json:"zones,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// Check tests a file path against every protected zone pattern and
// accumulates the matched zones' requirements.
func Check(path string) CheckResult {
	normalized := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}

	result := CheckResult{FilePath: path}
	for _, zone := range allZones() {
		if matchZone(normalized, zone.Pattern) {
			result.Protected = true
			result.Zones = append(result.Zones, zone)
			if zone.RequiresADR {
				result.Requirements = append(result.Requirements, "decision record required: "+zone.Description)
			}
		}
	}
	return result
}

func allZones() []Zone {
	zones := make([]Zone, 0, len(deployZones)+len(sourceZones))
	zones = append(zones, deployZones...)
	zones = append(zones, sourceZones...)
	return zones
}

// matchZone matches "*/name/*" style patterns: the named directory
// anywhere in the path. Patterns without wildcards fall back to plain
// glob matching on the basename.
func matchZone(path, pattern string) bool {
	trimmed := strings.TrimPrefix(pattern, "*")
	trimmed = strings.TrimSuffix(trimmed, "*")
	if strings.HasPrefix(trimmed, "/") && strings.HasSuffix(trimmed, "/") {
		return strings.Contains(path, trimmed)
	}
	matched, _ := filepath.Match(pattern, filepath.Base(path))
	return matched
}
