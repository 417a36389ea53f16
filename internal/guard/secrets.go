package guard

import (
	"fmt"
	"regexp"
	"strings"
)

// SecretViolation is one secret-pattern hit in source text. Match is
// masked so the report itself never reproduces a full credential.
type SecretViolation struct {
	Pattern  string `json:"pattern"`
	Match    string `json:"match"`
	Line     int    `json:"line"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type secretPattern struct {
	re       *regexp.Regexp
	name     string
	severity string
}

var secretPatterns = []secretPattern{
	{regexp.MustCompile("(?i)['\"`](?:api[_-]?key|apikey)['\"`]\\s*[=:]\\s*['\"`][^'\"`]{10,}['\"`]"), "API_KEY", "error"},
	{regexp.MustCompile("(?i)['\"`](?:secret|password|passwd|pwd)['\"`]\\s*[=:]\\s*['\"`][^'\"`]{6,}['\"`]"), "SECRET", "error"},
	{regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+`), "BEARER_TOKEN", "error"},
	{regexp.MustCompile(`AKIA[0-9A-Z]{16}`), "AWS_ACCESS_KEY", "error"},
	{regexp.MustCompile(`(?i)aws[_-]?secret[_-]?access[_-]?key`), "AWS_SECRET_KEY", "error"},
	{regexp.MustCompile(`-----BEGIN\s+(?:RSA\s+)?PRIVATE\s+KEY-----`), "PRIVATE_KEY", "error"},
	{regexp.MustCompile(`(?i)(?:mongodb|postgres|mysql|redis)://[^@\s]+:[^@\s]+@`), "DB_CONNECTION_STRING", "error"},
	// Direct environment reads are a smell, not a leak.
	{regexp.MustCompile(`os\.Getenv\("[A-Z_]+"\)`), "ENV_ACCESS", "warning"},
	{regexp.MustCompile(`os\.LookupEnv\("[A-Z_]+"\)`), "ENV_ACCESS", "warning"},
}

const maskThreshold = 20

// maskSecret keeps enough of the match to locate it without
// reproducing the credential.
func maskSecret(match string) string {
	if len(match) > maskThreshold {
		return match[:10] + "..." + match[len(match)-5:]
	}
	return match
}

// DetectSecrets scans source text for hardcoded-credential patterns
// and returns one violation per hit, with a 1-based line number.
func DetectSecrets(code string) []SecretViolation {
	var violations []SecretViolation
	for _, p := range secretPatterns {
		for _, loc := range p.re.FindAllStringIndex(code, -1) {
			line := strings.Count(code[:loc[0]], "\n") + 1
			masked := maskSecret(code[loc[0]:loc[1]])

			var message string
			if p.severity == "error" {
				message = fmt.Sprintf("ERROR: %s detected at line %d. Remove before commit.", p.name, line)
			} else {
				message = fmt.Sprintf("WARNING: %s at line %d. Consider using secrets manager.", p.name, line)
			}

			violations = append(violations, SecretViolation{
				Pattern:  p.name,
				Match:    masked,
				Line:     line,
				Severity: p.severity,
				Message:  message,
			})
		}
	}
	return violations
}
