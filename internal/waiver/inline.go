package waiver

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// inlineName is the declaration the inline tier looks for:
//
//	var __essential_complexity__ = map[string]any{
//		"adr":     "docs/adr/003-parser-complexity.md",
//		"nesting": 7,
//	}
const inlineName = "__essential_complexity__"

// minADRLength is the minimum trimmed length of a decision record.
// Anything shorter is a stub, not a justification.
const minADRLength = 50

// InlineConfig is the parsed inline declaration.
type InlineConfig struct {
	ADR           string `json:"adr"`
	Nesting       *int   `json:"nesting,omitempty"`
	ConceptsTotal *int   `json:"concepts_total,omitempty"`
}

// ParseInline extracts the inline waiver declaration from Go source.
// Returns nil when the source does not parse or carries no
// declaration; both are the common case, not errors.
func ParseInline(source []byte) *InlineConfig {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", source, parser.ParseComments)
	if err != nil {
		return nil
	}

	for _, decl := range file.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.VAR {
			continue
		}
		for _, spec := range gen.Specs {
			value, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, name := range value.Names {
				if name.Name == inlineName && i < len(value.Values) {
					return parseInlineValue(value.Values[i])
				}
			}
		}
	}
	return nil
}

// parseInlineValue reads the declaration's composite map literal.
// Unknown keys are ignored so documentation-only fields ("reason")
// stay legal.
func parseInlineValue(expr ast.Expr) *InlineConfig {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return nil
	}

	cfg := &InlineConfig{}
	found := false
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := stringLit(kv.Key)
		if !ok {
			continue
		}
		switch key {
		case "adr":
			if s, ok := stringLit(kv.Value); ok {
				cfg.ADR = s
				found = true
			}
		case "nesting":
			if n, ok := intLit(kv.Value); ok {
				cfg.Nesting = &n
				found = true
			}
		case "concepts_total":
			if n, ok := intLit(kv.Value); ok {
				cfg.ConceptsTotal = &n
				found = true
			}
		case "concepts":
			// Nested form: "concepts": map[string]any{"total": 15}.
			if nested, ok := kv.Value.(*ast.CompositeLit); ok {
				for _, ne := range nested.Elts {
					nkv, ok := ne.(*ast.KeyValueExpr)
					if !ok {
						continue
					}
					if nk, ok := stringLit(nkv.Key); ok && nk == "total" {
						if n, ok := intLit(nkv.Value); ok {
							cfg.ConceptsTotal = &n
							found = true
						}
					}
				}
			}
		}
	}
	if !found {
		return nil
	}
	return cfg
}

func stringLit(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

func intLit(expr ast.Expr) (int, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return 0, false
	}
	n, err := strconv.Atoi(lit.Value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// checkInline resolves the inline tier: the declaration must name a
// decision record that exists on disk and carries real content.
func (r Resolver) checkInline(source []byte, filePath, projectRoot string) Resolution {
	cfg := ParseInline(source)
	if cfg == nil {
		return Resolution{Reason: "no inline waiver declaration"}
	}

	overrides := &Overrides{Nesting: cfg.Nesting, ConceptsTotal: cfg.ConceptsTotal}

	if cfg.ADR == "" {
		return Resolution{
			Matched:   true,
			Reason:    "inline declaration missing decision record reference",
			Overrides: overrides,
		}
	}

	adrPath := cfg.ADR
	switch {
	case projectRoot != "":
		adrPath = filepath.Join(projectRoot, cfg.ADR)
	case filePath != "":
		adrPath = filepath.Join(filepath.Dir(filePath), cfg.ADR)
	}

	content, err := os.ReadFile(adrPath)
	if err != nil {
		return Resolution{
			Matched:   true,
			Reason:    "decision record not readable: " + cfg.ADR,
			ADR:       cfg.ADR,
			Overrides: overrides,
		}
	}

	if len(strings.TrimSpace(string(content))) < minADRLength {
		return Resolution{
			Matched:   true,
			Reason:    "decision record too short (< 50 chars): " + cfg.ADR,
			ADR:       cfg.ADR,
			Overrides: overrides,
		}
	}

	return Resolution{
		Waived:    true,
		Matched:   true,
		ADR:       cfg.ADR,
		Overrides: overrides,
	}
}
