package vector

import (
	"path/filepath"
	"strings"

	"github.com/semgate/semgate/internal/types"
)

// pathHints maps path fragments to module types. Checked in order, so
// more specific hints come first. These are best-effort defaults; an
// explicitly supplied ModuleType always wins over inference.
var pathHints = []struct {
	fragment   string
	moduleType types.ModuleType
}{
	{"/api/", types.ModuleAPI},
	{"/handlers/", types.ModuleAPI},
	{"/controllers/", types.ModuleAPI},
	{"/routes/", types.ModuleAPI},
	{"/deploy/", types.ModuleDeploy},
	{"/deployments/", types.ModuleDeploy},
	{"/k8s/", types.ModuleDeploy},
	{"/terraform/", types.ModuleDeploy},
	{"/migrations/", types.ModuleInfra},
	{"/db/", types.ModuleInfra},
	{"/storage/", types.ModuleInfra},
	{"/repository/", types.ModuleInfra},
	{"/infra/", types.ModuleInfra},
	{"/models/", types.ModuleData},
	{"/entities/", types.ModuleData},
	{"/schema/", types.ModuleData},
	{"/web/", types.ModuleWeb},
	{"/ui/", types.ModuleWeb},
	{"/components/", types.ModuleWeb},
	{"/pages/", types.ModuleWeb},
	{"/pkg/", types.ModuleLib},
	{"/lib/", types.ModuleLib},
	{"/util/", types.ModuleLib},
	{"/utils/", types.ModuleLib},
	{"/cmd/", types.ModuleApp},
	{"/app/", types.ModuleApp},
	{"/services/", types.ModuleApp},
	{"/workflows/", types.ModuleApp},
}

// deployExtensions are file suffixes treated as deployment
// configuration regardless of directory.
var deployExtensions = []string{".yaml", ".yml", ".tf", ".dockerfile"}

// InferModuleType guesses a module type from a file path. Pure
// function, never authoritative: callers must prefer an explicit type
// when one was supplied.
func InferModuleType(path string) types.ModuleType {
	if path == "" {
		return types.ModuleUnknown
	}
	normalized := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	if !strings.HasPrefix(normalized, "/") {
		normalized = "/" + normalized
	}

	base := filepath.Base(normalized)
	if base == "dockerfile" {
		return types.ModuleDeploy
	}
	for _, ext := range deployExtensions {
		if strings.HasSuffix(normalized, ext) {
			return types.ModuleDeploy
		}
	}

	for _, hint := range pathHints {
		if strings.Contains(normalized, hint.fragment) {
			return hint.moduleType
		}
	}
	return types.ModuleUnknown
}

// ResolveModuleType applies the explicit-over-inferred rule in one
// place so callers cannot get it backwards.
func ResolveModuleType(explicit types.ModuleType, path string) types.ModuleType {
	if explicit != "" && explicit != types.ModuleUnknown {
		return explicit
	}
	return InferModuleType(path)
}
