package cargo

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/depbank/pkg/errors"
)

// TableKind identifies which dependency table a spec was declared in.
type TableKind string

const (
	TableNormal TableKind = "dependencies"
	TableDev    TableKind = "dev-dependencies"
	TableBuild  TableKind = "build-dependencies"
)

// tableOrder is the order dependency tables are processed in.
var tableOrder = []TableKind{TableNormal, TableDev, TableBuild}

// Origin distinguishes the two shapes a dependency declaration can take.
type Origin string

const (
	// OriginSimple is a bare version string: serde = "1.0".
	OriginSimple Origin = "simple"
	// OriginDetailed is a structured table: serde = { version = "1.0", ... }.
	OriginDetailed Origin = "detailed"
)

// SourceKind identifies where a dependency is fetched from.
type SourceKind string

const (
	SourceRegistry SourceKind = "registry"
	SourceGit      SourceKind = "git"
	SourcePath     SourceKind = "path"
)

// Spec is one dependency declaration as it appears in one manifest table.
type Spec struct {
	Name      string     // dependency name, non-empty
	Table     TableKind  // which table it came from
	Origin    Origin     // simple string vs detailed table
	Version   string     // declared version constraint ("" for detailed specs without one)
	Features  []string   // declared features, in declaration order
	Optional  bool       // optional = true
	Workspace bool       // workspace = true (version inherited from the workspace root)
	Source    SourceKind // registry unless a git or path key is present
	Git       string     // git URL when Source == SourceGit
	GitRef    string     // branch, tag, or rev when Source == SourceGit
	Path      string     // local path when Source == SourcePath
}

// VersionLiteral returns the declared version string for display.
//
// Workspace-inherited specs display as "workspace" and detailed specs
// without any version display as "*", matching what the lockfile
// resolution needs: the literal is a constraint hint, never an exact
// version.
func (s Spec) VersionLiteral() string {
	if s.Origin == OriginSimple {
		return s.Version
	}
	if s.Workspace {
		return "workspace"
	}
	if s.Version == "" {
		return "*"
	}
	return s.Version
}

// Manifest holds the parsed dependency declarations of one Cargo.toml.
type Manifest struct {
	Path    string // absolute path of the manifest file
	Package string // [package] name, if present
	Version string // [package] version, if present
	Specs   []Spec // declared dependencies in declaration order, grouped by table
}

// manifestFile mirrors the subset of Cargo.toml we consume.
type manifestFile struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

// ParseManifest reads and parses the Cargo.toml at path.
// Malformed TOML fails with INVALID_MANIFEST carrying the file path.
func ParseManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read manifest %s", path)
	}
	return ParseManifestData(path, data)
}

// ParseManifestData parses manifest text. The path is only used in error
// messages and the returned Manifest; parsing itself is pure.
//
// A syntactically valid manifest with no dependency tables yields a
// Manifest with zero specs, not an error.
func ParseManifestData(path string, data []byte) (*Manifest, error) {
	var mf manifestFile
	md, err := toml.Decode(string(data), &mf)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest %s", path)
	}

	m := &Manifest{
		Path:    path,
		Package: mf.Package.Name,
		Version: mf.Package.Version,
	}

	tables := map[TableKind]map[string]any{
		TableNormal: mf.Dependencies,
		TableDev:    mf.DevDependencies,
		TableBuild:  mf.BuildDependencies,
	}

	for _, kind := range tableOrder {
		entries := tables[kind]
		for _, name := range declarationOrder(md, kind, entries) {
			m.Specs = append(m.Specs, decodeSpec(name, kind, entries[name]))
		}
	}

	return m, nil
}

// declarationOrder returns the dependency names of one table in the order
// they appear in the manifest text. TOML maps lose declaration order, but
// the decoder's metadata retains it.
func declarationOrder(md toml.MetaData, table TableKind, entries map[string]any) []string {
	seen := make(map[string]bool, len(entries))
	names := make([]string, 0, len(entries))
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != string(table) {
			continue
		}
		name := key[1]
		if seen[name] {
			continue
		}
		if _, ok := entries[name]; !ok {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// decodeSpec converts one raw table entry into a Spec. The simple vs
// detailed decision happens exactly once, here.
func decodeSpec(name string, table TableKind, raw any) Spec {
	spec := Spec{
		Name:   name,
		Table:  table,
		Source: SourceRegistry,
	}

	switch v := raw.(type) {
	case string:
		spec.Origin = OriginSimple
		spec.Version = v
	case map[string]any:
		spec.Origin = OriginDetailed
		decodeDetailed(&spec, v)
	default:
		// Unexpected shape (e.g. an integer); treat as a detailed spec
		// with no version so it surfaces as "*" rather than vanishing.
		spec.Origin = OriginDetailed
	}

	return spec
}

func decodeDetailed(spec *Spec, table map[string]any) {
	if v, ok := table["version"].(string); ok {
		spec.Version = v
	}
	if v, ok := table["optional"].(bool); ok {
		spec.Optional = v
	}
	if v, ok := table["workspace"].(bool); ok {
		spec.Workspace = v
	}
	if features, ok := table["features"].([]any); ok {
		for _, f := range features {
			if s, ok := f.(string); ok {
				spec.Features = append(spec.Features, s)
			}
		}
	}

	switch {
	case table["git"] != nil:
		spec.Source = SourceGit
		if v, ok := table["git"].(string); ok {
			spec.Git = v
		}
		for _, ref := range []string{"branch", "tag", "rev"} {
			if v, ok := table[ref].(string); ok {
				spec.GitRef = v
				break
			}
		}
	case table["path"] != nil:
		spec.Source = SourcePath
		if v, ok := table["path"].(string); ok {
			spec.Path = v
		}
	}
}
