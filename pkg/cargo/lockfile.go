package cargo

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"

	"github.com/matzehuels/depbank/pkg/errors"
)

// LockEntry is one resolved package record from Cargo.lock.
type LockEntry struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	Source   string `toml:"source"`
	Checksum string `toml:"checksum"`
}

// lockFile mirrors the subset of Cargo.lock we consume.
type lockFile struct {
	Package []LockEntry `toml:"package"`
}

// ParseLockfile reads and parses the Cargo.lock at path.
// Malformed TOML fails with INVALID_LOCKFILE carrying the file path.
func ParseLockfile(path string) ([]LockEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLockfileNotFound, err, "read lockfile %s", path)
	}
	return ParseLockfileData(path, data)
}

// ParseLockfileData parses lockfile text. The path is only used in error
// messages.
func ParseLockfileData(path string, data []byte) ([]LockEntry, error) {
	var lf lockFile
	if err := toml.Unmarshal(data, &lf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse lockfile %s", path)
	}
	return lf.Package, nil
}

// Resolution maps every name in a DependencyCollection to its exact
// lockfile version, where determinable. Names with no lockfile entry
// remain present but unresolved; that state is data, never an error.
type Resolution struct {
	order []string
	exact map[string]string
}

// Resolve reconciles lockfile entries against the collection.
//
// For names with multiple lockfile entries (diamond dependencies) the
// disambiguation policy is: prefer the entry whose major.minor matches
// the declared constraint when the constraint is parseable, else the
// highest semantic version present, else the first entry encountered.
func Resolve(entries []LockEntry, c *Collection) *Resolution {
	byName := make(map[string][]string)
	for _, e := range entries {
		byName[e.Name] = append(byName[e.Name], e.Version)
	}

	r := &Resolution{
		order: c.Names(),
		exact: make(map[string]string),
	}
	for _, name := range r.order {
		versions := byName[name]
		if len(versions) == 0 {
			continue
		}
		declared, _ := c.VersionLiteral(name)
		r.exact[name] = pickVersion(declared, versions)
	}
	return r
}

// Names returns all dependency names, in collection order. Every name
// appears here whether or not a version was resolved for it.
func (r *Resolution) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Exact returns the resolved exact version for name.
// The second return is false when the name is unresolved.
func (r *Resolution) Exact(name string) (string, bool) {
	v, ok := r.exact[name]
	return v, ok
}

// Unresolved returns the names with no lockfile entry, in collection order.
func (r *Resolution) Unresolved() []string {
	var out []string
	for _, name := range r.order {
		if _, ok := r.exact[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}

// pickVersion applies the diamond-version disambiguation policy.
func pickVersion(declared string, versions []string) string {
	if len(versions) == 1 {
		return versions[0]
	}

	// Policy step 1: constraint major.minor match, highest among matches.
	if major, minor, ok := constraintParts(declared); ok {
		var best string
		for _, v := range versions {
			if !matchesConstraint(v, major, minor) {
				continue
			}
			if best == "" || compareVersions(v, best) > 0 {
				best = v
			}
		}
		if best != "" {
			return best
		}
	}

	// Policy step 2: highest semantic version present.
	var best string
	for _, v := range versions {
		if !semver.IsValid("v" + v) {
			continue
		}
		if best == "" || compareVersions(v, best) > 0 {
			best = v
		}
	}
	if best != "" {
		return best
	}

	// Policy step 3: first encountered.
	return versions[0]
}

// constraintParts extracts the numeric major (and optional minor)
// component from a declared version constraint like "1", "1.0", "^1.2",
// or "~0.8.4". Literals like "workspace" or "*" are not parseable.
func constraintParts(declared string) (major, minor string, ok bool) {
	s := strings.TrimSpace(declared)
	s = strings.TrimLeft(s, "^~=<> ")
	// Multi-constraint requirements use the first component.
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" || s == "*" {
		return "", "", false
	}

	parts := strings.Split(s, ".")
	if !isDigits(parts[0]) {
		return "", "", false
	}
	major = parts[0]
	if len(parts) > 1 && isDigits(parts[1]) {
		minor = parts[1]
	}
	return major, minor, true
}

// matchesConstraint reports whether version v shares the constraint's
// major (and minor, when the constraint declares one).
func matchesConstraint(v, major, minor string) bool {
	parts := strings.Split(v, ".")
	if len(parts) < 1 || parts[0] != major {
		return false
	}
	if minor == "" {
		return true
	}
	return len(parts) > 1 && parts[1] == minor
}

// compareVersions compares two Cargo version strings as semver.
// Invalid versions sort below valid ones.
func compareVersions(a, b string) int {
	va, vb := "v"+a, "v"+b
	switch {
	case semver.IsValid(va) && semver.IsValid(vb):
		return semver.Compare(va, vb)
	case semver.IsValid(va):
		return 1
	case semver.IsValid(vb):
		return -1
	default:
		return strings.Compare(a, b)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
