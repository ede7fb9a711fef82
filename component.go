package binarysniffer

// Ecosystem tags the broad runtime/packaging world a [Component] belongs to.
// Used by the Direct Matcher's context filter (spec.md §4.5).
type Ecosystem string

const (
	EcosystemNative  Ecosystem = "native"
	EcosystemJVM     Ecosystem = "jvm"
	EcosystemAndroid Ecosystem = "android"
	EcosystemIOS     Ecosystem = "ios"
	EcosystemNPM     Ecosystem = "npm"
	EcosystemPyPI    Ecosystem = "pypi"
	EcosystemGo      Ecosystem = "go"
	EcosystemUnknown Ecosystem = "unknown"
)

// unknownVersion is the literal string a [Component] reports when its
// signature file left the version field empty (spec.md §4.7).
const unknownVersion = "unknown"

// Component is a software library or ecosystem artifact identified by name
// and optional version (spec.md §3). Components are immutable once ingested;
// the only way to change one is a full reingest of its signature file.
type Component struct {
	ID          string
	Name        string
	Version     string
	License     string
	Publisher   string
	Ecosystem   Ecosystem
	Description string
	// Family groups components known to share patterns legitimately, e.g.
	// forks or vendored copies of the same upstream codebase (spec.md §4.3).
	Family string
}

// DisplayName renders "name@version", omitting the "@version" suffix when
// the version is the unknown sentinel (spec.md §4.7).
func (c Component) DisplayName() string {
	if c.Version == "" || c.Version == unknownVersion {
		return c.Name
	}
	return c.Name + "@" + c.Version
}

// NormalizedVersion returns the version to store and report, defaulting to
// the unknown sentinel.
func (c Component) NormalizedVersion() string {
	if c.Version == "" {
		return unknownVersion
	}
	return c.Version
}
