package cache

// LayoutKeyOpts holds everything besides the snapshot that changes a layout.
type LayoutKeyOpts struct {
	Start  string  `json:"start"`
	End    string  `json:"end"`
	Width  float64 `json:"width"`
	Buffer float64 `json:"buffer"`
}

// ArtifactKeyOpts holds everything besides the layout that changes a
// rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Focus  string `json:"focus,omitempty"`
	Select string `json:"select,omitempty"`
	Zoom   int    `json:"zoom,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	LayoutKey(snapshotHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes its inputs into "layout:<sha256>" and
// "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(snapshotHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", snapshotHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
