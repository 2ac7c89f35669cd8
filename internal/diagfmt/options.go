package diagfmt

// PathMode says how a document path is printed (--paths).
type PathMode uint8

const (
	// PathModeAuto keeps short and relative paths, long absolute ones become
	// their base name.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative // к BaseDir
	PathModeBasename
)

var pathModes = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string {
	if int(m) < len(pathModes) {
		return pathModes[m]
	}
	return "auto"
}

// ParsePathMode reads a --paths value.
func ParsePathMode(s string) (PathMode, bool) {
	for i, name := range pathModes {
		if name == s {
			return PathMode(i), true // #nosec G115 -- four modes
		}
	}
	return PathModeAuto, false
}

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	BaseDir   string // для PathModeRelative; пусто - текущая директория
	Wrap      int    // ширина строки контекста, 0 - DefaultWrap
	NoContext bool   // only the location line and the message
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/character
	PathMode         PathMode
	BaseDir          string
	Max              int // обрезка вывода, не Bag
}
