package assets

// AssetLoader loads presentation assets by name, without extension.
// Each method returns ErrInvalidAssetName for unsafe names and its kind's
// not-found error when the asset does not exist.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadScript(name string) (string, error)
	LoadTemplate(name string) (string, error)
}

// kind describes one asset directory.
type kind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = kind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	scriptKind   = kind{dir: "scripts", ext: ".js", notFound: ErrScriptNotFound}
	templateKind = kind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)
