// Package assets provides the stylesheets, scripts and page template used to
// present rendered documents.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in assets compiled in with go:embed
//	    ├── FilesystemLoader  - assets from a directory on disk
//	    └── AssetResolver     - custom directory first, embedded as fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css       # preview stylesheets (default, dark)
//	├── scripts/
//	│   └── {name}.js        # UI adapter wiring data-line blocks to the host
//	└── templates/
//	    └── {name}.html      # page template (html/template syntax)
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
