package assets

import "fmt"

// Built-in asset names.
const (
	DefaultStyleName    = "default"
	DefaultScriptName   = "preview"
	DefaultTemplateName = "page"
)

// Bundle is everything needed to wrap a rendered fragment into a page.
type Bundle struct {
	Style    string // stylesheet name the bundle was loaded with
	CSS      string
	Script   string
	Template string
}

// LoadBundle loads the named style together with the default script and page
// template. An empty style selects DefaultStyleName.
func LoadBundle(l AssetLoader, style string) (*Bundle, error) {
	if style == "" {
		style = DefaultStyleName
	}

	css, err := l.LoadStyle(style)
	if err != nil {
		return nil, fmt.Errorf("loading style: %w", err)
	}
	script, err := l.LoadScript(DefaultScriptName)
	if err != nil {
		return nil, fmt.Errorf("loading script: %w", err)
	}
	tmpl, err := l.LoadTemplate(DefaultTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}

	return &Bundle{Style: style, CSS: css, Script: script, Template: tmpl}, nil
}
