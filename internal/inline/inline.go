// Package inline renders the inline markup of a single line to an HTML fragment.
//
// The input is escaped first (&, <, >) and every rule then runs on the escaped
// text, so markers that appear inside entities are never misread. Rules apply in
// a fixed order:
//
//  1. code spans are rendered and lifted out behind placeholders; filenames
//     become file-reference controls
//  2. ![alt](src) images, then the URLs of [text](href) links, are lifted out
//     the same way; link text stays in place
//  3. ***x*** / ___x___ (bold italic), **x** / __x__ (bold), *x* / _x_ (italic)
//  4. ~~x~~ (strikethrough)
//  5. lifted fragments are restored
//  6. bold Given/When/Then tokens become scenario keyword spans
//
// Markup inside a code span is therefore never interpreted, and emphasis
// markers inside a URL are left alone.
//
// Underscore emphasis never opens or closes next to a letter or digit, which
// keeps identifiers such as SOME_CONSTANT_VALUE and my_file_name.ts intact.
// Asterisk emphasis has no such restriction and may appear intraword.
package inline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Placeholders use Unicode Private Use Area characters so that emphasis rules
// cannot match inside a fragment while it is lifted out.
const (
	placeholderStart = "\uE000" // U+E000: Private Use Area start
	placeholderEnd   = "\uE001" // U+E001: Private Use Area end
)

var (
	codeSpanPattern    = regexp.MustCompile("`([^`]+)`")
	placeholderPattern = regexp.MustCompile(`\x{E000}([0-9]+)\x{E001}`)
	imagePattern       = regexp.MustCompile(`!\[([^\]\x{E000}\x{E001}]*)\]\(([^)\s"\x{E000}\x{E001}]+)\)`)
	linkPattern        = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s"\x{E000}\x{E001}]+)\)`)
	gwtKeywordPattern  = regexp.MustCompile(`<strong>(Given|When|Then)</strong>`)
	extensionPattern   = regexp.MustCompile(`^[A-Za-z0-9]+$`)

	htmlEscaper  = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	quoteEscaper = strings.NewReplacer(`"`, "&quot;")
)

// DefaultExtensions lists the file extensions recognized in code spans.
// Compound extensions such as .component.ts match through their last segment.
var DefaultExtensions = []string{
	"ts", "tsx", "js", "jsx", "mjs", "cjs", "json", "css", "scss", "less",
	"html", "htm", "md", "mdx", "go", "mod", "sum", "py", "rs", "java", "kt",
	"swift", "rb", "php", "c", "h", "cc", "cpp", "hpp", "cs", "vue", "svelte",
	"yaml", "yml", "toml", "xml", "sh", "bash", "sql", "txt", "env", "lock",
	"ini", "cfg", "conf", "graphql", "proto",
}

// Parser renders inline markup. The zero value is not usable; create one with New.
type Parser struct {
	filename *regexp.Regexp
}

var defaultParser = New()

// New creates a Parser recognizing DefaultExtensions plus extraExts.
// Extensions are given without the leading dot; invalid ones are ignored.
func New(extraExts ...string) *Parser {
	seen := make(map[string]bool, len(DefaultExtensions)+len(extraExts))
	exts := make([]string, 0, len(DefaultExtensions)+len(extraExts))
	for _, ext := range append(append([]string{}, DefaultExtensions...), extraExts...) {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" || seen[ext] || !extensionPattern.MatchString(ext) {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}

	pattern := `^[\w.\-/\\]*[\w\-]+\.(?i:` + strings.Join(exts, "|") + `)$`
	return &Parser{filename: regexp.MustCompile(pattern)}
}

// Parse renders s with the default parser.
func Parse(s string) string {
	return defaultParser.Parse(s)
}

// Escape escapes &, < and > for inclusion in HTML text.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

// Parse renders the inline markup of s as HTML.
func (p *Parser) Parse(s string) string {
	if s == "" {
		return ""
	}

	out := Escape(s)

	var held []string
	hold := func(fragment string) string {
		held = append(held, fragment)
		return placeholderStart + strconv.Itoa(len(held)-1) + placeholderEnd
	}

	out = codeSpanPattern.ReplaceAllStringFunc(out, func(m string) string {
		return hold(p.renderCodeSpan(codeSpanPattern.FindStringSubmatch(m)[1]))
	})
	out = imagePattern.ReplaceAllStringFunc(out, func(m string) string {
		sm := imagePattern.FindStringSubmatch(m)
		return hold(`<img src="` + quoteEscaper.Replace(sm[2]) + `" alt="` + quoteEscaper.Replace(sm[1]) + `">`)
	})
	out = linkPattern.ReplaceAllStringFunc(out, func(m string) string {
		sm := linkPattern.FindStringSubmatch(m)
		return hold(`<a href="`+quoteEscaper.Replace(sm[2])+`">`) + sm[1] + hold("</a>")
	})

	for _, rule := range emphasisRules {
		out = rule.apply(out)
	}

	if len(held) > 0 {
		out = placeholderPattern.ReplaceAllStringFunc(out, func(m string) string {
			idx, err := strconv.Atoi(placeholderPattern.FindStringSubmatch(m)[1])
			if err != nil || idx >= len(held) {
				return m
			}
			return held[idx]
		})
	}

	out = gwtKeywordPattern.ReplaceAllStringFunc(out, func(m string) string {
		kw := gwtKeywordPattern.FindStringSubmatch(m)[1]
		return fmt.Sprintf(`<span class="gwt-keyword gwt-%s">%s</span>`, strings.ToLower(kw), kw)
	})

	return out
}

// IsFilename reports whether the trimmed code span text names a file.
func (p *Parser) IsFilename(text string) bool {
	return p.filename.MatchString(strings.TrimSpace(text))
}
