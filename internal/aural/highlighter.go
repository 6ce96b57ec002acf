package aural

// Highlighter names a highlighting strategy for rendered output.
type Highlighter string

const (
	HighlightSVG        Highlighter = "SVG"
	HighlightSVGV3      Highlighter = "SVG-V3"
	HighlightNativeMML  Highlighter = "NativeMML"
	HighlightHTMLCSS    Highlighter = "HTML-CSS"
	HighlightMMLCSS     Highlighter = "MML-CSS"
	HighlightCommonHTML Highlighter = "CommonHTML"
	HighlightCHTML      Highlighter = "CHTML"
)

var highlighters = map[string]Highlighter{
	"SVG":        HighlightSVG,
	"SVG-V3":     HighlightSVGV3,
	"NativeMML":  HighlightNativeMML,
	"HTML-CSS":   HighlightHTMLCSS,
	"MML-CSS":    HighlightMMLCSS,
	"CommonHTML": HighlightCommonHTML,
	"CHTML":      HighlightCHTML,
}

// RendererInfo describes where output is displayed. Browser may be empty.
type RendererInfo struct {
	Renderer string
	Browser  string
}

// HighlighterFor picks the strategy for a renderer. Native MathML in
// Safari is highlighted through CSS, SVG output of version 3 has its own
// strategy, and unknown renderers fall back to native MathML.
func HighlighterFor(info RendererInfo) Highlighter {
	name := info.Renderer
	switch {
	case info.Renderer == "NativeMML" && info.Browser == "Safari":
		name = "MML-CSS"
	case info.Renderer == "SVG" && info.Browser == "v3":
		name = "SVG-V3"
	}
	if h, ok := highlighters[name]; ok {
		return h
	}
	return HighlightNativeMML
}
