// Package xdexcalidraw renders a diagram as an excalidraw document.
package xdexcalidraw

import (
	"encoding/json"
	"math"

	"oss.terrastruct.com/xdsketch/xdtarget"
)

const (
	DOCUMENT_TYPE = "excalidraw"
	VERSION       = 2
	SOURCE        = "xdsketch"

	// FILE_EXTENSION is what excalidraw expects when opening a file.
	FILE_EXTENSION = ".excalidraw"
)

type RenderOpts struct {
	// Source identifies the producer. Defaults to SOURCE.
	Source string
	// Background overrides the diagram background.
	Background string
}

type document struct {
	Type     string    `json:"type"`
	Version  int       `json:"version"`
	Source   string    `json:"source"`
	Elements []element `json:"elements"`
	AppState appState  `json:"appState"`
	Files    struct{}  `json:"files"`
}

type appState struct {
	ViewBackgroundColor string `json:"viewBackgroundColor"`
	GridSize            *int   `json:"gridSize"`
}

// element adds the bookkeeping fields excalidraw requires on every element.
type element struct {
	xdtarget.Element

	Version      int     `json:"version"`
	VersionNonce int     `json:"versionNonce"`
	IsDeleted    bool    `json:"isDeleted"`
	Updated      int     `json:"updated"`
	Link         *string `json:"link"`
	Locked       bool    `json:"locked"`

	OriginalText *string `json:"originalText,omitempty"`
	Baseline     *int    `json:"baseline,omitempty"`
	LineHeight   float64 `json:"lineHeight,omitempty"`
}

// Render encodes the diagram, indented. Elements keep their order, so earlier ones are
// drawn beneath later ones.
func Render(diagram *xdtarget.Diagram, opts *RenderOpts) ([]byte, error) {
	if opts == nil {
		opts = &RenderOpts{}
	}
	doc := document{
		Type:     DOCUMENT_TYPE,
		Version:  VERSION,
		Source:   opts.Source,
		Elements: make([]element, 0, len(diagram.Elements)),
		AppState: appState{
			ViewBackgroundColor: diagram.Background,
		},
	}
	if doc.Source == "" {
		doc.Source = SOURCE
	}
	if opts.Background != "" {
		doc.AppState.ViewBackgroundColor = opts.Background
	}
	if doc.AppState.ViewBackgroundColor == "" {
		doc.AppState.ViewBackgroundColor = xdtarget.BG_COLOR
	}

	for _, el := range diagram.Elements {
		doc.Elements = append(doc.Elements, toElement(el))
	}
	return json.MarshalIndent(doc, "", "  ")
}

func toElement(el xdtarget.Element) element {
	e := element{
		Element: el,
		Version: 1,
	}
	if el.IsText() {
		text := el.Text
		e.OriginalText = &text
		// descent is approximated as a fifth of the font size
		baseline := int(math.Round(el.Height - float64(el.FontSize)/5))
		e.Baseline = &baseline
		lines := 1
		for _, r := range el.Text {
			if r == '\n' {
				lines++
			}
		}
		if el.FontSize > 0 {
			e.LineHeight = el.Height / float64(lines) / float64(el.FontSize)
		}
	}
	return e
}
