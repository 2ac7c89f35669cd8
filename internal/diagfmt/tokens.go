package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"tagml/internal/markup"
)

// TokenOutput is the JSON form of one markup token.
type TokenOutput struct {
	Kind       string            `json:"kind"`
	Name       string            `json:"name,omitempty"`
	ID         *uint64           `json:"id,omitempty"`
	Layers     []string          `json:"layers,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Text       string            `json:"text,omitempty"`
	Range      string            `json:"range"`
}

func markupID(t markup.Token) (uint64, bool) {
	switch tk := t.(type) {
	case *markup.MarkupOpen:
		return tk.MarkupID, true
	case *markup.MarkupSuspend:
		return tk.MarkupID, true
	case *markup.MarkupResume:
		return tk.MarkupID, true
	case *markup.MarkupClose:
		return tk.MarkupID, true
	}
	return 0, false
}

func attributesOf(t markup.Token) []markup.KeyValue {
	switch tk := t.(type) {
	case *markup.MarkupOpen:
		return tk.Attributes
	case *markup.MarkupMilestone:
		return tk.Attributes
	}
	return nil
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []markup.Token) error {
	for i, tok := range tokens {
		loc := tok.Loc()
		if _, err := fmt.Fprintf(w, "%3d: %-10s", i+1, tok.Kind()); err != nil {
			return err
		}
		var detail string
		switch tk := tok.(type) {
		case *markup.TextToken:
			detail = fmt.Sprintf("%q", tk.Content)
		case markup.MarkupToken:
			detail = tk.Name()
			if id, ok := markupID(tok); ok {
				detail += fmt.Sprintf("#%d", id)
			}
			if layers := tk.LayerSet(); len(layers) > 0 && (len(layers) > 1 || layers[0] != "") {
				detail += "|" + strings.Join(layers, ",")
			}
			for _, kv := range attributesOf(tok) {
				detail += " " + kv.String()
			}
		}
		if _, err := fmt.Fprintf(w, " %s at %s\n", detail, loc.Range); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []markup.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		out := TokenOutput{Kind: tok.Kind().String(), Range: tok.Loc().Range.String()}
		if mt, ok := tok.(markup.MarkupToken); ok {
			out.Name = mt.Name()
			out.Layers = mt.LayerSet()
		}
		if id, ok := markupID(tok); ok {
			out.ID = &id
		}
		if attrs := attributesOf(tok); len(attrs) > 0 {
			out.Attributes = make(map[string]string, len(attrs))
			for _, kv := range attrs {
				out.Attributes[kv.Key] = kv.Value.String()
			}
		}
		if tt, ok := tok.(*markup.TextToken); ok {
			out.Text = tt.Content
		}
		output = append(output, out)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
