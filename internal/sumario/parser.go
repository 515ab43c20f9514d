package sumario

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html/charset"

	"github.com/fransm/boe-watcher/internal/gazette"
)

// DefaultSectionCode identifies "Oposiciones y Concursos" in the summary.
const DefaultSectionCode = "2B"

// ExtractSection parses the raw summary and enumerates the item entries of
// the section with the given code, in document order. A document without the
// section yields an empty slice and no error; that is a normal outcome.
//
// The document is parsed strictly first; on failure it is re-parsed once in
// permissive mode (lenient decoder, charset-sniffing reader) before the parse
// error is surfaced.
func ExtractSection(doc []byte, sectionCode string) ([]gazette.RawEntry, error) {
	root, err := parseSummary(doc)
	if err != nil {
		return nil, err
	}

	section := xmlquery.FindOne(root, fmt.Sprintf("//seccion[@codigo='%s']", sectionCode))
	if section == nil {
		return nil, nil
	}

	items := xmlquery.Find(section, ".//item")
	entries := make([]gazette.RawEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, gazette.RawEntry{
			Identifier:  childText(item, "identificador"),
			Control:     childText(item, "control"),
			Title:       childText(item, "titulo"),
			DetailURL:   childText(item, "url_html"),
			DocumentURL: childText(item, "url_pdf"),
			Department:  ancestorDepartment(item),
		})
	}
	return entries, nil
}

func parseSummary(doc []byte) (*xmlquery.Node, error) {
	strict, strictErr := xmlquery.ParseWithOptions(
		bytes.NewReader(doc),
		xmlquery.ParserOptions{Decoder: &xmlquery.DecoderOptions{Strict: true}},
	)
	if strictErr == nil {
		return strict, nil
	}

	reader, err := charset.NewReader(bytes.NewReader(doc), "text/xml")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gazette.ErrParse, strictErr)
	}
	lenient, lenientErr := xmlquery.ParseWithOptions(reader, xmlquery.ParserOptions{
		Decoder: &xmlquery.DecoderOptions{
			Strict: false,
			Entity: xml.HTMLEntity,
		},
	})
	if lenientErr != nil {
		return nil, fmt.Errorf("%w: strict: %v; permissive: %v", gazette.ErrParse, strictErr, lenientErr)
	}
	return lenient, nil
}

// childText returns the inner text of the first child element with the given
// name, or the empty string when absent. Missing optional fields are never
// errors.
func childText(item *xmlquery.Node, name string) string {
	child := xmlquery.FindOne(item, name)
	if child == nil {
		return ""
	}
	return child.InnerText()
}

// ancestorDepartment walks the item's ancestors to the nearest departamento
// node and reads its nombre attribute. No such ancestor yields the empty
// string rather than an error.
func ancestorDepartment(item *xmlquery.Node) string {
	for node := item.Parent; node != nil; node = node.Parent {
		if node.Type == xmlquery.ElementNode && node.Data == "departamento" {
			return node.SelectAttr("nombre")
		}
	}
	return ""
}
