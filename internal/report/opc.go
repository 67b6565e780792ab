package report

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Open Packaging Conventions namespaces shared by the XPS and DOCX writers.
const (
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	ctRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ctCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	relTypeCoreProp = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
)

type xmlContentTypes struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []xmlDefault  `xml:"Default"`
	Overrides []xmlOverride `xml:"Override"`
}

type xmlDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlRelationships struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// opcPart is one file of a package.
type opcPart struct {
	name string
	data []byte
}

// opcPackage collects the parts of a zip based package in write order.
// Entries carry no timestamps, so equal input gives byte-identical output.
type opcPackage struct {
	parts []opcPart
}

// addRaw adds a part with literal content.
func (p *opcPackage) addRaw(name string, data []byte) {
	p.parts = append(p.parts, opcPart{name: name, data: data})
}

// addXML adds a part holding v encoded as XML with the standard header.
func (p *opcPackage) addXML(name string, v any) error {
	var sb strings.Builder
	sb.WriteString(xml.Header)
	if err := xml.NewEncoder(&sb).Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	p.addRaw(name, []byte(sb.String()))
	return nil
}

// writeTo writes the package as a zip archive.
func (p *opcPackage) writeTo(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, part := range p.parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: part.name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("failed to create %s in zip: %w", part.name, err)
		}
		if _, err := fw.Write(part.data); err != nil {
			return fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}
	return zw.Close()
}

// xmlEscape escapes special XML characters.
func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}

// coreProperties returns the docProps/core.xml content of a package.
func coreProperties(title string, style *Style) string {
	date := style.Date.UTC().Format("2006-01-02T15:04:05Z")
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <dc:title>%s</dc:title>
  <dc:creator>%s</dc:creator>
  <dcterms:created xsi:type="dcterms:W3CDTF">%s</dcterms:created>
  <dcterms:modified xsi:type="dcterms:W3CDTF">%s</dcterms:modified>
</cp:coreProperties>`, xmlEscape(title), xmlEscape(style.Author), date, date)
}

// parseHexColor converts "#RRGGBB" into its components. Malformed input is
// reported as light grey.
func parseHexColor(s string) (r, g, b int) {
	var rgb [3]int
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return 0xE0, 0xE0, 0xE0
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &rgb[0], &rgb[1], &rgb[2]); err != nil {
		return 0xE0, 0xE0, 0xE0
	}
	return rgb[0], rgb[1], rgb[2]
}
