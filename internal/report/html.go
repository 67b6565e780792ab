package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLWriter outputs reports as HTML5 documents.
// The document is assembled as an x/net/html node tree and rendered in one
// pass, so all text is escaped by the renderer. Drawings are inlined as SVG.
type HTMLWriter struct {
	baseWriter

	headerIDs map[*Header]string
}

// NewHTMLWriter creates an HTMLWriter that outputs to the given writer.
func NewHTMLWriter(output io.Writer, opts ...Option) *HTMLWriter {
	return &HTMLWriter{baseWriter: newBaseWriter(output, opts...)}
}

// WriteReport outputs the report as an HTML document.
func (w *HTMLWriter) WriteReport(r *Report, style *Style) error {
	if r == nil {
		return ErrNilReport
	}
	style = orDefault(style)

	w.headerIDs = make(map[*Header]string)
	r.Walk(func(item Item) {
		if h, ok := item.(*Header); ok {
			w.headerIDs[h] = "h" + strconv.Itoa(len(w.headerIDs)+1)
		}
	})

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, attr("lang", style.Locale))
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	title := element(atom.Title)
	title.AppendChild(textNode(r.Title))
	head.AppendChild(title)
	css := element(atom.Style)
	css.AppendChild(textNode(stylesheet(style)))
	head.AppendChild(css)
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)

	for _, s := range r.Sections {
		section := element(atom.Section)
		for _, item := range s.Items {
			n, err := w.node(item, style)
			if err != nil {
				return err
			}
			if n != nil {
				section.AppendChild(n)
			}
		}
		body.AppendChild(section)
	}

	if err := html.Render(w.output, doc); err != nil {
		return err
	}
	_, err := io.WriteString(w.output, "\n")
	return err
}

func (w *HTMLWriter) node(item Item, style *Style) (*html.Node, error) {
	switch it := item.(type) {
	case *Header:
		h := element(headerAtom(it.Level), attr("id", w.headerIDs[it]))
		h.AppendChild(textNode(it.Text))
		return h, nil
	case *Paragraph:
		p := element(atom.P)
		p.AppendChild(textNode(it.Text))
		return p, nil
	case *Image:
		return w.imageNode(it), nil
	case *Drawing:
		fig := element(atom.Figure, attr("class", "drawing"))
		fig.AppendChild(&html.Node{Type: html.RawNode, Data: stripXMLProlog(it.Content)})
		fig.AppendChild(caption(atom.Figcaption, it.Caption))
		return fig, nil
	case *Equation:
		div := element(atom.Div, attr("class", "equation"))
		div.AppendChild(textNode(`\[` + it.Content + `\]`))
		if it.Caption != "" {
			div.AppendChild(caption(atom.Span, it.Caption))
		}
		return div, nil
	case *TableOfContents:
		return w.contentsNode(it), nil
	case *ItemsTable, *PropertyTable:
		t, _ := tableOf(it)
		return w.tableNode(t, style)
	}
	return nil, nil
}

func (w *HTMLWriter) imageNode(img *Image) *html.Node {
	fig := element(atom.Figure)
	src := w.link(img.Source)
	if isPDF(img.Source) {
		width, height := img.Width, img.Height
		if width <= 0 || height <= 0 {
			width, height = 800, 500
		}
		obj := element(atom.Object,
			attr("data", src),
			attr("type", "application/pdf"),
			attr("width", strconv.Itoa(width)),
			attr("height", strconv.Itoa(height)),
		)
		a := element(atom.A, attr("href", src))
		a.AppendChild(textNode(img.Caption))
		obj.AppendChild(a)
		fig.AppendChild(obj)
	} else {
		fig.AppendChild(element(atom.Img, attr("src", src), attr("alt", img.Caption)))
	}
	fig.AppendChild(caption(atom.Figcaption, img.Caption))
	return fig
}

func (w *HTMLWriter) contentsNode(toc *TableOfContents) *html.Node {
	nav := element(atom.Nav, attr("class", "contents"))
	ul := element(atom.Ul)
	if toc.Source != nil {
		for _, h := range toc.Source.Headers() {
			li := element(atom.Li, attr("class", "level"+strconv.Itoa(clampLevel(h.Level))))
			a := element(atom.A, attr("href", "#"+w.headerIDs[h]))
			a.AppendChild(textNode(h.Text))
			li.AppendChild(a)
			ul.AppendChild(li)
		}
	}
	nav.AppendChild(ul)
	return nav
}

func (w *HTMLWriter) tableNode(t *ItemsTable, style *Style) (*html.Node, error) {
	rows, err := t.Rows(style)
	if err != nil {
		return nil, err
	}
	table := element(atom.Table)
	if t.Caption != "" {
		table.AppendChild(caption(atom.Caption, t.Caption))
	}

	colgroup := element(atom.Colgroup)
	for _, width := range t.Widths(0) {
		if width > 0 {
			colgroup.AppendChild(element(atom.Col, attr("style", fmt.Sprintf("width:%gpt", width))))
		} else {
			colgroup.AppendChild(element(atom.Col))
		}
	}
	table.AppendChild(colgroup)

	thead := element(atom.Thead)
	tr := element(atom.Tr)
	for _, h := range t.Headers() {
		th := element(atom.Th)
		th.AppendChild(textNode(h))
		tr.AppendChild(th)
	}
	thead.AppendChild(tr)
	table.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, row := range rows {
		tr := element(atom.Tr)
		for _, cell := range row {
			td := element(atom.Td)
			td.AppendChild(textNode(cell))
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	table.AppendChild(tbody)
	return table, nil
}

// stylesheet renders the CSS for a style.
func stylesheet(s *Style) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "body{font-family:%s,sans-serif;font-size:%gpt;margin:%gmm}", s.BodyFont, s.FontSize, s.Margin)
	for level := LevelTitle; level <= LevelSubsection; level++ {
		fmt.Fprintf(&sb, "h%d{font-family:%s,sans-serif;font-size:%gpt}", level, s.HeaderFont, s.HeaderSize(level))
	}
	fmt.Fprintf(&sb, "table{border-collapse:collapse;margin:1em 0}th{background:%s}", s.TableHeaderColor)
	sb.WriteString("td,th{border:1px solid #999;padding:2px 6px;text-align:left}")
	sb.WriteString("caption,figcaption{font-style:italic;padding:4px}")
	sb.WriteString(".equation{text-align:center;margin:1em 0}")
	return sb.String()
}

// stripXMLProlog drops anything before the <svg element, such as the XML
// declaration and comments emitted by SVG renderers.
func stripXMLProlog(svg string) string {
	if i := strings.Index(svg, "<svg"); i > 0 {
		return svg[i:]
	}
	return svg
}

func headerAtom(level int) atom.Atom {
	switch clampLevel(level) {
	case LevelTitle:
		return atom.H1
	case LevelSection:
		return atom.H2
	default:
		return atom.H3
	}
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func caption(a atom.Atom, text string) *html.Node {
	n := element(a)
	n.AppendChild(textNode(text))
	return n
}
