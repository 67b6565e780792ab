package export

import (
	"fmt"

	"github.com/nao1215/plotreport/internal/format"
	"github.com/nao1215/plotreport/internal/model"
	"github.com/nao1215/plotreport/internal/render"
	"github.com/nao1215/plotreport/internal/report"
)

// Size of the plot renderings embedded in reports, in pixels.
const (
	ReportPlotWidth  = 800
	ReportPlotHeight = 500
)

// DefaultReportTitle is the document title of generated reports.
const DefaultReportTitle = "Oxyplot example report"

// Content selects the optional parts of a generated report.
type Content struct {
	// Title is the document title. Empty means DefaultReportTitle.
	Title string

	// TableOfContents adds a contents listing before the main section.
	TableOfContents bool

	// Equations adds a section with two sample equations.
	Equations bool
}

// CreateReport builds the report for exporting m to target.
//
// Plot images reference the intermediate files named by
// format.IntermediatePath; vector is the SVG markup inlined by formats that
// embed vector graphics. CreateReport never touches the file system.
func CreateReport(m *model.PlotModel, target, vector string, c Content) (*report.Report, error) {
	f, err := format.FromPath(target)
	if err != nil {
		return nil, err
	}
	if c.Title == "" {
		c.Title = DefaultReportTitle
	}

	r := report.New(c.Title)
	r.AddHeader(1, "Example report from OxyPlot")

	main := report.NewSection()
	if c.TableOfContents {
		lead := r.Sections[0]
		lead.AddHeader(2, "Content")
		lead.AddTableOfContents(main)
	}
	r.Add(main)

	main.AddHeader(2, "Introduction")
	main.AddParagraph("The content in this file was generated by OxyPlot.")
	main.AddParagraph("See http://oxyplot.codeplex.com for more information.")

	main.AddHeader(2, "Plot (vector)")
	switch {
	case f.EmbedsVector():
		main.AddParagraph("This plot was rendered to SVG and embedded in the HTML5 file.")
		main.AddDrawing(vector, "SVG plot")
	case f.EmbedsPDF():
		main.AddParagraph("This plot was rendered to PDF and embedded in the report.")
		img := main.AddImage(format.IntermediatePath(target, format.PDF.Extension()), "PDF plot")
		img.Width, img.Height = ReportPlotWidth, ReportPlotHeight
		if m != nil {
			img.Painter = render.NewPainter(m)
		}
	}

	main.AddHeader(2, "Plot (bitmap)")
	main.AddParagraph("The plot is rendered to PNG and embedded in the report.")
	img := main.AddImage(format.IntermediatePath(target, format.PNG.Extension()), "PNG plot")
	img.Width, img.Height = ReportPlotWidth, ReportPlotHeight

	if c.Equations {
		main.AddHeader(3, "Equations")
		main.AddEquation(`E = m \cdot c^2`, "")
		main.AddEquation(`\oint \vec{B} \cdot d\vec{S} = 0`, "")
	}

	main.AddHeader(2, "Data")
	if m != nil {
		for i := range m.Series {
			addSeries(main, i+1, &m.Series[i])
		}
	}
	return r, nil
}

// dataFields are the columns of a series data table.
var dataFields = []report.Field{
	{Path: "X", Header: "X", Width: 60, Format: "0.00"},
	{Path: "Y", Header: "Y", Width: 60, Format: "0.00"},
}

func addSeries(s *report.Section, n int, series *model.Series) {
	s.AddHeader(3, fmt.Sprintf("Data series %d", n))
	s.AddPropertyTable("Properties of the "+series.Kind.String(), series.Properties())
	s.AddItemsTable("Data", dataFields, report.Points(series.Points))
}
