package report

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/rendersync/internal/timeline"
)

const (
	fontName = "Arial"
	fontSize = 11
)

// WriteStoryboard renders the computed timeline as a reviewer-facing docx:
// every caption phrase with its time span, then the diagram overlay windows
// with their labels and asset handles.
func WriteStoryboard(title string, tl *timeline.RenderTimeline, outputPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	styled(doc.AddParagraph(""), title, true, 16)
	styled(doc.AddParagraph(""), "Captions", true, 14)

	for i, seg := range tl.Segments {
		line := fmt.Sprintf("%02d  [%s - %s]  %s",
			i+1, formatMS(seg.StartMS), formatMS(seg.EndMS), seg.Text)
		styled(doc.AddParagraph(""), line, false, fontSize)
	}

	if len(tl.Diagrams) > 0 {
		doc.AddParagraph("")
		styled(doc.AddParagraph(""), "Diagram overlays", true, 14)
		for _, d := range tl.Diagrams {
			endS := d.Window.StartS + d.Window.DurationS
			line := fmt.Sprintf("[%s - %s]  %s  (%s)",
				formatS(d.Window.StartS), formatS(endS), d.Label, d.Asset)
			styled(doc.AddParagraph(""), line, false, fontSize)
		}
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return fmt.Errorf("save storyboard: %w", err)
	}
	return nil
}

func styled(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// formatMS renders a millisecond offset as mm:ss.mmm.
func formatMS(ms int64) string {
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, (ms/1000)%60, ms%1000)
}

// formatS renders a second offset as mm:ss.m.
func formatS(s float64) string {
	ms := int64(s * 1000)
	return formatMS(ms)
}
