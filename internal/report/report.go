// Package report renders the printable archetype report and the 21-day
// completion certificate as self-contained HTML.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"archetype-quiz-service/internal/content"
	"archetype-quiz-service/internal/domain"
	"archetype-quiz-service/internal/scoring"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// PageBreak separates printed pages inside the Markdown source.
const PageBreak = "<!-- pagebreak -->"

// SuiteSection is the training summary of one suite.
type SuiteSection struct {
	Progress domain.Progress
	Stats    domain.SuiteStats
}

// Data is everything the report shows.
type Data struct {
	Archetype        content.Archetype
	VisualPreference string
	Delivery         *domain.DeliveryRecord
	Suites           []SuiteSection
	GeneratedAt      time.Time
}

// Markdown renders the report source, pages separated by PageBreak.
func Markdown(d Data) string {
	var b strings.Builder
	a := d.Archetype

	fmt.Fprintf(&b, "# %s\n\n", a.Name)
	fmt.Fprintf(&b, "*%s*\n\n", a.Tagline)
	fmt.Fprintf(&b, "%s\n\n", a.Teaser)
	if d.VisualPreference != "" {
		fmt.Fprintf(&b, "Your visual anchor: **%s**.\n\n", d.VisualPreference)
	}
	if d.Delivery != nil {
		fmt.Fprintf(&b, "Reference `%s`, issued %s.\n\n", d.Delivery.Reference, d.Delivery.Timestamp)
	}

	b.WriteString("## Strengths\n\n")
	for _, s := range a.Strengths {
		fmt.Fprintf(&b, "- %s\n", s)
	}
	b.WriteString("\n## Blind spots\n\n")
	for _, s := range a.BlindSpots {
		fmt.Fprintf(&b, "- %s\n", s)
	}

	b.WriteString("\n" + PageBreak + "\n\n## Strategies\n\n")
	for i, s := range a.Strategies {
		fmt.Fprintf(&b, "### %d. %s\n\n%s\n\n", i+1, s.Title, s.Detail)
	}

	if len(d.Suites) > 0 {
		b.WriteString(PageBreak + "\n\n## Training progress\n\n")
		b.WriteString("| Suite | Day | Days done | Streak | Experience | Level | Best |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, s := range d.Suites {
			fmt.Fprintf(&b, "| %s | %d/21 | %d | %d | %d | %s | %d |\n",
				s.Progress.Suite, s.Progress.CurrentDay, len(s.Progress.DaysCompleted),
				s.Progress.Streak, s.Stats.Experience, scoring.LevelFor(s.Stats.Experience).Name, s.Stats.BestScore)
		}
		b.WriteString("\n### Milestones\n\n")
		for _, s := range d.Suites {
			fmt.Fprintf(&b, "- **%s**: %s\n", s.Progress.Suite, milestoneLine(s.Progress.Milestones))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\nGenerated %s\n", d.GeneratedAt.Format("January 2, 2006"))
	return b.String()
}

func milestoneLine(m domain.Milestones) string {
	parts := []string{mark("day 7", m.Day7), mark("day 14", m.Day14), mark("day 21", m.Day21)}
	return strings.Join(parts, ", ")
}

func mark(label string, m domain.Milestone) string {
	if m.Unlocked {
		return fmt.Sprintf("%s reached %s", label, m.Date)
	}
	return label + " pending"
}

// HTML renders the full report as a printable document.
func HTML(d Data) []byte {
	return document(d.Archetype.Name+" report", portraitCSS, pages(Markdown(d)))
}

// CertificateData describes a completed program.
type CertificateData struct {
	Suite         domain.SuiteID
	ArchetypeName string
	Completed     string
	Days          int
	Experience    int
}

// CertificateMarkdown renders the certificate source.
func CertificateMarkdown(c CertificateData) string {
	var b strings.Builder
	b.WriteString("# Certificate of Completion\n\n")
	fmt.Fprintf(&b, "## 21-Day %s Program\n\n", suiteTitle(c.Suite))
	if c.ArchetypeName != "" {
		fmt.Fprintf(&b, "Awarded to **%s**\n\n", c.ArchetypeName)
	}
	fmt.Fprintf(&b, "for completing %d of 21 days, earning %d experience (%s).\n\n",
		c.Days, c.Experience, scoring.LevelFor(c.Experience).Name)
	fmt.Fprintf(&b, "Completed %s\n", c.Completed)
	return b.String()
}

// Certificate renders a one-page landscape certificate.
func Certificate(c CertificateData) []byte {
	return document("Certificate", landscapeCSS, pages(CertificateMarkdown(c)))
}

func suiteTitle(s domain.SuiteID) string {
	switch s {
	case domain.SuiteBrain:
		return "Brain Training"
	case domain.SuiteQuantum:
		return "Quantum Wellness"
	default:
		return string(s)
	}
}

// pages converts each PageBreak-separated chunk separately so no Markdown
// construct spans a printed page.
func pages(md string) []template.HTML {
	chunks := strings.Split(md, PageBreak)
	out := make([]template.HTML, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		out = append(out, template.HTML(render([]byte(chunk))))
	}
	return out
}

func render(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return markdown.ToHTML(md, p, r)
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.CSS}}</style>
</head>
<body>
{{range .Pages}}<section class="page">
{{.}}</section>
{{end}}</body>
</html>
`))

const portraitCSS = `@page { size: A4 portrait; margin: 18mm; }
body { font-family: Georgia, serif; color: #222; }
.page { break-after: page; }
.page:last-child { break-after: auto; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }`

const landscapeCSS = `@page { size: A4 landscape; margin: 12mm; }
body { font-family: Georgia, serif; color: #222; }
.page { border: 6px double #8a6d3b; padding: 40px; text-align: center; min-height: 160mm; }
h1 { font-size: 42px; letter-spacing: 2px; }`

func document(title, css string, body []template.HTML) []byte {
	var buf bytes.Buffer
	data := struct {
		Title string
		CSS   template.CSS
		Pages []template.HTML
	}{Title: title, CSS: template.CSS(css), Pages: body}
	// the template is static and the data types cannot fail to render
	_ = page.Execute(&buf, data)
	return buf.Bytes()
}
