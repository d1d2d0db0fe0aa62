package hooklib

import (
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color classifies the severity of a message.
type Color string

const (
	Blue       Color = "blue"
	Red        Color = "red"
	Green      Color = "green"
	Yellow     Color = "yellow"
	BrightBlue Color = "brightblue"
	Grey       Color = "grey"
	White      Color = "white"
	Black      Color = "black"
)

var colorLevels = map[Color]string{
	Blue:       "info",
	Red:        "danger",
	Green:      "success",
	Yellow:     "warning",
	BrightBlue: "primary",
	Grey:       "secondary",
	White:      "light",
	Black:      "dark",
}

var colorANSI = map[Color]string{
	Blue:       "4",
	Red:        "1",
	Green:      "2",
	Yellow:     "3",
	BrightBlue: "12",
	Grey:       "8",
	White:      "7",
	Black:      "0",
}

// Level maps the color to an alert level; unknown colors are "info".
func (c Color) Level() string {
	if l, ok := colorLevels[c]; ok {
		return l
	}
	return "info"
}

// Message is one rendered advisory. Body may carry inline <code>,
// <strong>, <em> and <br> markup.
type Message struct {
	Body    string
	Color   Color
	File    string
	Line    int
	Code    string
	Verbose bool
}

var (
	newlinePattern = regexp.MustCompile(`\n`)
	brPattern      = regexp.MustCompile(`<br\s*/?>`)
	spacesPattern  = regexp.MustCompile(` {2,}`)
	tagPattern     = regexp.MustCompile(`<[^<]+?>`)
	codePattern    = regexp.MustCompile(`<code>(.*?)</code>`)
	strongPattern  = regexp.MustCompile(`<(?:strong|b|h1)[^>]*>(.*?)</(?:strong|b|h1)>`)
	emPattern      = regexp.MustCompile(`<(?:em|i)>(.*?)</(?:em|i)>`)
)

func stripMarkup(s string) string {
	s = newlinePattern.ReplaceAllString(s, "")
	s = brPattern.ReplaceAllString(s, "\n")
	s = spacesPattern.ReplaceAllString(s, " ")
	s = tagPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// Text is the body with markup stripped.
func (m Message) Text() string {
	return stripMarkup(m.Body)
}

func (m Message) trace() string {
	if !m.Verbose || m.Line == 0 {
		return ""
	}
	return fmt.Sprintf("(Line %d) ", m.Line)
}

// String renders the plain-text line "* (Line N) message".
func (m Message) String() string {
	return "* " + m.trace() + m.Text()
}

var htmlTell = template.Must(template.New("tell").Parse(`<div class="alert alert-{{.Level}}" role="alert">
  {{.Body}}
  {{- if .Verbose}}
  <div style="font-size:0.7em;">
    Line {{.Line}}: <code>{{.Code}}</code>
  </div>
  {{- end}}
</div>
`))

// HTML renders the message as an alert block. The body markup is trusted;
// the source line is escaped.
func (m Message) HTML() string {
	var b strings.Builder
	err := htmlTell.Execute(&b, struct {
		Level   string
		Body    template.HTML
		Line    int
		Code    string
		Verbose bool
	}{
		Level:   m.Color.Level(),
		Body:    template.HTML(m.Body),
		Line:    m.Line,
		Code:    m.Code,
		Verbose: m.Verbose && m.Line != 0,
	})
	if err != nil {
		return html.EscapeString(m.String())
	}
	return b.String()
}

// Render returns the rich terminal form: a bordered block tinted by
// severity with code and emphasis highlighted.
func (m Message) Render() string {
	accent := lipgloss.Color(colorANSI[m.Color])
	if _, ok := colorANSI[m.Color]; !ok {
		accent = lipgloss.Color(colorANSI[Blue])
	}
	codeStyle := lipgloss.NewStyle().Foreground(accent).Bold(true)
	strongStyle := lipgloss.NewStyle().Bold(true)
	emStyle := lipgloss.NewStyle().Italic(true)

	body := newlinePattern.ReplaceAllString(m.Body, "")
	body = brPattern.ReplaceAllString(body, "\n")
	body = spacesPattern.ReplaceAllString(body, " ")
	body = codePattern.ReplaceAllStringFunc(body, func(s string) string {
		return codeStyle.Render(codePattern.FindStringSubmatch(s)[1])
	})
	body = strongPattern.ReplaceAllStringFunc(body, func(s string) string {
		return strongStyle.Render(strongPattern.FindStringSubmatch(s)[1])
	})
	body = emPattern.ReplaceAllStringFunc(body, func(s string) string {
		return emStyle.Render(emPattern.FindStringSubmatch(s)[1])
	})
	body = strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(body, "")))

	if m.Verbose && m.Line != 0 {
		footer := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("Line %d: %s", m.Line, m.Code))
		body += "\n" + footer
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(body)
}
