package status

import (
	"fmt"
	"io"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// Console prints one line per status change.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Update(s Status) {
	symbol := "⋯"
	switch s.Text {
	case "Done":
		symbol = "✓"
	case "Error":
		symbol = "✗"
	}
	ticker := ""
	if s.Ticker != "" {
		ticker = "[" + s.Ticker + "] "
	}
	fmt.Fprintf(c.w, "%s %-15s %s%s\n", symbol, DisplayName(s.Agent), ticker, s.Text)
}

// Progress advances a progress bar each time a ticker finishes for an agent.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a bar expecting total ticker completions.
func NewProgress(w io.Writer, total int) *Progress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &Progress{bar: bar}
}

func (p *Progress) Update(s Status) {
	if s.Ticker == "" {
		return
	}
	p.bar.Describe(fmt.Sprintf("%-15s [%s]", DisplayName(s.Agent), s.Ticker))
	if s.Done() {
		_ = p.bar.Add(1)
	}
}

func (p *Progress) Finish() {
	_ = p.bar.Finish()
}

// DisplayName turns an agent key such as "ben_graham_agent" into "Ben Graham".
func DisplayName(agent string) string {
	words := strings.Fields(strings.ReplaceAll(strings.TrimSuffix(agent, "_agent"), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
