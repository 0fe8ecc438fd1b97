package browser

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"github.com/zjrosen/gemview/internal/gemini"
	"github.com/zjrosen/gemview/internal/gemtext"
	"github.com/zjrosen/gemview/internal/session"
	"github.com/zjrosen/gemview/internal/ui/styles"
)

// linkZoneID names the clickable zone of one link.
func linkZoneID(id gemtext.LinkID) string {
	return fmt.Sprintf("browser-link:%d", id)
}

// View paints the visible rows plus the bottom chrome. Only rows the
// session invalidated since the last frame are re-rendered.
func (m Model) View() string {
	now := time.Now()
	m.paint(now)

	var b strings.Builder
	vis := m.sess.VisibleRange(now)
	buf := m.sess.VisBuf()
	for y := vis.Start; y < vis.End; y++ {
		if y > vis.Start {
			b.WriteByte('\n')
		}
		if row, ok := buf.Row(y); ok {
			b.WriteString(row)
		}
	}

	if m.showLog {
		b.WriteByte('\n')
		b.WriteString(m.logPaneView())
	}
	if m.showHelp {
		b.WriteByte('\n')
		b.WriteString(m.help.View(m.keys))
	}
	if m.prompt != promptNone {
		b.WriteByte('\n')
		b.WriteString(m.promptView())
	}
	if m.showStatus {
		b.WriteByte('\n')
		b.WriteString(m.statusBarView(now))
	}
	return b.String()
}

// paint re-renders every invalid row intersecting the viewport into the
// session's row cache.
func (m Model) paint(now time.Time) {
	vis := m.sess.VisibleRange(now)
	buf := m.sess.VisBuf()
	buf.Reposition(vis)

	// The session already dropped the affected rows from the cache;
	// draining keeps the run set bounded.
	m.sess.InvalidRuns().Drain()

	doc := m.sess.Doc()
	linkRows := m.linkFirstRows()

	for _, r := range buf.InvalidRanges(vis) {
		rows := make(map[int][]*gemtext.Run)
		doc.Render(r, func(run *gemtext.Run) {
			y := run.Bounds.Y
			rows[y] = append(rows[y], run)
		})
		for y := r.Start; y < r.End; y++ {
			buf.SetRow(y, m.renderRow(rows[y], linkRows, now))
		}
		buf.Validate(r)
	}
}

// renderRow paints the runs of one document row into a styled string.
func (m Model) renderRow(runs []*gemtext.Run, linkRows map[gemtext.LinkID]int, now time.Time) string {
	if len(runs) == 0 {
		return ""
	}

	var b strings.Builder
	col := 0
	for _, run := range runs {
		if run.Text == "" {
			continue
		}

		// Number hint in the link's indent columns, first row only.
		if m.showLinkNums && run.LinkID != 0 && run.Flags&gemtext.RunDecoration == 0 && col == 0 {
			if first, ok := linkRows[run.LinkID]; ok && first == run.Bounds.Y {
				hint := fmt.Sprintf("%d", run.LinkID)
				if w := runewidth.StringWidth(hint); w < run.Bounds.X {
					b.WriteString(styles.LinkHintStyle.Render(hint))
					col = w
				}
			}
		}

		if run.Bounds.X > col {
			b.WriteString(strings.Repeat(" ", run.Bounds.X-col))
			col = run.Bounds.X
		}

		text := run.Text
		if run.IsWide() {
			text = cutCells(text, m.sess.WideOffset(run.PreID, now), m.contentWidth())
		}

		styled := m.styleRun(run, text)
		if run.LinkID != 0 && run.Flags&gemtext.RunDecoration == 0 {
			if url := m.sess.Doc().LinkURL(run.LinkID); url != "" {
				styled = termenv.Hyperlink(url, styled)
			}
			styled = zone.Mark(linkZoneID(run.LinkID), styled)
		}
		b.WriteString(styled)
		col += runewidth.StringWidth(text)
	}
	return b.String()
}

// styleRun applies the theme style for a run's line kind.
func (m Model) styleRun(run *gemtext.Run, text string) string {
	if run == m.sess.FoundRun() {
		return styles.SearchHighlightStyle.Render(text)
	}
	if run.ImageID != 0 || run.AudioID != 0 {
		return styles.MediaFrameStyle.Render(text)
	}

	switch run.Kind {
	case gemtext.LineHeading1:
		return styles.Heading1Style.Render(text)
	case gemtext.LineHeading2:
		return styles.Heading2Style.Render(text)
	case gemtext.LineHeading3:
		return styles.Heading3Style.Render(text)
	case gemtext.LineLink:
		if run.LinkID != 0 && run.LinkID == m.sess.HoverLink() {
			return styles.LinkStyle.Bold(true).Render(text)
		}
		return styles.LinkStyle.Render(text)
	case gemtext.LineQuote:
		return styles.QuoteStyle.Render(text)
	case gemtext.LinePreformatted:
		return styles.PreStyle.Render(text)
	case gemtext.LineListItem:
		return styles.BulletStyle.Render(text)
	default:
		return styles.TextStyle.Render(text)
	}
}

// invalidateLinkRows repaints the rows of visible link runs, e.g. when
// the number overlay toggles.
func (m *Model) invalidateLinkRows() {
	vis := m.sess.VisibleRange(time.Now())
	m.sess.Doc().Render(vis, func(run *gemtext.Run) {
		if run.LinkID != 0 && run.Flags&gemtext.RunDecoration == 0 {
			m.sess.VisBuf().InvalidateRange(run.Bounds.YSpan())
		}
	})
}

// linkFirstRows returns the first document row of each link, recomputing
// only when the layout generation moved.
func (m Model) linkFirstRows() map[gemtext.LinkID]int {
	doc := m.sess.Doc()
	if m.linkRows.rows != nil && m.linkRows.gen == doc.Generation() {
		return m.linkRows.rows
	}
	rows := make(map[gemtext.LinkID]int)
	doc.Render(gemtext.Range{Start: 0, End: doc.Height()}, func(run *gemtext.Run) {
		if run.LinkID == 0 || run.Flags&gemtext.RunDecoration != 0 {
			return
		}
		if _, ok := rows[run.LinkID]; !ok {
			rows[run.LinkID] = run.Bounds.Y
		}
	})
	m.linkRows.rows = rows
	m.linkRows.gen = doc.Generation()
	return rows
}

// logPaneView is the tail of the debug log, one entry per row.
func (m Model) logPaneView() string {
	lines := make([]string, 0, logPaneLines+1)
	lines = append(lines, styles.MutedStyle.Render(strings.Repeat("─", m.width)))

	tail := m.logLines
	if len(tail) > logPaneLines {
		tail = tail[len(tail)-logPaneLines:]
	}
	for _, entry := range tail {
		lines = append(lines, styleLogEntry(runewidth.Truncate(entry, m.width, "…")))
	}
	if len(tail) == 0 {
		if m.logListener == nil {
			lines = append(lines, styles.MutedStyle.Render("logging disabled, start with --log-file"))
		} else {
			lines = append(lines, styles.MutedStyle.Render("no log entries yet"))
		}
	}
	for len(lines) < logPaneLines+1 {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// styleLogEntry colors an entry by its bracketed level.
func styleLogEntry(entry string) string {
	switch {
	case strings.Contains(entry, "[ERROR]"):
		return styles.StatusErrorStyle.Render(entry)
	case strings.Contains(entry, "[WARN]"):
		return styles.StatusWarningStyle.Render(entry)
	case strings.Contains(entry, "[DEBUG]"):
		return styles.MutedStyle.Render(entry)
	default:
		return styles.TextStyle.Render(entry)
	}
}

// promptView is the focused bottom-line input.
func (m Model) promptView() string {
	label := styles.MutedStyle.Render(m.promptLabel + ": ")
	return label + m.input.View()
}

// statusBarView is the one-row bar with fetch state, URL and position.
func (m Model) statusBarView(now time.Time) string {
	var left string
	switch m.sess.State() {
	case session.Fetching, session.PartialResponse:
		left = m.spin.View() + " " + m.sess.URL()
	case session.Blank:
		left = "gemview"
	default:
		left = certIndicator(m.sess.CertInfo()) + m.sess.URL()
	}
	if m.flash != "" {
		left = m.flashStyle.Render(m.flash)
	}

	right := fmt.Sprintf(" %d%% ", int(m.sess.NormScroll(now)*100))

	// ANSI-aware truncation; left may carry style escapes.
	gap := m.width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 0 {
		left = ansi.Truncate(left, m.width-ansi.StringWidth(right), "…")
		gap = m.width - ansi.StringWidth(left) - ansi.StringWidth(right)
		if gap < 0 {
			gap = 0
		}
	}
	return styles.StatusBarStyle.Render(left + strings.Repeat(" ", gap) + right)
}

// certIndicator is the status bar's lock prefix for the current host.
func certIndicator(cert gemini.CertInfo) string {
	if cert.Flags&gemini.CertAvailable == 0 {
		return ""
	}
	if cert.Flags&gemini.CertTrusted != 0 {
		return styles.StatusSuccessStyle.Render("🔒") + " "
	}
	return styles.StatusWarningStyle.Render("🔓") + " "
}

// cutCells returns the slice of s covering display cells [from, from+width).
func cutCells(s string, from, width int) string {
	if from <= 0 {
		return runewidth.Truncate(s, width, "")
	}
	col := 0
	start := len(s)
	for i, r := range s {
		if col >= from {
			start = i
			break
		}
		col += runewidth.RuneWidth(r)
	}
	return runewidth.Truncate(s[start:], width, "")
}
