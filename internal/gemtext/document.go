package gemtext

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rivo/uniseg"

	"github.com/zjrosen/gemview/internal/content"
)

// Document is the laid-out form of one page source. Setting the source or
// the width regenerates every run; callers must drop run references from
// earlier generations.
type Document struct {
	format content.Format
	source string
	width  int

	runs     []*Run
	links    []*Link
	media    *Media
	preCount uint16
	height   int
	title    string

	generation uint64
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{media: NewMedia(), width: 80}
}

// SetFormat selects the layout format for the next SetSource.
func (d *Document) SetFormat(f content.Format) {
	d.format = f
}

// Format returns the current layout format.
func (d *Document) Format() content.Format {
	return d.format
}

// SetSource replaces the source text and lays it out at the given width.
func (d *Document) SetSource(source string, width int) {
	d.source = source
	d.width = width
	d.relayout()
}

// SetWidth relays out the current source at a new width.
func (d *Document) SetWidth(width int) {
	if width == d.width {
		return
	}
	d.width = width
	d.relayout()
}

// RedoLayout regenerates runs from the current source, picking up media
// store changes.
func (d *Document) RedoLayout() {
	d.relayout()
}

// Reset clears the document to the blank state. Media content is dropped.
func (d *Document) Reset() {
	d.source = ""
	d.runs = nil
	d.links = nil
	d.preCount = 0
	d.height = 0
	d.title = ""
	d.media.Clear()
	d.generation++
}

// Source returns the source text of the current layout.
func (d *Document) Source() string {
	return d.source
}

// Title returns the first level-1 heading, or "".
func (d *Document) Title() string {
	return d.title
}

// Width returns the layout width.
func (d *Document) Width() int {
	return d.width
}

// Height returns the total document height in rows.
func (d *Document) Height() int {
	return d.height
}

// Generation increments on every relayout or reset; run references are only
// valid within the generation that produced them.
func (d *Document) Generation() uint64 {
	return d.generation
}

// Media returns the inline media store.
func (d *Document) Media() *Media {
	return d.media
}

// Links returns the parsed links of the current generation.
func (d *Document) Links() []*Link {
	return d.links
}

// Link returns the link with the given id, or nil.
func (d *Document) Link(id LinkID) *Link {
	if id == 0 || int(id) > len(d.links) {
		return nil
	}
	return d.links[id-1]
}

// LinkURL returns the target of a link, or "".
func (d *Document) LinkURL(id LinkID) string {
	if l := d.Link(id); l != nil {
		return l.URL
	}
	return ""
}

// Render visits every run whose bounds overlap the vertical range, in
// document order.
func (d *Document) Render(vis Range, fn func(*Run)) {
	for _, run := range d.runs {
		if run.Bounds.YSpan().Overlaps(vis) {
			fn(run)
		}
	}
}

// FindRunAt returns the run covering the position, or nil.
func (d *Document) FindRunAt(p Pos) *Run {
	for _, run := range d.runs {
		if run.Bounds.YSpan().Contains(p.Y) {
			return run
		}
	}
	return nil
}

// PreRuns returns all runs of one preformatted block.
func (d *Document) PreRuns(preID uint16) []*Run {
	var out []*Run
	for _, run := range d.runs {
		if run.PreID == preID {
			out = append(out, run)
		}
	}
	return out
}

// PreMaxWidth returns the widest line of one preformatted block.
func (d *Document) PreMaxWidth(preID uint16) int {
	maxW := 0
	for _, run := range d.runs {
		if run.PreID == preID && run.Bounds.W > maxW {
			maxW = run.Bounds.W
		}
	}
	return maxW
}

// FindText returns the first non-decoration run after the given run whose
// text contains query (case-insensitive). A nil after starts from the top.
// Returns nil when no further match exists.
func (d *Document) FindText(query string, after *Run) *Run {
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)
	started := after == nil
	for _, run := range d.runs {
		if !started {
			if run == after {
				started = true
			}
			continue
		}
		if run.Flags&RunDecoration != 0 {
			continue
		}
		if strings.Contains(strings.ToLower(run.Text), q) {
			return run
		}
	}
	return nil
}

// Text returns the plain text content of the document: every
// non-decoration run's text joined by newlines. Incremental and batch
// ingestion of the same body must produce identical Text output.
func (d *Document) Text() string {
	var sb strings.Builder
	for _, run := range d.runs {
		if run.Flags&RunDecoration != 0 {
			continue
		}
		sb.WriteString(run.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (d *Document) relayout() {
	d.generation++
	d.runs = nil
	d.links = nil
	d.preCount = 0
	d.title = ""

	if d.width <= 0 || d.source == "" {
		d.height = 0
		return
	}

	switch d.format {
	case content.FormatPlainText:
		d.layoutPlainText()
	default:
		d.layoutGemtext()
	}

	d.height = 0
	if n := len(d.runs); n > 0 {
		last := d.runs[n-1]
		d.height = last.Bounds.Y + last.Bounds.H
	}
}

// layoutPlainText treats the whole source as a single preformatted block:
// no wrapping, lines wider than the layout width become wide runs.
func (d *Document) layoutPlainText() {
	d.preCount = 1
	y := 0
	for _, line := range strings.Split(strings.TrimRight(d.source, "\n"), "\n") {
		d.appendPreRun(line, y, 1)
		y++
	}
}

func (d *Document) layoutGemtext() {
	y := 0
	inPre := false
	var preID uint16

	for _, line := range strings.Split(strings.TrimRight(d.source, "\n"), "\n") {
		if strings.HasPrefix(line, "```") {
			inPre = !inPre
			if inPre {
				d.preCount++
				preID = d.preCount
			}
			continue
		}
		if inPre {
			d.appendPreRun(line, y, preID)
			y++
			continue
		}
		y = d.layoutLine(line, y)
	}
}

// layoutLine lays out one non-preformatted gemtext line starting at row y
// and returns the next free row.
func (d *Document) layoutLine(line string, y int) int {
	kind := LineText
	text := line
	indent := 0

	switch {
	case strings.HasPrefix(line, "###"):
		kind = LineHeading3
		text = strings.TrimSpace(line[3:])
	case strings.HasPrefix(line, "##"):
		kind = LineHeading2
		text = strings.TrimSpace(line[2:])
	case strings.HasPrefix(line, "#"):
		kind = LineHeading1
		text = strings.TrimSpace(line[1:])
		if d.title == "" {
			d.title = text
		}
	case strings.HasPrefix(line, "* "):
		kind = LineListItem
		text = "• " + strings.TrimSpace(line[2:])
		indent = 2
	case strings.HasPrefix(line, ">"):
		kind = LineQuote
		text = strings.TrimSpace(line[1:])
		indent = 2
	case strings.HasPrefix(line, "=>"):
		return d.layoutLink(line, y)
	}

	if strings.TrimSpace(text) == "" {
		d.runs = append(d.runs, &Run{Bounds: Rect{Y: y, W: 0, H: 1}, Kind: kind})
		return y + 1
	}

	for _, seg := range wrapLines(text, d.width-indent) {
		d.runs = append(d.runs, &Run{
			Text:   seg,
			Bounds: Rect{X: indent, Y: y, W: displayWidth(seg), H: 1},
			Kind:   kind,
		})
		y++
	}
	return y
}

func (d *Document) layoutLink(line string, y int) int {
	target, label := parseLinkLine(line)
	if target == "" {
		// Malformed link line degrades to plain text.
		return d.layoutLine(" "+line, y)
	}

	link := &Link{
		ID:    LinkID(len(d.links) + 1),
		URL:   target,
		Label: label,
		Flags: classifyLink(target),
	}
	d.links = append(d.links, link)

	display := label
	if display == "" {
		display = target
	}
	for _, seg := range wrapLines(display, d.width-2) {
		d.runs = append(d.runs, &Run{
			Text:   seg,
			Bounds: Rect{X: 2, Y: y, W: displayWidth(seg), H: 1},
			Kind:   LineLink,
			LinkID: link.ID,
		})
		y++
	}

	// Attach a placeholder run for loaded inline media.
	for i, slot := range d.media.visible() {
		if slot.linkID != link.ID {
			continue
		}
		link.Flags |= LinkContent
		run := &Run{
			Bounds: Rect{X: 2, Y: y, H: 1},
			Kind:   LineLink,
			Flags:  RunDecoration,
			LinkID: link.ID,
		}
		state := ""
		if slot.flags&MediaPartial != 0 {
			state = ", loading"
		}
		run.Text = fmt.Sprintf("[%s, %d bytes%s]", slot.mime, len(slot.data), state)
		if strings.HasPrefix(slot.mime, "audio/") {
			run.AudioID = MediaID(i + 1)
		} else {
			run.ImageID = MediaID(i + 1)
		}
		run.Bounds.W = displayWidth(run.Text)
		d.runs = append(d.runs, run)
		y++
	}
	return y
}

func (d *Document) appendPreRun(line string, y int, preID uint16) {
	w := displayWidth(line)
	run := &Run{
		Text:   line,
		Bounds: Rect{Y: y, W: w, H: 1},
		Kind:   LinePreformatted,
		PreID:  preID,
	}
	if w > d.width {
		run.Flags |= RunWide
	}
	d.runs = append(d.runs, run)
}

func parseLinkLine(line string) (target, label string) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "=>"))
	if rest == "" {
		return "", ""
	}
	if idx := strings.IndexAny(rest, " \t"); idx >= 0 {
		return rest[:idx], strings.TrimSpace(rest[idx:])
	}
	return rest, ""
}

func classifyLink(target string) LinkFlags {
	var flags LinkFlags
	lower := strings.ToLower(target)
	scheme := ""
	if idx := strings.Index(lower, "://"); idx >= 0 {
		scheme = lower[:idx]
	}
	if scheme == "" || scheme == "gemini" || scheme == "about" {
		flags |= LinkSupported
	}
	switch {
	case hasAnySuffix(lower, ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp"):
		flags |= LinkImage
	case hasAnySuffix(lower, ".ogg", ".oga", ".mp3", ".wav", ".flac"):
		flags |= LinkAudio
	}
	return flags
}

func hasAnySuffix(s string, suffixes ...string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

func wrapLines(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	return strings.Split(wordwrap.String(text, width), "\n")
}

// displayWidth measures terminal cells, grapheme cluster by grapheme
// cluster, so combined emoji and wide CJK measure correctly.
func displayWidth(s string) int {
	w := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		w += runewidth.StringWidth(g.Str())
	}
	return w
}
