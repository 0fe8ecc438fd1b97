package gemtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/gemview/internal/content"
)

func runsOfKind(d *Document, kind LineKind) []*Run {
	var out []*Run
	d.Render(Range{Start: 0, End: d.Height()}, func(r *Run) {
		if r.Kind == kind {
			out = append(out, r)
		}
	})
	return out
}

func TestDocument_HeadingAndLink(t *testing.T) {
	d := NewDocument()
	d.SetFormat(content.FormatGemtext)
	d.SetSource("# Hi\n=> /a A\n", 60)

	headings := runsOfKind(d, LineHeading1)
	require.Len(t, headings, 1)
	require.Equal(t, "Hi", headings[0].Text)
	require.Equal(t, "Hi", d.Title())

	links := runsOfKind(d, LineLink)
	require.Len(t, links, 1)
	require.Equal(t, "A", links[0].Text)
	require.Equal(t, "/a", d.LinkURL(links[0].LinkID))
}

func TestDocument_LineKinds(t *testing.T) {
	src := strings.Join([]string{
		"## Sub",
		"### Subsub",
		"* item one",
		"> a quote",
		"plain text",
	}, "\n")
	d := NewDocument()
	d.SetSource(src, 60)

	require.Len(t, runsOfKind(d, LineHeading2), 1)
	require.Len(t, runsOfKind(d, LineHeading3), 1)

	items := runsOfKind(d, LineListItem)
	require.Len(t, items, 1)
	require.Equal(t, "• item one", items[0].Text)
	require.Equal(t, 2, items[0].Bounds.X)

	quotes := runsOfKind(d, LineQuote)
	require.Len(t, quotes, 1)
	require.Equal(t, "a quote", quotes[0].Text)
}

func TestDocument_Wrapping(t *testing.T) {
	d := NewDocument()
	d.SetSource("one two three four five six", 10)

	texts := runsOfKind(d, LineText)
	require.Greater(t, len(texts), 1)
	for i, r := range texts {
		require.LessOrEqual(t, r.Bounds.W, 10)
		require.Equal(t, i, r.Bounds.Y)
	}
	require.Equal(t, len(texts), d.Height())
}

func TestDocument_RewrapOnWidthChange(t *testing.T) {
	d := NewDocument()
	d.SetSource("one two three four five six", 10)
	gen := d.Generation()
	tall := d.Height()

	d.SetWidth(80)
	require.Greater(t, d.Generation(), gen)
	require.Less(t, d.Height(), tall)

	// Same width is a no-op.
	gen = d.Generation()
	d.SetWidth(80)
	require.Equal(t, gen, d.Generation())
}

func TestDocument_PreformattedBlocks(t *testing.T) {
	src := strings.Join([]string{
		"```",
		"short",
		"a very long preformatted line that exceeds the layout width",
		"```",
		"after",
		"```",
		"second block",
		"```",
	}, "\n")
	d := NewDocument()
	d.SetSource(src, 20)

	first := d.PreRuns(1)
	require.Len(t, first, 2)
	require.Equal(t, "short", first[0].Text)
	require.False(t, first[0].IsWide())
	require.True(t, first[1].IsWide())
	require.Greater(t, d.PreMaxWidth(1), 20)

	second := d.PreRuns(2)
	require.Len(t, second, 1)
	require.Equal(t, "second block", second[0].Text)
	require.Zero(t, runsOfKind(d, LineText)[0].PreID)
}

func TestDocument_PlainTextIsOnePreBlock(t *testing.T) {
	d := NewDocument()
	d.SetFormat(content.FormatPlainText)
	d.SetSource("# not a heading\n=> not a link\n", 40)

	require.Empty(t, d.Links())
	require.Empty(t, runsOfKind(d, LineHeading1))
	runs := d.PreRuns(1)
	require.Len(t, runs, 2)
	require.Equal(t, "# not a heading", runs[0].Text)
}

func TestDocument_LinkClassification(t *testing.T) {
	src := strings.Join([]string{
		"=> gemini://host/pic.png A picture",
		"=> /song.ogg A song",
		"=> https://example.com Web",
		"=> relative/path Plain",
	}, "\n")
	d := NewDocument()
	d.SetSource(src, 60)

	links := d.Links()
	require.Len(t, links, 4)
	require.NotZero(t, links[0].Flags&LinkImage)
	require.NotZero(t, links[0].Flags&LinkSupported)
	require.NotZero(t, links[1].Flags&LinkAudio)
	require.Zero(t, links[2].Flags&LinkSupported)
	require.NotZero(t, links[3].Flags&LinkSupported)
	require.Zero(t, links[3].Flags&(LinkImage|LinkAudio))
}

func TestDocument_LinkWithoutLabelShowsTarget(t *testing.T) {
	d := NewDocument()
	d.SetSource("=> gemini://host/\n", 60)

	links := runsOfKind(d, LineLink)
	require.Len(t, links, 1)
	require.Equal(t, "gemini://host/", links[0].Text)
}

func TestDocument_MediaPlaceholderAfterLink(t *testing.T) {
	d := NewDocument()
	d.SetSource("=> /pic.png A picture\nafter\n", 60)
	require.Equal(t, 2, d.Height())

	changed := d.Media().SetData(1, "image/png", []byte{1, 2, 3}, 0)
	require.True(t, changed)
	d.RedoLayout()

	require.Equal(t, 3, d.Height())
	placeholder := d.FindRunAt(Pos{Y: 1})
	require.NotNil(t, placeholder)
	require.NotZero(t, placeholder.Flags&RunDecoration)
	require.NotZero(t, placeholder.ImageID)
	require.Zero(t, placeholder.AudioID)
	require.NotZero(t, d.Link(1).Flags&LinkContent)

	// Hiding removes the placeholder but keeps the bytes.
	require.True(t, d.Media().SetHidden(1, true))
	d.RedoLayout()
	require.Equal(t, 2, d.Height())
	_, data, _, ok := d.Media().ForLink(1)
	require.True(t, ok)
	require.Len(t, data, 3)
}

func TestDocument_AudioPlaceholderPartial(t *testing.T) {
	d := NewDocument()
	d.SetSource("=> /song.ogg A song\n", 60)

	d.Media().SetData(1, "audio/ogg", []byte{1}, MediaPartial)
	d.RedoLayout()

	placeholder := d.FindRunAt(Pos{Y: 1})
	require.NotNil(t, placeholder)
	require.NotZero(t, placeholder.AudioID)
	require.Contains(t, placeholder.Text, "loading")
}

func TestDocument_RenderVisitsOnlyVisible(t *testing.T) {
	lines := make([]string, 20)
	for i := range lines {
		lines[i] = "row"
	}
	d := NewDocument()
	d.SetSource(strings.Join(lines, "\n"), 40)

	var visited []int
	d.Render(Range{Start: 5, End: 8}, func(r *Run) {
		visited = append(visited, r.Bounds.Y)
	})
	require.Equal(t, []int{5, 6, 7}, visited)
}

func TestDocument_FindText(t *testing.T) {
	d := NewDocument()
	d.SetSource("alpha\nbeta\nALPHA again\n", 40)

	first := d.FindText("alpha", nil)
	require.NotNil(t, first)
	require.Equal(t, 0, first.Bounds.Y)

	second := d.FindText("alpha", first)
	require.NotNil(t, second)
	require.Equal(t, 2, second.Bounds.Y)

	require.Nil(t, d.FindText("alpha", second))
	require.Nil(t, d.FindText("", nil))
}

func TestDocument_Reset(t *testing.T) {
	d := NewDocument()
	d.SetSource("# Hi\n=> /a A\n", 60)
	d.Media().SetData(1, "image/png", []byte{1}, 0)
	gen := d.Generation()

	d.Reset()
	require.Zero(t, d.Height())
	require.Empty(t, d.Links())
	require.Empty(t, d.Title())
	require.Greater(t, d.Generation(), gen)
	_, _, _, ok := d.Media().ForLink(1)
	require.False(t, ok)
}

func TestDocument_RunsContiguous(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(t, "lines")
		var sb strings.Builder
		for i := 0; i < n; i++ {
			switch rapid.IntRange(0, 4).Draw(t, "kind") {
			case 0:
				sb.WriteString("# ")
			case 1:
				sb.WriteString("* ")
			case 2:
				sb.WriteString("> ")
			case 3:
				sb.WriteString("=> /t ")
			}
			sb.WriteString(rapid.StringMatching(`[a-z ]{0,40}`).Draw(t, "text"))
			sb.WriteByte('\n')
		}
		width := rapid.IntRange(5, 120).Draw(t, "width")

		d := NewDocument()
		d.SetSource(sb.String(), width)

		// Every row in [0, Height) is covered by exactly one run.
		y := 0
		d.Render(Range{Start: 0, End: d.Height()}, func(r *Run) {
			if r.Bounds.Y != y {
				t.Fatalf("row gap at %d, run starts at %d", y, r.Bounds.Y)
			}
			y += r.Bounds.H
		})
		if y != d.Height() {
			t.Fatalf("runs cover %d rows, height is %d", y, d.Height())
		}
	})
}
