package slides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crownemmanuel/proassist/internal/domain"
)

func texts(t *testing.T, items []domain.SlideItem) []string {
	t.Helper()
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Text)
	}
	return out
}

func TestSegment_ParentWithChildren(t *testing.T) {
	out := Segment("Heading\n\tPoint A\n\tPoint B")
	require.Len(t, out, 3)

	// Build-up sequence: heading alone, then heading+point per point.
	assert.Equal(t, []string{"Heading"}, texts(t, out[0].Items))
	assert.Equal(t, []string{"Heading", "Point A"}, texts(t, out[1].Items))
	assert.Equal(t, []string{"Heading", "Point B"}, texts(t, out[2].Items))

	assert.False(t, out[1].Items[0].IsSubItem)
	assert.True(t, out[1].Items[1].IsSubItem)

	assert.Equal(t, Palette[0], out[0].Color)
	assert.Equal(t, Palette[1], out[1].Color)
	assert.Equal(t, Palette[2], out[2].Color)
}

func TestSegment_BareLinesMergeWithoutConsumingColors(t *testing.T) {
	out := Segment("Line1\nLine2\n\nLine3")
	require.Len(t, out, 2)

	assert.Equal(t, []string{"Line1", "Line2"}, texts(t, out[0].Items))
	assert.Equal(t, []string{"Line3"}, texts(t, out[1].Items))

	// Bare-line runs are always blue and never advance the color cycle.
	assert.Equal(t, Palette[0], out[0].Color)
	assert.Equal(t, Palette[0], out[1].Color)
}

func TestSegment_LeadingOrphanAdvancesColorIndex(t *testing.T) {
	out := Segment("\tOrphan\nHeading\n\tChild")
	require.Len(t, out, 3)

	assert.Equal(t, []string{"Orphan"}, texts(t, out[0].Items))
	assert.Equal(t, Palette[0], out[0].Color)

	// The orphan consumed palette slot 0, so the heading gets slot 1.
	assert.Equal(t, []string{"Heading"}, texts(t, out[1].Items))
	assert.Equal(t, Palette[1], out[1].Color)
	assert.Equal(t, Palette[2], out[2].Color)
}

func TestSegment_OrphanAlone(t *testing.T) {
	out := Segment("\tOrphan")
	require.Len(t, out, 1)
	assert.Equal(t, []string{"Orphan"}, texts(t, out[0].Items))
	assert.Equal(t, Palette[0], out[0].Color)
}

func TestSegment_FourSpaceIndent(t *testing.T) {
	out := Segment("Heading\n    Point A")
	require.Len(t, out, 2)
	assert.Equal(t, []string{"Heading", "Point A"}, texts(t, out[1].Items))
	assert.True(t, out[1].Items[1].IsSubItem)
}

func TestSegment_IndentedLineAfterBlankIsOrphan(t *testing.T) {
	out := Segment("Heading\n\tChild\n\n\tLate")
	require.Len(t, out, 3)
	assert.Equal(t, []string{"Late"}, texts(t, out[2].Items))
	// Slots 0 and 1 went to the heading and its child.
	assert.Equal(t, Palette[2], out[2].Color)
}

func TestSegment_EmptyAndBlankInput(t *testing.T) {
	assert.Empty(t, Segment(""))
	assert.Empty(t, Segment("\n\n  \n\t\n"))
}

func TestSegment_PaletteWrapsAfterEight(t *testing.T) {
	text := "H\n\t1\n\t2\n\t3\n\t4\n\t5\n\t6\n\t7\n\t8"
	out := Segment(text)
	require.Len(t, out, 9)
	assert.Equal(t, Palette[7], out[7].Color)
	assert.Equal(t, Palette[0], out[8].Color)
}

func TestSegment_BareRunBetweenBuildUps(t *testing.T) {
	out := Segment("A\n\tx\nB1\nB2\nC\n\ty")
	require.Len(t, out, 5)

	assert.Equal(t, []string{"A"}, texts(t, out[0].Items))
	assert.Equal(t, []string{"A", "x"}, texts(t, out[1].Items))
	assert.Equal(t, []string{"B1", "B2"}, texts(t, out[2].Items))
	assert.Equal(t, Palette[0], out[2].Color)

	// The bare run did not consume a slot: C continues at slot 2.
	assert.Equal(t, []string{"C"}, texts(t, out[3].Items))
	assert.Equal(t, Palette[2], out[3].Color)
	assert.Equal(t, Palette[3], out[4].Color)
}
