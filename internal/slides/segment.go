// Package slides implements the text-to-slide segmentation engine.
//
// Segmentation is a pure function: the same raw text always yields the
// same slide list, which makes re-broadcasting a session idempotent.
package slides

import (
	"strings"

	"github.com/crownemmanuel/proassist/internal/domain"
)

// Palette is the fixed 8-entry slide color cycle. Index 0 (blue) is also
// the fixed color for merged runs of bare lines.
var Palette = [8]string{
	"#2563EB", // blue
	"#DC2626", // red
	"#16A34A", // green
	"#9333EA", // purple
	"#EA580C", // orange
	"#0D9488", // teal
	"#DB2777", // pink
	"#CA8A04", // amber
}

// Segment splits raw text into an ordered slide list.
//
// A line is indented if it starts with a tab or four literal spaces. An
// indented line with no parent at the current scan point is an orphan and
// becomes its own slide. A parent followed by indented children produces a
// build-up sequence: the parent alone, then one slide per child layered
// under the parent. Consecutive bare lines merge into a single Palette[0]
// slide and do not consume a palette slot; that grouping asymmetry is
// inherited content-authoring behavior, not something to normalize.
func Segment(text string) []domain.Slide {
	lines := strings.Split(text, "\n")

	var out []domain.Slide
	colorIndex := 0

	i := 0
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			i++
			continue
		}

		if isIndented(line) {
			// Orphan: indented with no accumulated parent.
			out = append(out, domain.Slide{
				Items: []domain.SlideItem{{Text: strings.TrimSpace(stripIndent(line))}},
				Color: Palette[colorIndex%len(Palette)],
			})
			colorIndex++
			i++
			continue
		}

		parent := strings.TrimSpace(line)

		// Collect the contiguous run of indented children after the parent.
		j := i + 1
		var children []string
		for j < len(lines) {
			if strings.TrimSpace(lines[j]) == "" || !isIndented(lines[j]) {
				break
			}
			children = append(children, strings.TrimSpace(stripIndent(lines[j])))
			j++
		}

		if len(children) == 0 {
			// No children: absorb the whole run of consecutive bare lines
			// (including the parent) into one fixed-color slide.
			var items []domain.SlideItem
			k := i
			for k < len(lines) && strings.TrimSpace(lines[k]) != "" && !isIndented(lines[k]) {
				items = append(items, domain.SlideItem{Text: strings.TrimSpace(lines[k])})
				k++
			}
			out = append(out, domain.Slide{Items: items, Color: Palette[0]})
			i = k
			continue
		}

		// Build-up sequence: parent alone, then parent+child per child.
		out = append(out, domain.Slide{
			Items: []domain.SlideItem{{Text: parent}},
			Color: Palette[colorIndex%len(Palette)],
		})
		colorIndex++
		for _, child := range children {
			out = append(out, domain.Slide{
				Items: []domain.SlideItem{
					{Text: parent},
					{Text: child, IsSubItem: true},
				},
				Color: Palette[colorIndex%len(Palette)],
			})
			colorIndex++
		}
		i = j
	}

	return out
}

const spaceIndent = "    "

func isIndented(line string) bool {
	return strings.HasPrefix(line, "\t") || strings.HasPrefix(line, spaceIndent)
}

// stripIndent removes exactly one indent marker.
func stripIndent(line string) string {
	if strings.HasPrefix(line, "\t") {
		return line[1:]
	}
	return strings.TrimPrefix(line, spaceIndent)
}
