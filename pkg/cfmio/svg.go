package cfmio

import (
	"bytes"
	"fmt"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/cfmtoolbox/cfm-core/pkg/model"
)

// SVGOptions configures the feature-tree rendering. Layout is a simple
// depth-by-row, leaf-order-by-column placement — not the original's
// Reingold-Tilford tree drawing, which stays out of scope (spec.md §1).
type SVGOptions struct {
	NodeWidth   int    // Box width in pixels (default: 140)
	NodeHeight  int    // Box height in pixels (default: 50)
	XGap        int    // Horizontal gap between sibling boxes (default: 20)
	YGap        int    // Vertical gap between depth rows (default: 70)
	Margin      int    // Canvas margin in pixels (default: 40)
	Title       string // Optional title drawn above the tree
	ShowCounts  bool   // Overlay per-feature instance counts from a sampled configuration
}

// DefaultSVGOptions returns sensible default rendering options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		NodeWidth:  140,
		NodeHeight: 50,
		XGap:       20,
		YGap:       70,
		Margin:     40,
		Title:      "Feature Model",
	}
}

type nodePosition struct {
	col, row int
}

// layoutTree assigns each feature a (col, row) grid cell: row is its
// depth from the root, col is its position among leaves in a left-to-
// right post-order walk, with internal nodes centered over their
// children's column span.
func layoutTree(root *model.Feature) map[*model.Feature]nodePosition {
	positions := make(map[*model.Feature]nodePosition)
	nextCol := 0

	var walk func(f *model.Feature, depth int) (firstCol, lastCol int)
	walk = func(f *model.Feature, depth int) (int, int) {
		if len(f.Children) == 0 {
			col := nextCol
			nextCol++
			positions[f] = nodePosition{col: col, row: depth}
			return col, col
		}
		first, last := -1, -1
		for _, child := range f.Children {
			cf, cl := walk(child, depth+1)
			if first == -1 {
				first = cf
			}
			last = cl
		}
		col := (first + last) / 2
		positions[f] = nodePosition{col: col, row: depth}
		return first, last
	}
	if root != nil {
		walk(root, 0)
	}
	return positions
}

// RenderCFM renders cfm's feature tree to SVG. When overlay is non-nil
// and opts.ShowCounts is set, each feature's box is annotated with its global instance count in the
// sampled configuration (0 if absent), giving a visual "which features
// fired" view without implementing the original's attribute/heatmap
// machinery.
func RenderCFM(cfm *model.CFM, overlay *model.ConfigurationNode, opts SVGOptions) ([]byte, error) {
	if cfm == nil || cfm.Root == nil {
		return nil, fmt.Errorf("cfmio: cfm has no root")
	}
	if opts.NodeWidth <= 0 {
		opts.NodeWidth = 140
	}
	if opts.NodeHeight <= 0 {
		opts.NodeHeight = 50
	}
	if opts.XGap <= 0 {
		opts.XGap = 20
	}
	if opts.YGap <= 0 {
		opts.YGap = 70
	}
	if opts.Margin <= 0 {
		opts.Margin = 40
	}

	positions := layoutTree(cfm.Root)
	maxCol, maxRow := 0, 0
	for _, p := range positions {
		if p.col > maxCol {
			maxCol = p.col
		}
		if p.row > maxRow {
			maxRow = p.row
		}
	}

	titleHeight := 0
	if opts.Title != "" {
		titleHeight = 30
	}
	width := 2*opts.Margin + (maxCol+1)*(opts.NodeWidth+opts.XGap) - opts.XGap
	height := 2*opts.Margin + titleHeight + (maxRow+1)*(opts.NodeHeight+opts.YGap) - opts.YGap

	var counts map[string]int
	if overlay != nil {
		counts = make(map[string]int)
		var walk func(n *model.ConfigurationNode)
		walk = func(n *model.ConfigurationNode) {
			counts[n.FeatureName]++
			for _, c := range n.Children {
				walk(c)
			}
		}
		walk(overlay)
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#1a1a2e")

	if opts.Title != "" {
		canvas.Text(width/2, opts.Margin, opts.Title,
			"text-anchor:middle;font-size:18px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
	}

	boxCenter := func(p nodePosition) (int, int) {
		x := opts.Margin + p.col*(opts.NodeWidth+opts.XGap) + opts.NodeWidth/2
		y := opts.Margin + titleHeight + p.row*(opts.NodeHeight+opts.YGap) + opts.NodeHeight/2
		return x, y
	}

	drawEdges(canvas, cfm.Root, positions, boxCenter)
	drawFeatureNodes(canvas, cfm.Root, positions, boxCenter, counts, opts)

	canvas.End()
	return buf.Bytes(), nil
}

func drawEdges(canvas *svg.SVG, f *model.Feature, positions map[*model.Feature]nodePosition, center func(nodePosition) (int, int)) {
	px, py := center(positions[f])
	for _, child := range f.Children {
		cx, cy := center(positions[child])
		canvas.Line(px, py, cx, cy, "stroke:#4a5568;stroke-width:2;opacity:0.8")
		drawEdges(canvas, child, positions, center)
	}
}

func drawFeatureNodes(canvas *svg.SVG, f *model.Feature, positions map[*model.Feature]nodePosition, center func(nodePosition) (int, int), counts map[string]int, opts SVGOptions) {
	x, y := center(positions[f])
	left := x - opts.NodeWidth/2
	top := y - opts.NodeHeight/2

	fill := "#2d3748"
	if f.IsRequired() {
		fill = "#2f5545"
	}
	canvas.Rect(left, top, opts.NodeWidth, opts.NodeHeight, fmt.Sprintf("fill:%s;stroke:#e2e8f0;stroke-width:1;rx:6", fill))
	canvas.Text(x, y-6, f.Name, "text-anchor:middle;font-size:12px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
	canvas.Text(x, y+10, f.InstanceCardinality.String(), "text-anchor:middle;font-size:10px;fill:#a0aec0;font-family:monospace")

	if opts.ShowCounts && counts != nil {
		count := counts[f.Name]
		canvas.Text(x, y+22, fmt.Sprintf("count=%d", count), "text-anchor:middle;font-size:10px;fill:#f6ad55;font-family:monospace")
	}

	for _, child := range f.Children {
		drawFeatureNodes(canvas, child, positions, center, counts, opts)
	}
}

// SaveSVGToFile renders cfm and writes the result to filepath.
func SaveSVGToFile(cfm *model.CFM, overlay *model.ConfigurationNode, filepath string, opts SVGOptions) error {
	data, err := RenderCFM(cfm, overlay, opts)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, data, 0644)
}
