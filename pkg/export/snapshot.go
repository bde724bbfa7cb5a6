// Package export renders abacus boards to static files.
package export

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	"github.com/ajstarks/svgo"
	"github.com/goccy/go-json"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/soroban/pkg/abacus"
	"github.com/vanderheijden86/soroban/pkg/debug"
	"github.com/vanderheijden86/soroban/pkg/metrics"
)

// SnapshotOptions controls board snapshot export.
type SnapshotOptions struct {
	Path      string          // Output path; format inferred from extension when Format empty
	Format    string          // "svg", "png" or "json" (case-insensitive)
	Title     string          // Optional heading; defaults to the board value
	Snapshot  abacus.Snapshot // Board to render
	Highlight int             // Column to outline, -1 for none
}

// Formats lists the supported output formats.
var Formats = []string{"svg", "png", "json"}

// SaveSnapshot writes a single board snapshot.
func SaveSnapshot(opts SnapshotOptions) error {
	defer metrics.Timer(metrics.Export)()

	if len(opts.Snapshot.Columns) == 0 {
		return fmt.Errorf("no columns to export")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	format, path, err := resolveFormat(opts.Format, opts.Path)
	if err != nil {
		return err
	}
	opts.Path = path

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	switch format {
	case "json":
		return writeFile(opts.Path, func(w io.Writer) error { return WriteJSON(w, opts.Snapshot) })
	case "svg":
		return writeFile(opts.Path, func(w io.Writer) error { return WriteSVG(w, opts) })
	default:
		return renderPNG(opts)
	}
}

// SaveSnapshots writes the same board to every path concurrently.
// The first failure cancels the rest and is returned.
func SaveSnapshots(ctx context.Context, snap abacus.Snapshot, title string, paths []string) error {
	defer debug.LogEnterExit("export.SaveSnapshots")()

	g, ctx := errgroup.WithContext(ctx)
	for _, p := range paths {
		p := strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := SaveSnapshot(SnapshotOptions{Path: p, Title: title, Snapshot: snap, Highlight: -1}); err != nil {
				return fmt.Errorf("export %s: %w", p, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func resolveFormat(format, path string) (string, string, error) {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".svg", ".png", ".json":
			format = ext[1:]
		case "":
			format = "svg"
			path += ".svg"
		default:
			return "", "", fmt.Errorf("cannot infer format from extension %q (want .svg, .png or .json)", ext)
		}
	}
	switch format {
	case "svg", "png", "json":
		return format, path, nil
	}
	return "", "", fmt.Errorf("unsupported format %q (want svg, png or json)", format)
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteJSON encodes the snapshot as indented JSON.
func WriteJSON(w io.Writer, snap abacus.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// --- layout ----------------------------------------------------------------

var (
	colorBackdrop = color.RGBA{R: 0xf7, G: 0xf3, B: 0xea, A: 0xff}
	colorFrame    = color.RGBA{R: 0x6b, G: 0x4a, B: 0x2b, A: 0xff}
	colorRod      = color.RGBA{R: 0x8c, G: 0x7b, B: 0x6a, A: 0xff}
	colorBar      = color.RGBA{R: 0x3e, G: 0x2a, B: 0x18, A: 0xff}
	colorActive   = color.RGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff}
	colorRest     = color.RGBA{R: 0xd9, G: 0xb9, B: 0x8c, A: 0xff}
	colorText     = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	colorSubtle   = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}
	colorCorrect  = color.RGBA{R: 0x2e, G: 0x8b, B: 0x57, A: 0xff}
	colorHighlite = color.RGBA{R: 0xf1, G: 0xc4, B: 0x0f, A: 0xff}
)

const (
	colWidth   = 72.0
	beadW      = 52.0
	beadH      = 22.0
	slotH      = 28.0
	padding    = 32.0
	headerH    = 64.0
	labelH     = 22.0
	barH       = 8.0
	footerH    = 40.0
	heavenGap  = 2 // heaven slots: rest, active
	earthSlots = 5 // four beads plus the gap
)

type beadRect struct {
	X, Y   float64
	Active bool
}

type boardLayout struct {
	Width, Height int
	FrameX        float64
	FrameY        float64
	FrameW        float64
	FrameH        float64
	BarY          float64
	Beads         [][abacus.BeadsPerColumn]beadRect
	Labels        []string
	Digits        []int
	Title         string
	Subtitle      string
	Correct       bool
	Highlight     int
}

func colX(i int) float64 { return padding + float64(i)*colWidth + colWidth/2 }

func buildLayout(opts SnapshotOptions) boardLayout {
	snap := opts.Snapshot
	n := len(snap.Columns)

	frameY := padding + headerH + labelH
	heavenTop := frameY + 8
	barY := heavenTop + heavenGap*slotH + 4
	earthTop := barY + barH + 4
	frameH := earthTop + earthSlots*slotH + 8 - frameY

	l := boardLayout{
		Width:     int(2*padding + float64(n)*colWidth),
		Height:    int(frameY + frameH + footerH + padding),
		FrameX:    padding - 6,
		FrameY:    frameY,
		FrameW:    float64(n)*colWidth + 12,
		FrameH:    frameH,
		BarY:      barY,
		Labels:    snap.Labels,
		Digits:    snap.Digits,
		Title:     opts.Title,
		Correct:   snap.Correct,
		Highlight: opts.Highlight,
	}
	if len(l.Labels) != n {
		l.Labels = abacus.ColumnLabels(n)
	}
	if len(l.Digits) != n {
		l.Digits = make([]int, n)
		for i, col := range snap.Columns {
			l.Digits[i] = col.Value()
		}
	}
	if l.Title == "" {
		l.Title = fmt.Sprintf("Value %d", snap.Total)
	}
	l.Subtitle = fmt.Sprintf("mode: %s", snap.Mode)
	if snap.Target != nil {
		l.Subtitle += fmt.Sprintf("  target: %d", *snap.Target)
	}

	l.Beads = make([][abacus.BeadsPerColumn]beadRect, n)
	for i, col := range snap.Columns {
		x := colX(i) - beadW/2
		// Heaven rests against the frame and drops to the bar when active.
		hy := heavenTop
		if col.Heaven() {
			hy = heavenTop + slotH
		}
		l.Beads[i][abacus.RowHeaven] = beadRect{X: x, Y: hy, Active: col.Heaven()}
		// Active earth beads stack against the bar; the rest sit one slot lower.
		for row := 1; row <= abacus.EarthBeads; row++ {
			slot := row
			if col[row] {
				slot = row - 1
			}
			l.Beads[i][row] = beadRect{X: x, Y: earthTop + float64(slot)*slotH, Active: col[row]}
		}
	}
	return l
}

func beadColor(active bool) color.RGBA {
	if active {
		return colorActive
	}
	return colorRest
}

// --- PNG -------------------------------------------------------------------

func renderPNG(opts SnapshotOptions) error {
	l := buildLayout(opts)
	dc := gg.NewContext(l.Width, l.Height)
	dc.SetColor(colorBackdrop)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorText)
	dc.DrawStringAnchored(l.Title, padding, padding+16, 0, 0.5)
	dc.SetColor(colorSubtle)
	dc.DrawStringAnchored(l.Subtitle, padding, padding+36, 0, 0.5)

	dc.SetColor(colorFrame)
	dc.SetLineWidth(6)
	dc.DrawRectangle(l.FrameX, l.FrameY, l.FrameW, l.FrameH)
	dc.Stroke()

	for i := range l.Beads {
		cx := colX(i)
		if i == l.Highlight {
			dc.SetColor(colorHighlite)
			dc.SetLineWidth(3)
			dc.DrawRectangle(cx-colWidth/2+3, l.FrameY+3, colWidth-6, l.FrameH-6)
			dc.Stroke()
		}
		dc.SetColor(colorRod)
		dc.SetLineWidth(3)
		dc.DrawLine(cx, l.FrameY, cx, l.FrameY+l.FrameH)
		dc.Stroke()

		dc.SetColor(colorSubtle)
		dc.DrawStringAnchored(l.Labels[i], cx, l.FrameY-labelH/2, 0.5, 0.5)
		dc.SetColor(colorText)
		dc.DrawStringAnchored(fmt.Sprint(l.Digits[i]), cx, l.FrameY+l.FrameH+footerH/2, 0.5, 0.5)
	}

	dc.SetColor(colorBar)
	dc.DrawRectangle(l.FrameX, l.BarY, l.FrameW, barH)
	dc.Fill()

	for _, col := range l.Beads {
		for _, b := range col {
			dc.SetColor(beadColor(b.Active))
			dc.DrawEllipse(b.X+beadW/2, b.Y+beadH/2, beadW/2, beadH/2)
			dc.Fill()
			dc.SetColor(colorFrame)
			dc.SetLineWidth(1)
			dc.DrawEllipse(b.X+beadW/2, b.Y+beadH/2, beadW/2, beadH/2)
			dc.Stroke()
		}
	}

	if l.Correct {
		dc.SetColor(colorCorrect)
		dc.DrawStringAnchored("Correct!", float64(l.Width)-padding, padding+16, 1, 0.5)
	}

	return dc.SavePNG(opts.Path)
}

// --- SVG -------------------------------------------------------------------

// WriteSVG renders the board as SVG.
func WriteSVG(w io.Writer, opts SnapshotOptions) error {
	if len(opts.Snapshot.Columns) == 0 {
		return fmt.Errorf("no columns to export")
	}
	l := buildLayout(opts)

	canvas := svg.New(w)
	canvas.Start(l.Width, l.Height)
	canvas.Rect(0, 0, l.Width, l.Height, "fill:"+css(colorBackdrop))
	canvas.Text(int(padding), int(padding+20), l.Title,
		fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", css(colorText)))
	canvas.Text(int(padding), int(padding+40), l.Subtitle,
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", css(colorSubtle)))

	canvas.Rect(int(l.FrameX), int(l.FrameY), int(l.FrameW), int(l.FrameH),
		fmt.Sprintf("fill:none;stroke:%s;stroke-width:6", css(colorFrame)))

	for i := range l.Beads {
		cx := int(colX(i))
		if i == l.Highlight {
			canvas.Rect(cx-int(colWidth/2)+3, int(l.FrameY)+3, int(colWidth)-6, int(l.FrameH)-6,
				fmt.Sprintf("fill:none;stroke:%s;stroke-width:3", css(colorHighlite)))
		}
		canvas.Line(cx, int(l.FrameY), cx, int(l.FrameY+l.FrameH),
			fmt.Sprintf("stroke:%s;stroke-width:3", css(colorRod)))
		canvas.Text(cx, int(l.FrameY-6), l.Labels[i],
			fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;text-anchor:middle", css(colorSubtle)))
		canvas.Text(cx, int(l.FrameY+l.FrameH+footerH/2+5), fmt.Sprint(l.Digits[i]),
			fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;text-anchor:middle", css(colorText)))
	}

	canvas.Rect(int(l.FrameX), int(l.BarY), int(l.FrameW), int(barH), "fill:"+css(colorBar))

	for i, col := range l.Beads {
		canvas.Gid(fmt.Sprintf("col-%d", i))
		for row, b := range col {
			canvas.Ellipse(int(b.X+beadW/2), int(b.Y+beadH/2), int(beadW/2), int(beadH/2),
				fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1", css(beadColor(b.Active)), css(colorFrame)),
				fmt.Sprintf(`data-row="%d" data-active="%t"`, row, b.Active))
		}
		canvas.Gend()
	}

	if l.Correct {
		canvas.Text(l.Width-int(padding), int(padding+20), "Correct!",
			fmt.Sprintf("fill:%s;font-size:14px;font-family:monospace;text-anchor:end", css(colorCorrect)))
	}

	canvas.End()
	return nil
}

func css(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
