package chart

import (
	"fmt"
	"io"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	apperrors "harga-pangan-go/internal/errors"
	"harga-pangan-go/internal/pipeline"
	"harga-pangan-go/internal/types"
)

type Side string

const (
	Expensive Side = "expensive"
	Cheap     Side = "cheap"
)

const (
	width  = 10 * vg.Inch
	height = 5 * vg.Inch
)

// TrendPNG draws one line per selected commodity, or the aggregate line when
// nothing is selected. Undefined points are left out.
func TrendPNG(w io.Writer, v *pipeline.TrendView) error {
	p := plot.New()
	p.Title.Text = "Tren Harga Nasional"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Periode"
	p.Y.Label.Text = "Harga (Rp)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	drawn := 0
	if len(v.Selected) == 0 {
		pts := make(plotter.XYs, 0, len(v.Aggregate))
		for _, sp := range v.Aggregate {
			if sp.Value.Valid() {
				pts = append(pts, plotter.XY{X: float64(sp.Period.Unix()), Y: float64(sp.Value)})
			}
		}
		if err := addLine(p, "rata-rata", pts, 0); err != nil {
			return err
		}
		drawn += len(pts)
	}
	for i, c := range v.Selected {
		pts := make(plotter.XYs, 0, len(v.Trend))
		for _, tp := range v.Trend {
			if m, ok := tp.Means[c]; ok && m.Valid() {
				pts = append(pts, plotter.XY{X: float64(tp.Period.Unix()), Y: float64(m)})
			}
		}
		if err := addLine(p, label(c), pts, i); err != nil {
			return err
		}
		drawn += len(pts)
	}
	if drawn == 0 {
		return fmt.Errorf("trend chart: %w", apperrors.ErrEmptySelection)
	}
	return save(w, p)
}

func addLine(p *plot.Plot, name string, pts plotter.XYs, i int) error {
	if len(pts) == 0 {
		return nil
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return fmt.Errorf("trend line %s: %w", name, err)
	}
	line.Color = plotutil.Color(i)
	line.Width = vg.Points(2)
	points.Color = plotutil.Color(i)
	points.Shape = draw.CircleGlyph{}
	p.Add(line, points)
	p.Legend.Add(name, line)
	return nil
}

// RankingPNG draws a horizontal bar chart of one side of a ranking. The most
// expensive list is drawn highest first; the cheap list in its display order.
func RankingPNG(w io.Writer, r *types.Ranking, side Side) error {
	list := r.Expensive
	title := "Wilayah Termahal"
	if side == Cheap {
		list = r.CheapDisplay()
		title = "Wilayah Termurah"
	}
	if len(list) == 0 {
		return fmt.Errorf("ranking chart: %w", apperrors.ErrEmptySelection)
	}

	// plotted bottom-up, so reverse to keep the first entry on top
	values := make(plotter.Values, len(list))
	names := make([]string, len(list))
	for i, m := range list {
		values[len(list)-1-i] = m.Mean
		names[len(list)-1-i] = m.Location
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: %s", title, label(r.Commodity))
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Rata-rata harga (Rp)"

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return fmt.Errorf("ranking bars: %w", err)
	}
	bars.Horizontal = true
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = plotutil.Color(0)
	if side == Cheap {
		bars.Color = plotutil.Color(1)
	}
	p.Add(bars)
	p.NominalY(names...)
	return save(w, p)
}

func save(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func label(col string) string {
	return strings.ReplaceAll(col, "_", " ")
}
