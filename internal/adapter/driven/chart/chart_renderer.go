package chart

import (
	"bytes"
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/diillson/aws-cost-notifier-go/internal/domain/cost"
	"github.com/diillson/aws-cost-notifier-go/internal/domain/entity"
	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
)

// ChartRendererImpl desenha o gráfico de barras empilhadas em PNG, em memória.
type ChartRendererImpl struct {
	title  string
	width  vg.Length
	height vg.Length
}

// NewChartRenderer creates a renderer producing a 10x6 inch PNG.
func NewChartRenderer(title string) *ChartRendererImpl {
	return &ChartRendererImpl{title: title, width: 10 * vg.Inch, height: 6 * vg.Inch}
}

// RenderChart draws one bar per day of the range and one stacked segment per
// service, with the service names in the legend.
func (r *ChartRendererImpl) RenderChart(daily entity.DailyCosts, dateRange entity.DateRange) ([]byte, error) {
	days := dateRange.Days()
	services := cost.Services(daily)
	if len(days) == 0 || len(services) == 0 {
		return nil, fmt.Errorf("%w: no cost data between %s and %s", types.ErrRender,
			dateRange.Start.Format("2006-01-02"), dateRange.End.Format("2006-01-02"))
	}

	p := plot.New()
	p.Title.Text = r.title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Cost ($)"
	p.Legend.Top = true
	p.Legend.Left = true
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = cost.DayKey(d)
	}

	barWidth := (r.width - 2*vg.Inch) / vg.Length(len(days)+1)
	var below *plotter.BarChart
	for i, svc := range services {
		values := make(plotter.Values, len(days))
		for j, label := range labels {
			values[j] = daily[label][svc].InexactFloat64()
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, fmt.Errorf("%w: series %s: %v", types.ErrRender, svc, err)
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = vg.Length(0)
		if below != nil {
			bars.StackOn(below)
		}
		below = bars

		p.Add(bars)
		p.Legend.Add(svc, bars)
	}
	p.NominalX(labels...)

	writer, err := p.WriterTo(r.width, r.height, "png")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRender, err)
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: encoding png: %v", types.ErrRender, err)
	}
	return buf.Bytes(), nil
}
