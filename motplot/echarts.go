package motplot

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	motion "github.com/mocaplab/gomotion"
)

// CompareHTML renders the per-group magnitude curves of a comparison as an
// interactive HTML line chart. One series per group; the X axis is the
// sample index of each group's own trajectory.
func CompareHTML(cmp *motion.Comparison, title, filename string) error {
	if cmp == nil || len(cmp.Order) == 0 {
		return fmt.Errorf("motplot: nothing to render")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1100px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "component: " + cmp.Component}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "sample"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "magnitude"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	maxN := 0
	for _, name := range cmp.Order {
		if r, _ := cmp.Arrays[name].Dims(); r > maxN {
			maxN = r
		}
	}
	x := make([]string, maxN)
	for i := range x {
		x[i] = fmt.Sprintf("%d", i)
	}
	line.SetXAxis(x)

	for _, name := range cmp.Order {
		norms := motion.Norms(cmp.Arrays[name])
		data := make([]opts.LineData, len(norms))
		for i, v := range norms {
			data[i] = opts.LineData{Value: v}
		}
		label := fmt.Sprintf("%s (%g Hz)", name, cmp.Rates[name])
		line.AddSeries(label, data, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}))
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}
