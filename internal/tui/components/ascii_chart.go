package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/taxgo/internal/domain"
	"github.com/rgehrsitz/taxgo/internal/tui/tuistyles"
)

const yAxisWidth = 10

// DataSeries is one line in a chart
type DataSeries struct {
	Name   string
	Points []float64
	Color  lipgloss.Color
}

// ASCIIChart draws one or more series on a character grid
type ASCIIChart struct {
	Title      string
	Series     []*DataSeries
	Labels     []string // x-axis labels
	Width      int
	Height     int
	ShowLegend bool
	XAxisLabel string
}

// NewASCIIChart creates an empty chart
func NewASCIIChart(title string) *ASCIIChart {
	return &ASCIIChart{
		Title:      title,
		Width:      60,
		Height:     12,
		ShowLegend: true,
	}
}

// AddSeries adds a data series to the chart
func (c *ASCIIChart) AddSeries(name string, points []float64, color lipgloss.Color) *ASCIIChart {
	c.Series = append(c.Series, &DataSeries{Name: name, Points: points, Color: color})
	return c
}

// AddProjection adds a growth series, labelling the x axis by year when no
// labels are set yet.
func (c *ASCIIChart) AddProjection(name string, p domain.GrowthProjection, color lipgloss.Color) *ASCIIChart {
	points := make([]float64, len(p.Balances))
	for i, b := range p.Balances {
		points[i] = b.InexactFloat64()
	}
	if len(c.Labels) == 0 {
		c.Labels = make([]string, len(p.Periods))
		for i, period := range p.Periods {
			c.Labels[i] = "Y" + strconv.Itoa(period)
		}
	}
	return c.AddSeries(name, points, color)
}

// WithSize sets the chart dimensions
func (c *ASCIIChart) WithSize(width, height int) *ASCIIChart {
	c.Width = width
	c.Height = height
	return c
}

// WithXAxisLabel sets the caption under the x axis
func (c *ASCIIChart) WithXAxisLabel(label string) *ASCIIChart {
	c.XAxisLabel = label
	return c
}

// Render returns the styled chart
func (c *ASCIIChart) Render() string {
	if !c.hasPoints() {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		content.WriteString("\n\n")
	}

	lo, hi := c.bounds()
	content.WriteString(c.renderGrid(lo, hi))

	if c.XAxisLabel != "" {
		content.WriteString("\n")
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(c.XAxisLabel))
	}
	if c.ShowLegend && len(c.Series) > 1 {
		content.WriteString("\n")
		content.WriteString(c.renderLegend())
	}
	return content.String()
}

func (c *ASCIIChart) hasPoints() bool {
	for _, s := range c.Series {
		if len(s.Points) > 0 {
			return true
		}
	}
	return false
}

// bounds returns the padded value range across all series. A flat series
// gets an artificial range so it plots mid-height.
func (c *ASCIIChart) bounds() (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for _, p := range s.Points {
			lo = math.Min(lo, p)
			hi = math.Max(hi, p)
		}
	}
	if hi == lo {
		return lo - 1, hi + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

func (c *ASCIIChart) renderGrid(lo, hi float64) string {
	chartWidth := c.Width - yAxisWidth - 3
	if chartWidth < 2 {
		chartWidth = 2
	}
	height := c.Height
	if height < 2 {
		height = 2
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", chartWidth))
	}

	toX := func(i, n int) int {
		if n <= 1 {
			return 0
		}
		return int(float64(i) / float64(n-1) * float64(chartWidth-1))
	}
	toY := func(v float64) int {
		return height - 1 - int((v-lo)/(hi-lo)*float64(height-1))
	}

	for idx, s := range c.Series {
		ch := seriesChar(idx)
		for i, p := range s.Points {
			x, y := toX(i, len(s.Points)), toY(p)
			if i > 0 {
				drawLine(grid, toX(i-1, len(s.Points)), toY(s.Points[i-1]), x, y, ch)
			}
			if y >= 0 && y < height {
				grid[y][x] = ch
			}
		}
	}

	axisStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(yAxisWidth).Align(lipgloss.Right)
	var out strings.Builder
	for i, row := range grid {
		v := hi - float64(i)/float64(height-1)*(hi-lo)
		out.WriteString(axisStyle.Render(formatChartValue(v)))
		out.WriteString(" │ ")
		out.WriteString(string(row))
		out.WriteString("\n")
	}
	out.WriteString(strings.Repeat(" ", yAxisWidth))
	out.WriteString(" └")
	out.WriteString(strings.Repeat("─", chartWidth+1))
	if len(c.Labels) > 0 {
		out.WriteString("\n")
		out.WriteString(c.renderXAxisLabels(chartWidth))
	}
	return out.String()
}

// renderXAxisLabels prints the first, last and up to three evenly spaced
// labels in between, each at its column.
func (c *ASCIIChart) renderXAxisLabels(chartWidth int) string {
	n := len(c.Labels)
	line := []rune(strings.Repeat(" ", chartWidth+8))
	place := func(i int) {
		x := 0
		if n > 1 {
			x = int(float64(i) / float64(n-1) * float64(chartWidth-1))
		}
		for j, r := range c.Labels[i] {
			if x+j < len(line) {
				line[x+j] = r
			}
		}
	}

	step := (n - 1) / 4
	if step < 1 {
		step = 1
	}
	for i := 0; i < n-1; i += step {
		place(i)
	}
	place(n - 1)

	return strings.Repeat(" ", yAxisWidth+3) +
		lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(strings.TrimRight(string(line), " "))
}

func (c *ASCIIChart) renderLegend() string {
	items := make([]string, len(c.Series))
	for i, s := range c.Series {
		symbol := lipgloss.NewStyle().Foreground(s.Color).Render(string(seriesChar(i)))
		items[i] = fmt.Sprintf("%s %s", symbol, s.Name)
	}
	return lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("Legend: " + strings.Join(items, " • "))
}

func seriesChar(index int) rune {
	chars := []rune{'●', '■', '▲', '♦'}
	return chars[index%len(chars)]
}

// drawLine connects two points with Bresenham's algorithm without
// overwriting points already plotted.
func drawLine(grid [][]rune, x0, y0, x1, y1 int, ch rune) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for x, y := x0, y0; ; {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) && grid[y][x] == ' ' {
			grid[y][x] = ch
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

// formatChartValue abbreviates a y-axis dollar value
func formatChartValue(value float64) string {
	switch {
	case math.Abs(value) >= 1_000_000:
		return fmt.Sprintf("$%.1fM", value/1_000_000)
	case math.Abs(value) >= 1000:
		return fmt.Sprintf("$%.0fK", value/1000)
	default:
		return fmt.Sprintf("$%.0f", value)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
