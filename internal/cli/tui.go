package cli

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/hotspotmap/pkg/colormap"
	"github.com/matzehuels/hotspotmap/pkg/floorplan"
	"github.com/matzehuels/hotspotmap/pkg/thermal"
)

// List styles
var (
	listDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// Sort keys for the unit table, in the order "s" cycles through them.
const (
	sortByName = "name"
	sortByArea = "area"
	sortByTemp = "temp"
)

var sortKeys = []string{sortByName, sortByArea, sortByTemp}

// =============================================================================
// Unit rows
// =============================================================================

// unitRow is one line of the unit table.
type unitRow struct {
	Name     string
	WidthMM  float64
	HeightMM float64
	AreaMM2  float64
	Temp     float64
	HasTemp  bool
}

// unitRows builds table rows from a floor-plan, or from matched
// temperatures when units is non-nil.
func unitRows(fp *floorplan.FloorPlan, units []thermal.UnitTemp) []unitRow {
	if units != nil {
		rows := make([]unitRow, len(units))
		for i, u := range units {
			rows[i] = newUnitRow(u.Unit)
			rows[i].Temp, rows[i].HasTemp = u.Temp, true
		}
		return rows
	}
	rows := make([]unitRow, fp.Len())
	for i, u := range fp.Units {
		rows[i] = newUnitRow(u)
	}
	return rows
}

func newUnitRow(u floorplan.Unit) unitRow {
	return unitRow{
		Name:     u.Name,
		WidthMM:  u.Width * 1e3,
		HeightMM: u.Height * 1e3,
		AreaMM2:  u.AreaMM2(),
	}
}

// sortUnitRows sorts rows in place by key. Ties keep floor-plan order.
func sortUnitRows(rows []unitRow, key string, desc bool) {
	slices.SortStableFunc(rows, func(a, b unitRow) int {
		var c int
		switch key {
		case sortByArea:
			c = cmp.Compare(a.AreaMM2, b.AreaMM2)
		case sortByTemp:
			c = cmp.Compare(a.Temp, b.Temp)
		default:
			c = strings.Compare(a.Name, b.Name)
		}
		if desc {
			return -c
		}
		return c
	})
}

func (r unitRow) cells() []string {
	temp := "—"
	if r.HasTemp {
		temp = colormap.Label(r.Temp)
	}
	return []string{
		r.Name,
		fmt.Sprintf("%.3f × %.3f", r.WidthMM, r.HeightMM),
		fmt.Sprintf("%.3f", r.AreaMM2),
		temp,
	}
}

// unitTable renders rows as a bordered table. Temperatures are tinted with
// scale when it is non-nil.
func unitTable(rows []unitRow, scale *colormap.Scale, highlight int) *table.Table {
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.cells()
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Unit", "Size (mm)", "Area (mm²)", "Temp").
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == highlight {
				base = base.Bold(true).Foreground(colorCyan)
			}
			if col == 3 && scale != nil && row >= 0 && row < len(rows) && rows[row].HasTemp {
				return base.Foreground(lipgloss.Color(colormap.Hex(scale.At(rows[row].Temp))))
			}
			return base
		})
}

// =============================================================================
// UnitTableModel - Interactive unit browser
// =============================================================================

// UnitTableModel is the bubbletea model for browsing floor-plan units.
type UnitTableModel struct {
	Title  string
	Rows   []unitRow
	Scale  *colormap.Scale
	Sort   string
	Desc   bool
	Cursor int
	Height int
	Offset int
}

// NewUnitTableModel creates a unit browser sorted by key.
func NewUnitTableModel(title string, rows []unitRow, scale *colormap.Scale, key string, desc bool) UnitTableModel {
	m := UnitTableModel{
		Title:  title,
		Rows:   rows,
		Scale:  scale,
		Sort:   key,
		Desc:   desc,
		Height: 15,
	}
	sortUnitRows(m.Rows, m.Sort, m.Desc)
	return m
}

func (m UnitTableModel) Init() tea.Cmd {
	return nil
}

func (m UnitTableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "s":
			m.Sort = nextSortKey(m.Sort, m.Scale != nil)
			sortUnitRows(m.Rows, m.Sort, m.Desc)
			m.Cursor, m.Offset = 0, 0
		case "r":
			m.Desc = !m.Desc
			sortUnitRows(m.Rows, m.Sort, m.Desc)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m UnitTableModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  s sort  r reverse  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	b.WriteString(unitTable(m.Rows[m.Offset:end], m.Scale, m.Cursor-m.Offset).Render())
	b.WriteString("\n\n")

	order := "asc"
	if m.Desc {
		order = "desc"
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  sorted by %s (%s)", m.Cursor+1, len(m.Rows), m.Sort, order)))

	return b.String()
}

// nextSortKey returns the key after cur. Temperature sorting is skipped
// when there are no temperatures.
func nextSortKey(cur string, hasTemps bool) string {
	i := slices.Index(sortKeys, cur)
	for {
		i = (i + 1) % len(sortKeys)
		if sortKeys[i] != sortByTemp || hasTemps {
			return sortKeys[i]
		}
	}
}
