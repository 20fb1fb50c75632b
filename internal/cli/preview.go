package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/photogrid/photogrid/pkg/album"
	"github.com/photogrid/photogrid/pkg/grid"
	"github.com/photogrid/photogrid/pkg/pipeline"
)

// previewCommand creates the preview command for interactive layout exploration.
func (c *CLI) previewCommand() *cobra.Command {
	var opts packOpts

	cmd := &cobra.Command{
		Use:   "preview [dir|manifest.toml|album.json]",
		Short: "Explore a layout interactively in the terminal",
		Long: `Preview packs the collection and draws the rows as proportional bars.
Adjust the container width and column count live to see how the layout
responds.

Keys:
  j/k    select row
  ←/→    change container width
  +/-    change column count
  s      toggle smoothing
  h      toggle landscape-first ordering
  q      quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			popts, err := opts.pipelineOptions(args[0], nil)
			if err != nil {
				return err
			}
			popts.Logger = c.Logger
			a, err := runner.Scan(cmd.Context(), popts)
			if err != nil {
				return err
			}

			popts.SetPackDefaults()
			model := newPreviewModel(a, popts)
			_, err = tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	registerPackFlags(cmd, &opts)

	return cmd
}

// =============================================================================
// PreviewModel - Interactive Layout Preview
// =============================================================================

// widthStep is the container width change per keypress.
const widthStep = 100.0

var (
	previewRowStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	previewSelStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	previewMetaStyle = lipgloss.NewStyle().Foreground(colorDim)
	previewErrStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// previewModel is the bubbletea model for the preview command. It repacks
// the album on every parameter change; packing is fast enough that no
// debounce is needed.
type previewModel struct {
	album *album.Album
	opts  pipeline.Options

	doc      *grid.Result
	err      error
	screen   int // terminal width from the last WindowSizeMsg
	selected int // highlighted row index
}

// newPreviewModel creates a preview model and computes the initial layout.
func newPreviewModel(a *album.Album, opts pipeline.Options) previewModel {
	m := previewModel{album: a, opts: opts, screen: 80}
	m.repack()
	return m
}

// repack recomputes the layout from the current options.
func (m *previewModel) repack() {
	items, err := m.album.Items()
	if err != nil {
		m.err = err
		return
	}
	cfg := m.opts.GridConfig()
	if cfg.PreferHorizontal {
		items = grid.ByOrientation(items, true)
	}
	res, err := grid.Pack(items, m.opts.ContainerWidth, m.opts.Columns, cfg)
	if err != nil {
		m.err = err
		return
	}
	if !m.opts.NoSmooth {
		rowHeight := m.opts.RowHeight
		if rowHeight == 0 {
			rowHeight = grid.DefaultRowHeight
		}
		tolerance := m.opts.Tolerance
		if tolerance == 0 {
			tolerance = grid.DefaultRowHeightTolerance
		}
		grid.Smooth(res.Rows, rowHeight, tolerance)
		res.Restat()
	}
	m.doc = res
	m.err = nil
	if m.selected >= len(res.Rows) {
		m.selected = len(res.Rows) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.screen = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left":
			if m.opts.ContainerWidth > widthStep {
				m.opts.ContainerWidth -= widthStep
				m.repack()
			}
		case "right":
			m.opts.ContainerWidth += widthStep
			m.repack()
		case "+", "=":
			m.opts.Columns++
			m.repack()
		case "-":
			if m.opts.Columns > 1 {
				m.opts.Columns--
				m.repack()
			}
		case "j", "down":
			if m.doc != nil && m.selected < len(m.doc.Rows)-1 {
				m.selected++
			}
		case "k", "up":
			if m.selected > 0 {
				m.selected--
			}
		case "s":
			m.opts.NoSmooth = !m.opts.NoSmooth
			m.repack()
		case "h":
			m.opts.PreferHorizontal = !m.opts.PreferHorizontal
			m.repack()
		}
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	title := m.album.Title
	if title == "" {
		title = fmt.Sprintf("%d photos", len(m.album.Photos))
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(previewMetaStyle.Render(fmt.Sprintf(
		"width %.0f · %d columns · smooth %v · landscape-first %v",
		m.opts.ContainerWidth, m.opts.Columns, !m.opts.NoSmooth, m.opts.PreferHorizontal)))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(previewErrStyle.Render(m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	// Scale one grid pixel to the available terminal columns.
	avail := m.screen - 12
	if avail < 20 {
		avail = 20
	}
	scale := float64(avail) / m.opts.ContainerWidth

	for ri, row := range m.doc.Rows {
		var bar strings.Builder
		for _, it := range row.Items {
			cells := int(it.Width * scale)
			if cells < 1 {
				cells = 1
			}
			bar.WriteString(strings.Repeat("█", cells-1))
			bar.WriteString("▏")
		}
		style := previewRowStyle
		if ri == m.selected {
			style = previewSelStyle
		}
		b.WriteString(style.Render(bar.String()))
		b.WriteString(previewMetaStyle.Render(fmt.Sprintf(" %4.0fpx", row.Height)))
		b.WriteString("\n")
	}

	if len(m.doc.Rows) > 0 {
		sel := m.doc.Rows[m.selected]
		b.WriteString("\n")
		b.WriteString(previewMetaStyle.Render(fmt.Sprintf(
			"row %d/%d · %d items · height %.1fpx",
			m.selected+1, len(m.doc.Rows), len(sel.Items), sel.Height)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(previewMetaStyle.Render("j/k row · ←/→ width · +/- columns · s smooth · h landscape · q quit"))
	b.WriteString("\n")
	return b.String()
}
