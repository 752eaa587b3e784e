package viz

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/uvsim/internal/dataset"
)

type panel struct {
	title string
	image []float64
}

// Viewer is a Bubble Tea model that pages through the dirty images, the uv
// coverage and the amplitude plot of a dataset.
type Viewer struct {
	name          string
	data          *dataset.Interferometer
	panels        []panel
	current       int
	width, height int
}

// NewViewer computes the dirty images up front so paging is instant.
func NewViewer(name string, d *dataset.Interferometer) (*Viewer, error) {
	dirty, err := d.DirtyImage()
	if err != nil {
		return nil, err
	}
	noise, err := d.DirtyNoiseMap()
	if err != nil {
		return nil, err
	}
	snr, err := d.DirtySignalToNoiseMap()
	if err != nil {
		return nil, err
	}
	return &Viewer{
		name: name,
		data: d,
		panels: []panel{
			{title: "Dirty Image", image: dirty},
			{title: "Dirty Noise Map", image: noise},
			{title: "Dirty Signal-To-Noise Map", image: snr},
			{title: "UV Coverage"},
			{title: "Amplitudes vs UV Distances"},
		},
		width:  80,
		height: 24,
	}, nil
}

func (v *Viewer) Current() string { return v.panels[v.current].title }

func (v *Viewer) Init() tea.Cmd { return nil }

func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return v, tea.Quit
		case "tab", "right", "l":
			v.current = (v.current + 1) % len(v.panels)
		case "shift+tab", "left", "h":
			v.current = (v.current + len(v.panels) - 1) % len(v.panels)
		}
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
	}
	return v, nil
}

func (v *Viewer) View() string {
	p := v.panels[v.current]
	bodyW := max(v.width-8, 10)
	bodyH := max(v.height-8, 4)

	var body string
	switch {
	case p.image != nil:
		body = HeatMap(p.image, v.data.Grid().ShapeNative(), bodyW, bodyH)
	case p.title == "UV Coverage":
		body = UVCoverage(v.data.UVWavelengths, bodyW, bodyH)
	default:
		body = AmplitudeGraph(v.data, max(bodyW-12, 10), max(bodyH-2, 2))
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(v.name+"  ·  "+p.title) + "\n")
	b.WriteString(body + "\n")
	b.WriteString(KeyHint.Render("tab/→ next  shift+tab/← prev  q quit"))
	return b.String()
}
