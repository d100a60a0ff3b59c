package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/necklace/pkg/groups"
	"github.com/matzehuels/necklace/pkg/sequence"
	"github.com/matzehuels/necklace/pkg/trial"
)

// Browser styles
var (
	browseDimStyle  = lipgloss.NewStyle().Foreground(colorDim)
	browseSeedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
)

// =============================================================================
// browserModel - Interactive sample browser
// =============================================================================

// browserModel is the bubbletea model for stepping through samples seed by
// seed. Each seed is built once and kept so that stepping back is stable.
type browserModel struct {
	gs     *groups.GroupSet
	anchor string
	seed   uint64
	sample *trial.Sample
	cycles int // cycles among the seeds seen so far
	seen   map[uint64]bool
	chosen bool
	err    error
}

func newBrowserModel(gs *groups.GroupSet, opts trial.SampleOptions) (browserModel, error) {
	if opts.Seed == 0 {
		opts.Seed = trial.DefaultSeed
	}
	m := browserModel{gs: gs, anchor: opts.Anchor, seed: opts.Seed, seen: make(map[uint64]bool)}
	if err := m.build(); err != nil {
		return browserModel{}, err
	}
	return m, nil
}

func (m *browserModel) build() error {
	seq, err := sequence.Build(m.gs, sequence.NewRand(m.seed))
	if err != nil {
		return err
	}
	s, err := trial.NewSample(seq, m.anchor, m.seed)
	if err != nil {
		return err
	}
	m.sample = s
	if !m.seen[m.seed] {
		m.seen[m.seed] = true
		if s.Cycle {
			m.cycles++
		}
	}
	return nil
}

func (m browserModel) Init() tea.Cmd {
	return nil
}

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		m.chosen = true
		return m, tea.Quit
	case "right", "l", "n", " ":
		m.seed++
	case "left", "h", "p":
		if m.seed > 1 {
			m.seed--
		}
	default:
		return m, nil
	}
	if err := m.build(); err != nil {
		m.err = err
		return m, tea.Quit
	}
	return m, nil
}

func (m browserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Sample Browser"))
	b.WriteString("  ")
	b.WriteString(browseSeedStyle.Render(fmt.Sprintf("seed %d", m.seed)))
	b.WriteString("\n")
	b.WriteString(browseDimStyle.Render("←/→ seed  ⏎ keep  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleError.Render(m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	s := m.sample
	for i, l := range s.Labels {
		if i > 0 {
			b.WriteString(" ")
		}
		style := StyleValue
		if i > 0 && s.Groups[i] == s.Groups[i-1] {
			style = StyleError
		}
		b.WriteString(style.Render(l))
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "valid %s   cycle %s\n", yesNo(s.Valid), yesNo(s.Cycle))
	b.WriteString(browseDimStyle.Render("key " + s.Key))
	b.WriteString("\n\n")
	b.WriteString(browseDimStyle.Render(fmt.Sprintf("  %d of %d seeds seen close into a ring", m.cycles, len(m.seen))))

	return b.String()
}
