package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/depbank/pkg/bank"
	"github.com/matzehuels/depbank/pkg/registry"
)

// spinnerFrames animate pending rows in the generation progress view.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// genRow is one dependency's line in the progress view.
type genRow struct {
	name   string
	result *bank.Result // nil while still pending
}

// genModel is the bubbletea model for the live generation progress view.
// It receives one genResultMsg per dependency and quits when all rows
// have completed.
type genModel struct {
	rows  []genRow
	index map[string]int
	done  int
	frame int
}

// genResultMsg carries one completed dependency result into the model.
type genResultMsg bank.Result

// genTickMsg advances the spinner animation.
type genTickMsg time.Time

func newGenModel(resolved []registry.Resolved) genModel {
	m := genModel{index: make(map[string]int, len(resolved))}
	for i, r := range resolved {
		m.rows = append(m.rows, genRow{name: r.Name})
		m.index[r.Name] = i
	}
	return m
}

func genTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return genTickMsg(t)
	})
}

func (m genModel) Init() tea.Cmd {
	return genTick()
}

func (m genModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case genResultMsg:
		// Quitting is the generation goroutine's job: the final result
		// message may arrive before GenerateAll has returned.
		r := bank.Result(msg)
		if i, ok := m.index[r.Name]; ok && m.rows[i].result == nil {
			m.rows[i].result = &r
			m.done++
		}
	case genTickMsg:
		m.frame++
		return m, genTick()
	}
	return m, nil
}

func (m genModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Generating code banks"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d", m.done, len(m.rows))))
	b.WriteString("\n\n")

	for _, row := range m.rows {
		b.WriteString("  ")
		b.WriteString(renderRow(row, m.frame))
		b.WriteString("\n")
	}

	return b.String()
}

func renderRow(row genRow, frame int) string {
	if row.result == nil {
		return styleIconSpinner.Render(spinnerFrames[frame%len(spinnerFrames)]) +
			" " + StyleValue.Render(row.name)
	}

	r := row.result
	switch r.Status {
	case bank.StatusGenerated:
		note := fmt.Sprintf("%d bytes", r.Bytes)
		if r.Cached {
			note = "cached"
		}
		return styleIconSuccess.Render(iconSuccess) + " " +
			StyleValue.Render(r.Name) + " " + StyleDim.Render(note)
	case bank.StatusFailed:
		return styleIconError.Render(iconError) + " " +
			StyleValue.Render(r.Name) + " " + StyleDim.Render("failed")
	case bank.StatusUnavailable:
		return styleIconError.Render(iconError) + " " +
			StyleValue.Render(r.Name) + " " + StyleDim.Render("no local source")
	default:
		return styleIconWarning.Render(iconWarning) + " " +
			StyleValue.Render(r.Name) + " " + StyleDim.Render("not in lockfile")
	}
}

// generateWithProgress runs bank generation behind the live progress
// view. Results stream into the model as dependencies complete; the
// returned slice keeps collection order regardless.
//
// The generation goroutine owns results and genErr until it closes done;
// the caller reads them only after that, so a quit (ctrl+c included)
// never races the final assignment.
func generateWithProgress(ctx context.Context, resolved []registry.Resolved, outDir string, opts bank.Options, teaOpts ...tea.ProgramOption) ([]bank.Result, error) {
	program := tea.NewProgram(newGenModel(resolved),
		append([]tea.ProgramOption{tea.WithContext(ctx)}, teaOpts...)...)
	opts.OnResult = func(r bank.Result) {
		program.Send(genResultMsg(r))
	}

	var results []bank.Result
	var genErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		results, genErr = bank.GenerateAll(ctx, resolved, outDir, opts)
		program.Send(tea.Quit())
	}()

	_, runErr := program.Run()
	<-done

	if genErr != nil {
		return results, genErr
	}
	return results, runErr
}
