package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/kostich/kraftver"
)

const (
	formatText = "text"
	formatJSON = "json"
)

const defaultWidth = 80

// Color palette, kept minimal.
var (
	colorPrimary   = lipgloss.Color("39")  // Blue
	colorSecondary = lipgloss.Color("245") // Gray
	colorSuccess   = lipgloss.Color("34")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
	colorError     = lipgloss.Color("196") // Red
)

// envelope is the per-map JSON document. The flat fields mirror the
// container header; absent values are null.
type envelope struct {
	Success    bool               `json:"success"`
	FileName   *string            `json:"file_name"`
	MapName    *string            `json:"map_name"`
	MapFlags   *string            `json:"map_flags"`
	MaxPlayers *uint32            `json:"max_players"`
	Metadata   *kraftver.Metadata `json:"metadata,omitempty"`
	Error      *envelopeError     `json:"error,omitempty"`
}

type envelopeError struct {
	Kind    string `json:"kind"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message"`
}

func newEnvelope(r result) envelope {
	name := filepath.Base(r.path)
	env := envelope{FileName: &name}

	if r.err != nil {
		env.Error = &envelopeError{Kind: "Error", Message: r.err.Error()}
		var de *kraftver.DecodeError
		if kind := kraftver.Kind(r.err); kind != 0 {
			env.Error.Kind = kind.String()
		}
		if errors.As(r.err, &de) {
			env.Error.Stage = de.Stage
		}
		return env
	}

	h := r.meta.Header
	env.Success = true
	env.FileName = &r.meta.FileName
	env.MapName = &h.Name
	env.MapFlags = &h.Flags
	env.MaxPlayers = &h.MaxPlayers
	env.Metadata = r.meta
	return env
}

// writeJSON writes one envelope, or an array of envelopes for several maps.
func writeJSON(w io.Writer, results []result) error {
	envs := make([]envelope, len(results))
	for i, r := range results {
		envs[i] = newEnvelope(r)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(envs) == 1 {
		return enc.Encode(envs[0])
	}
	return enc.Encode(envs)
}

// writeText renders a panel per map.
func writeText(w io.Writer, results []result) error {
	r := lipgloss.NewRenderer(w)
	width := terminalWidth(w)

	title := r.NewStyle().Bold(true).Foreground(colorPrimary)
	label := r.NewStyle().Foreground(colorSecondary).Width(14)
	box := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSecondary).
		Padding(0, 1)
	wrap := r.NewStyle().Width(max(width-20, 20))
	okStyle := r.NewStyle().Foreground(colorSuccess)
	warnStyle := r.NewStyle().Foreground(colorWarning)
	errStyle := r.NewStyle().Foreground(colorError).Bold(true)

	for _, res := range results {
		var b strings.Builder
		row := func(k, v string) {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label.Render(k), wrap.Render(v)))
			b.WriteString("\n")
		}

		if res.err != nil {
			b.WriteString(title.Render(filepath.Base(res.path)) + "  " + errStyle.Render("FAILED") + "\n\n")
			kind := "Error"
			if k := kraftver.Kind(res.err); k != 0 {
				kind = k.String()
			}
			row("Kind", kind)
			row("Message", res.err.Error())
		} else {
			m := res.meta
			b.WriteString(title.Render(m.FileName) + "  " + okStyle.Render("OK") + "\n\n")
			row("Name", m.Info.Name)
			row("Author", m.Info.Author)
			row("Players", fmt.Sprintf("%s (max %d)", m.Info.RecommendedPlayers, m.Header.MaxPlayers))
			row("Version", m.Info.Version)
			row("Size", fmt.Sprintf("%dx%d (playable %dx%d)",
				m.Info.Width, m.Info.Height, m.Info.PlayableWidth, m.Info.PlayableHeight))
			row("Tileset", m.Info.Tileset.Name)
			row("Header name", m.Header.Name)
			row("Header flags", m.Header.Flags)
			row("Info flags", m.Info.Flags)
			if m.Info.Description != "" {
				row("Description", m.Info.Description)
			}
			for _, warning := range m.Warnings {
				row("Warning", warnStyle.Render(warning.String()))
			}
		}

		if _, err := fmt.Fprintln(w, box.Render(strings.TrimRight(b.String(), "\n"))); err != nil {
			return err
		}
	}
	return nil
}

// terminalWidth reports the column count of w when it is a terminal.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return defaultWidth
	}
	return cols
}
