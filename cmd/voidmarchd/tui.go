package main

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/voidmarch/simcore/status"
)

// spectatorTUI is a read-only telemetry view: one line per registered metric,
// redrawn from a fresh status.Registry.Snapshot() every render tick. It
// never touches simulation state — only ever reads the published snapshot
// to draw, never mutates game state from the render path.
type spectatorTUI struct {
	screen tcell.Screen
}

func newSpectatorTUI() (*spectatorTUI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("voidmarchd: create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("voidmarchd: init screen: %w", err)
	}
	return &spectatorTUI{screen: screen}, nil
}

func (t *spectatorTUI) Close() { t.screen.Fini() }

var (
	headerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	rowStyle    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	alertStyle  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

func (t *spectatorTUI) Render(snap status.Snapshot) {
	t.screen.Clear()
	t.drawLine(0, "voidmarchd — match telemetry", headerStyle)

	row := 2
	for _, k := range sortedKeys(snap.Strings) {
		t.drawLine(row, fmt.Sprintf("%-20s %s", k, snap.Strings[k]), rowStyle)
		row++
	}
	for _, k := range sortedKeys(snap.Ints) {
		t.drawLine(row, fmt.Sprintf("%-20s %d", k, snap.Ints[k]), rowStyle)
		row++
	}
	for _, k := range sortedBoolKeys(snap.Bools) {
		style := rowStyle
		if snap.Bools[k] && k == "desynced" {
			style = alertStyle
		}
		t.drawLine(row, fmt.Sprintf("%-20s %t", k, snap.Bools[k]), style)
		row++
	}

	t.screen.Show()
}

func (t *spectatorTUI) drawLine(y int, text string, style tcell.Style) {
	for x, r := range text {
		t.screen.SetContent(x, y, r, nil, style)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedBoolKeys(m map[string]bool) []string { return sortedKeys(m) }

// PollQuit drains one input event and reports whether the operator asked to
// quit (q, Ctrl-C, Esc) — a non-blocking check so the render loop never
// stalls the tick loop waiting on a keypress.
func (t *spectatorTUI) PollQuit() bool {
	if t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyCtrlC, tcell.KeyEsc:
				return true
			case tcell.KeyRune:
				if ev.Rune() == 'q' {
					return true
				}
			}
		}
	}
	return false
}
