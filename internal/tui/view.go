package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/path2video/internal/playback"
	"github.com/ivlev/path2video/internal/timeline"
)

const minWidth = 40

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	if w < minWidth {
		w = minWidth
	}

	st := playback.Resolve(m.sched, m.flash, m.elapsed)
	effective := playback.EffectiveTime(m.flash, m.elapsed)

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	icon := IconPaused
	if m.playing {
		icon = IconPlaying
	}
	b.WriteString(TimeStyle.Render(fmt.Sprintf("%s %s / %s", icon, formatTime(m.elapsed), formatTime(m.session))))
	if st.Flashing {
		b.WriteString("  ")
		b.WriteString(FlashStyle.Render("FLASH"))
	}
	if m.looping {
		b.WriteString("  ")
		b.WriteString(StatusStyle.Render("loop"))
	}
	b.WriteString("\n")

	ratio := 0.0
	if m.session > 0 {
		ratio = m.elapsed / m.session
	}
	b.WriteString(m.prog.ViewAs(ratio))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("Distance: %.1f / %.1f   Revealed: %d/%d annotations, %d/%d areas",
		st.CurrentDistance, m.sched.TotalLength,
		len(st.RevealedAnnotations), countKind(m.proj.Items, timeline.KindAnnotation),
		len(st.RevealedAreas), countKind(m.proj.Items, timeline.KindArea)))
	b.WriteString("\n")

	if ev, ok := playback.ActiveEvent(m.sched, effective); ok && ev.ItemID != "" {
		if item, found := m.proj.Item(ev.ItemID); found {
			text := item.Comment
			if text == "" {
				text = item.Text
			}
			if text != "" {
				b.WriteString(CaptionStyle.Render("▸ " + text))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderItems(st, effective))
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	footer := FooterStyle.Render(m.keys.ShortHelp())
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		footer += "  " + StatusStyle.Render(m.statusMsg)
	}
	b.WriteString(footer)

	return b.String()
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("Path Player")
	name := filepath.Base(m.path)
	counts := HeaderCountStyle.Render(fmt.Sprintf("%d waypoints · %d items",
		len(m.proj.Waypoints), len(m.proj.Items)))
	return fmt.Sprintf("%s  %s  %s", title, name, counts)
}

// renderItems lists every item with its reveal marker
func (m Model) renderItems(st playback.State, effective float64) string {
	activeID := ""
	if ev, ok := playback.ActiveEvent(m.sched, effective); ok {
		activeID = ev.ItemID
	}

	maxRows := m.height - 12
	if maxRows < 3 {
		maxRows = 3
	}

	var b strings.Builder
	for i, item := range m.proj.Items {
		if i >= maxRows {
			b.WriteString(PendingStyle.Render(fmt.Sprintf("… and %d more", len(m.proj.Items)-i)))
			b.WriteString("\n")
			break
		}

		revealed := st.RevealedAnnotations[item.ID] || st.RevealedAreas[item.ID]

		marker := PendingStyle.Render(IconPending)
		style := PendingStyle
		switch {
		case item.ID == activeID:
			marker = ActiveStyle.Render(IconActive)
			style = ActiveStyle
		case revealed:
			marker = RevealedStyle.Render(IconRevealed)
			style = RevealedStyle
		}

		label := item.Text
		if label == "" {
			label = item.Comment
		}
		b.WriteString(fmt.Sprintf("%s %s", marker, style.Render(fmt.Sprintf("%-12s %-10s %s", item.ID, item.Kind, label))))
		b.WriteString("\n")
	}

	if len(m.proj.Items) == 0 {
		b.WriteString(PendingStyle.Render("no items"))
		b.WriteString("\n")
	}

	return b.String()
}

func countKind(items []timeline.Item, kind string) int {
	n := 0
	for _, item := range items {
		if item.Kind == kind {
			n++
		}
	}
	return n
}

func formatTime(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	min := int(sec) / 60
	rem := sec - float64(min*60)
	return fmt.Sprintf("%02d:%04.1f", min, rem)
}
