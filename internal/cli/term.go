package cli

import (
	"github.com/fatih/color"

	"github.com/noah-isme/timetable-view/internal/timetable"
)

var (
	colorHeader = color.New(color.Bold)
	colorBusy   = color.New(color.FgRed)
	colorFree   = color.New(color.FgGreen)
	colorMuted  = color.New(color.FgWhite, color.Faint)
	colorWarn   = color.New(color.FgYellow)
)

var toneColors = map[timetable.Tone]*color.Color{
	timetable.ToneSuccess: color.New(color.FgGreen),
	timetable.ToneDanger:  color.New(color.FgRed),
	timetable.ToneWarning: color.New(color.FgYellow),
	timetable.ToneNeutral: colorMuted,
}

// DisableColor disables color output globally.
func DisableColor() {
	color.NoColor = true
}

func toneColor(t timetable.Tone) *color.Color {
	if c, ok := toneColors[t]; ok {
		return c
	}
	return colorMuted
}
