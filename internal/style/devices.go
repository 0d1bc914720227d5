package style

import (
	"cmp"
	"slices"
	"strings"

	"github.com/alkime/visualizer/internal/audio"
	"github.com/alkime/visualizer/pkg/collections"
)

// Names renders device names one per line in ascending order, the form
// accepted back by the source filter.
func Names(infos []audio.Info) string {
	names := audio.SortedNames(infos)
	if len(names) == 0 {
		return Warning.Render("no capture devices found") + "\n"
	}

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(Name.Render(name))
		sb.WriteByte('\n')
	}

	return sb.String()
}

// Devices renders a detailed listing: a header, then each named device with
// its default marker and supported formats.
func Devices(infos []audio.Info) string {
	named := collections.Filter(infos, func(i audio.Info) bool { return i.Name != "" })
	slices.SortFunc(named, func(a, b audio.Info) int { return cmp.Compare(a.Name, b.Name) })

	var sb strings.Builder
	sb.WriteString(Title.Render("Capture devices"))
	sb.WriteByte('\n')

	if len(named) == 0 {
		sb.WriteString(Warning.Render("  none found"))
		sb.WriteByte('\n')

		return sb.String()
	}

	for _, info := range named {
		sb.WriteString(Bullet.Render("  •") + " " + Name.Render(info.Name))
		if info.IsDefault {
			sb.WriteString(" " + Default.Render("(default)"))
		}
		sb.WriteByte('\n')

		for _, format := range info.Formats {
			sb.WriteString("      " + Muted.Render(format))
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}
