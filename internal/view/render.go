package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/teknohive/fessctl/internal/board"
	"github.com/teknohive/fessctl/internal/ui"
)

// unknownTime is what a missing or unparseable timestamp renders as. A raw
// invalid value must never reach the user.
const unknownTime = "Unknown time"

// FormatTime renders a normalized timestamp as a relative time
// ("3 minutes ago"). nil renders the neutral placeholder.
func FormatTime(ts *string) string {
	if ts == nil {
		return unknownTime
	}
	t, err := time.Parse(board.TimeLayout, *ts)
	if err != nil {
		return unknownTime
	}
	return humanize.Time(t)
}

// FormatExactTime renders a normalized timestamp as an absolute time.
func FormatExactTime(ts *string) string {
	if ts == nil {
		return unknownTime
	}
	t, err := time.Parse(board.TimeLayout, *ts)
	if err != nil {
		return unknownTime
	}
	return t.Local().Format("Jan 2, 2006 3:04 PM")
}

// sender and recipient placeholders, matching what the board shows for
// anonymous entries.
func orAnonymous(s string) string {
	if s == "" {
		return "Anonymous"
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// RenderItem renders one entry for terminal output.
func RenderItem(kind board.Kind, it board.Item) string {
	var b strings.Builder

	switch kind {
	case board.KindSongfess:
		title := it.Str("song_title")
		if title == "" {
			title = "Unknown Song"
		}
		artist := it.Str("artist")
		if artist == "" {
			artist = "Unknown Artist"
		}
		fmt.Fprintf(&b, "%s %s %s\n", ui.RenderAccent("♪"), ui.RenderTitle(title), ui.RenderDim("— "+artist))
	default:
		category := it.Str("category")
		if category != "" {
			fmt.Fprintf(&b, "%s\n", ui.RenderAccent("["+category+"]"))
		}
	}

	if content := it.Str("content"); content != "" {
		fmt.Fprintf(&b, "  %s\n", content)
	}
	fmt.Fprintf(&b, "  %s\n", ui.RenderDim(fmt.Sprintf(
		"From: %s • To: %s • %s",
		orAnonymous(it.Str("sender_name")),
		orUnknown(it.Str("recipient_name")),
		FormatTime(it.CreatedAt),
	)))
	fmt.Fprintf(&b, "  %s\n", ui.RenderDim("id: "+it.ID))

	return b.String()
}

// RenderList renders the whole visible sequence with a count header.
func RenderList(kind board.Kind, items []board.Item) string {
	var b strings.Builder

	label := "messages"
	if kind == board.KindSongfess {
		label = "songfess entries"
	}
	fmt.Fprintf(&b, "%s\n\n", ui.RenderTitle(fmt.Sprintf("%d %s", len(items), label)))

	if len(items) == 0 {
		fmt.Fprintf(&b, "%s\n", ui.RenderDim("Nothing here yet."))
		return b.String()
	}
	for _, it := range items {
		b.WriteString(RenderItem(kind, it))
		b.WriteString("\n")
	}
	return b.String()
}
