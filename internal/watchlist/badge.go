package watchlist

import (
	"fmt"
	"strings"

	"github.com/archanaprabhat/CineMania/internal/model"
)

// tooltipTitles is the number of titles listed in a badge tooltip.
const tooltipTitles = 5

// Badge is the watchlist count in Waybar's custom module JSON format.
type Badge struct {
	Text    string `json:"text"`
	Alt     string `json:"alt,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
	Class   string `json:"class,omitempty"`
	Count   int    `json:"count"`
}

// NewBadge summarizes records, which are expected newest first.
func NewBadge(records []model.WatchlistRecord) Badge {
	if len(records) == 0 {
		return Badge{
			Text:    "",
			Alt:     "empty",
			Tooltip: "Watchlist is empty",
			Class:   "empty",
		}
	}

	var movies, shows int
	for _, r := range records {
		if r.MediaKind == model.KindShow {
			shows++
		} else {
			movies++
		}
	}

	lines := []string{fmt.Sprintf("%d movies, %d shows", movies, shows)}
	for i, r := range records {
		if i == tooltipTitles {
			lines = append(lines, fmt.Sprintf("and %d more", len(records)-tooltipTitles))
			break
		}
		lines = append(lines, r.DisplayTitle)
	}

	return Badge{
		Text:    fmt.Sprintf("%d", len(records)),
		Alt:     "items",
		Tooltip: strings.Join(lines, "\n"),
		Class:   "items",
		Count:   len(records),
	}
}
