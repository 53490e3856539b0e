package catalog

import "slices"

// ImageBaseURL is the TMDB image CDN.
const ImageBaseURL = "https://image.tmdb.org/t/p"

// Placeholders used when an entry has no image.
const (
	DefaultPoster  = "/placeholder-poster.png"
	DefaultProfile = "/placeholder-user.png"
)

// Image sizes accepted by the CDN.
var (
	PosterSizes   = []string{"w92", "w154", "w185", "w342", "w500", "w780", "original"}
	BackdropSizes = []string{"w300", "w780", "w1280", "original"}
	ProfileSizes  = []string{"w45", "w185", "h632", "original"}
)

// PosterURL returns the poster URL for path at size (default w500), or the
// placeholder when path is empty.
func PosterURL(path, size string) string {
	if path == "" {
		return DefaultPoster
	}
	return imageURL(path, pickSize(size, PosterSizes, "w500"))
}

// BackdropURL returns the backdrop URL for path at size (default original),
// or "" when path is empty.
func BackdropURL(path, size string) string {
	if path == "" {
		return ""
	}
	return imageURL(path, pickSize(size, BackdropSizes, "original"))
}

// ProfileURL returns the profile picture URL for path at size (default w185),
// or the placeholder when path is empty.
func ProfileURL(path, size string) string {
	if path == "" {
		return DefaultProfile
	}
	return imageURL(path, pickSize(size, ProfileSizes, "w185"))
}

func imageURL(path, size string) string {
	return ImageBaseURL + "/" + size + path
}

func pickSize(size string, allowed []string, def string) string {
	if slices.Contains(allowed, size) {
		return size
	}
	return def
}
