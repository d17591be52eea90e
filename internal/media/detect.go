package media

import (
	"slices"
	"strings"
)

// audioExts are the formats the player decodes, in the order they are listed
// to the user.
var audioExts = []string{".mp3", ".wav", ".flac", ".ogg"}

var playlistExts = []string{".m3u", ".m3u8", ".pls"}

// IsSupportedExt reports whether ext names a format the player decodes.
func IsSupportedExt(ext string) bool {
	return slices.Contains(audioExts, strings.ToLower(ext))
}

// IsPlaylistExt reports whether ext names a playlist format.
func IsPlaylistExt(ext string) bool {
	return slices.Contains(playlistExts, strings.ToLower(ext))
}

// SupportedExtsList returns the playable formats for help and error text.
func SupportedExtsList() string {
	return strings.Join(audioExts, ", ")
}
