package media

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ReadPlaylist reads a local .m3u/.m3u8/.pls file and returns the local paths
// it names, resolved against the playlist's directory. Remote entries are
// skipped; only files on disk can be analysed.
func ReadPlaylist(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsPlaylistExt(ext) {
		return nil, fmt.Errorf("unsupported playlist format %s", ext)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	defer f.Close()

	entry := m3uEntry
	if ext == ".pls" {
		entry = plsEntry
	}

	dir := filepath.Dir(abs)
	var paths []string
	scanner := bufio.NewScanner(f)
	for first := true; scanner.Scan(); first = false {
		line := strings.TrimSpace(scanner.Text())
		if first {
			line = strings.TrimPrefix(line, "\uFEFF")
		}
		raw, ok := entry(line)
		if !ok || isRemote(raw) {
			continue
		}
		paths = append(paths, resolve(raw, dir))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	return paths, nil
}

// Expand turns command-line arguments into an ordered list of playable
// files. Arguments may be audio files, playlists or directories (their
// supported files in name order). skipped counts entries that were not
// playable.
func Expand(args []string) (tracks []string, skipped int, err error) {
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, 0, fmt.Errorf("opening %s: %w", arg, err)
		}

		var candidates []string
		switch {
		case info.IsDir():
			candidates, err = dirEntries(arg)
		case IsPlaylistExt(filepath.Ext(arg)):
			candidates, err = ReadPlaylist(arg)
		default:
			candidates = []string{arg}
		}
		if err != nil {
			return nil, 0, err
		}

		playable := FilterPlayable(candidates)
		skipped += len(candidates) - len(playable)
		tracks = append(tracks, playable...)
	}
	if len(tracks) == 0 {
		return nil, skipped, fmt.Errorf("no playable files (supported: %s)", SupportedExtsList())
	}
	return tracks, skipped, nil
}

// FilterPlayable keeps existing regular files with a supported extension,
// made absolute.
func FilterPlayable(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !IsSupportedExt(filepath.Ext(p)) {
			continue
		}
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		out = append(out, p)
	}
	return out
}

func dirEntries(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !IsSupportedExt(filepath.Ext(e.Name())) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	slices.Sort(paths)
	return paths, nil
}

func m3uEntry(line string) (string, bool) {
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	return strings.Trim(line, `"`), true
}

// plsEntry accepts FileN=path lines; N must be all digits.
func plsEntry(line string) (string, bool) {
	key, val, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	key = strings.TrimSpace(key)
	val = strings.TrimSpace(val)
	num, ok := strings.CutPrefix(strings.ToLower(key), "file")
	if !ok || num == "" || val == "" {
		return "", false
	}
	for _, c := range num {
		if c < '0' || c > '9' {
			return "", false
		}
	}
	return val, true
}

func isRemote(raw string) bool {
	return strings.Contains(raw, "://")
}

func resolve(raw, dir string) string {
	p := filepath.Clean(raw)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
