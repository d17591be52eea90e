package main

import (
	"github.com/olivier-w/flashlight/internal/player"
	"github.com/olivier-w/flashlight/internal/ui"
)

// openTrack returns the UI's track opener. Every player feeds the same
// observer, which is reset between tracks so frames never straddle two files.
func openTrack(observer player.PCMObserver) ui.OpenFunc {
	return func(path string, volume float64) (ui.Playback, player.Metadata, error) {
		if observer != nil {
			observer.Reset()
		}
		p, err := player.New(path, observer, volume)
		if err != nil {
			return nil, player.Metadata{}, err
		}
		return p, player.ReadMetadata(path), nil
	}
}
