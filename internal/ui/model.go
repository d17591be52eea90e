package ui

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/flashlight/internal/monitor"
	"github.com/olivier-w/flashlight/internal/player"
	"github.com/olivier-w/flashlight/internal/queue"
	"github.com/olivier-w/flashlight/internal/torch"
	"github.com/olivier-w/flashlight/internal/util"
	"github.com/olivier-w/flashlight/internal/visualizer"
)

const (
	seekStep      = 5 * time.Second
	volumeStep    = 0.05
	thresholdStep = 5
	statusTTL     = 5 * time.Second
)

// Playback is the part of *player.Player the UI drives.
type Playback interface {
	TogglePause()
	Paused() bool
	Position() time.Duration
	Duration() time.Duration
	Seek(delta time.Duration) error
	Volume() float64
	AdjustVolume(delta float64)
	Done() <-chan struct{}
	Close()
}

// Snapshotter supplies analysis state each frame.
type Snapshotter interface {
	Snapshot() monitor.Snapshot
	Torch() *torch.Settings
}

// OpenFunc starts playback of path at the given volume.
type OpenFunc func(path string, volume float64) (Playback, player.Metadata, error)

// Options configures the Model.
type Options struct {
	Queue   *queue.Queue
	Open    OpenFunc
	Monitor Snapshotter
	FPS     int
	Volume  float64
	Repeat  bool
	Logger  *slog.Logger
}

// Model is the Bubbletea model for the flashlight TUI.
type Model struct {
	queue   *queue.Queue
	open    OpenFunc
	monitor Snapshotter
	logger  *slog.Logger
	fps     int

	player   Playback
	metadata player.Metadata
	elapsed  time.Duration
	duration time.Duration
	volume   float64
	paused   bool
	repeat   bool

	width    int
	height   int
	quitting bool

	snap        monitor.Snapshot
	visualizers []visualizer.Visualizer
	vis         int
	torchBar    progress.Model
	keys        keyMap
	help        help.Model

	status     string
	statusTime time.Time
}

// New opens the queue's first playable track. It fails only when no track
// in the queue can be opened.
func New(opts Options) (Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		queue:       opts.Queue,
		open:        opts.Open,
		monitor:     opts.Monitor,
		logger:      logger,
		fps:         fps,
		volume:      opts.Volume,
		repeat:      opts.Repeat,
		visualizers: visualizer.Modes(fps),
		torchBar:    progress.New(progress.WithSolidFill("#FFFFFF"), progress.WithoutPercentage()),
		keys:        defaultKeyMap(),
		help:        help.New(),
	}
	if !m.openCurrent() {
		return Model{}, fmt.Errorf("no playable tracks (%s)", m.status)
	}
	m.snap = m.monitor.Snapshot()
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(m.fps), checkDone(m.player), m.titleCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		m.refresh()
		if m.status != "" && time.Since(m.statusTime) > statusTTL {
			m.status = ""
		}
		return m, frameCmd(m.fps)

	case playbackEndedMsg:
		if msg.player != m.player {
			return m, nil
		}
		if !m.queue.Advance(m.repeat) {
			m.elapsed = m.duration
			return m.quit()
		}
		return m.switchTrack()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()
	case key.Matches(msg, k.Pause):
		m.player.TogglePause()
		m.paused = m.player.Paused()
		return m, m.titleCmd()
	case key.Matches(msg, k.SeekBack):
		m.seek(-seekStep)
	case key.Matches(msg, k.SeekForward):
		m.seek(seekStep)
	case key.Matches(msg, k.VolumeUp):
		m.player.AdjustVolume(volumeStep)
		m.volume = m.player.Volume()
	case key.Matches(msg, k.VolumeDown):
		m.player.AdjustVolume(-volumeStep)
		m.volume = m.player.Volume()
	case key.Matches(msg, k.ThresholdUp):
		m.monitor.Torch().AdjustThreshold(thresholdStep)
	case key.Matches(msg, k.ThresholdDown):
		m.monitor.Torch().AdjustThreshold(-thresholdStep)
	case key.Matches(msg, k.Strict):
		m.monitor.Torch().ToggleStrict()
	case key.Matches(msg, k.Visualizer):
		m.vis = (m.vis + 1) % len(m.visualizers)
	case key.Matches(msg, k.Next):
		if m.queue.Advance(m.repeat) {
			return m.switchTrack()
		}
		m.setStatus("end of queue")
	case key.Matches(msg, k.Previous):
		if m.queue.Previous() {
			return m.switchTrack()
		}
		m.seek(-m.elapsed)
	case key.Matches(msg, k.Shuffle):
		m.queue.ToggleShuffle()
	case key.Matches(msg, k.Repeat):
		m.repeat = !m.repeat
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) seek(delta time.Duration) {
	if err := m.player.Seek(delta); err != nil {
		m.logger.Warn("seek failed", "error", err)
		m.setStatus(fmt.Sprintf("seek failed: %v", err))
		return
	}
	m.elapsed = m.player.Position()
}

func (m *Model) refresh() {
	m.elapsed = m.player.Position()
	m.volume = m.player.Volume()
	m.paused = m.player.Paused()
	m.snap = m.monitor.Snapshot()
	m.torchBar.FullColor = m.snap.Color.Hex()

	w, h := m.visualizerSize()
	m.visualizers[m.vis].Update(m.snap, w, h)
}

// switchTrack replaces the player with the queue's current track.
func (m Model) switchTrack() (Model, tea.Cmd) {
	m.player.Close()
	if !m.openCurrent() {
		return m.quit()
	}
	return m, tea.Batch(checkDone(m.player), m.titleCmd())
}

// openCurrent opens the current track, moving past tracks that fail to open.
func (m *Model) openCurrent() bool {
	for range m.queue.Len() {
		path := m.queue.Current()
		p, meta, err := m.open(path, m.volume)
		if err == nil {
			m.player = p
			m.metadata = meta
			m.elapsed = 0
			m.duration = p.Duration()
			m.volume = p.Volume()
			m.paused = false
			return true
		}
		m.logger.Warn("skipping track", "path", path, "error", err)
		m.setStatus(fmt.Sprintf("skipped %s: %v", filepath.Base(path), err))
		if !m.queue.Advance(m.repeat) {
			break
		}
	}
	return false
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusTime = time.Now()
}

func (m Model) quit() (Model, tea.Cmd) {
	m.quitting = true
	if m.player != nil {
		m.player.Close()
	}
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

func (m Model) titleCmd() tea.Cmd {
	return tea.SetWindowTitle(windowTitle(m.metadata.Title, m.paused))
}

func (m Model) contentWidth() int {
	if m.width < 30 {
		return 60
	}
	return m.width - 4
}

func (m Model) visualizerSize() (int, int) {
	h := m.height - 16
	if m.height == 0 {
		h = 12
	}
	return m.contentWidth(), max(h, 4)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	w := m.contentWidth()

	var b strings.Builder
	line := func(s string) {
		b.WriteString("  " + s + "\n")
	}

	b.WriteString("\n")
	line(headerStyle.Render("flashlight") + timeStyle.Render(fmt.Sprintf("  %d/%d", m.queue.Position()+1, m.queue.Len())))
	b.WriteString("\n")
	line(titleStyle.Render(m.metadata.Title))
	if sub := m.subtitle(); sub != "" {
		line(artistStyle.Render(sub))
	}
	b.WriteString("\n")

	elapsed, total := util.FormatDuration(m.elapsed), util.FormatDuration(m.duration)
	bar := renderProgressBar(m.elapsed.Seconds(), m.duration.Seconds(), w-len(elapsed)-len(total)-2)
	line(fmt.Sprintf("%s %s %s", timeStyle.Render(elapsed), bar, timeStyle.Render(total)))
	line(m.statusLine(w))
	b.WriteString("\n")

	current := m.visualizers[m.vis]
	line(headerStyle.Render(current.Name()))
	for _, row := range strings.Split(current.View(), "\n") {
		line(row)
	}
	b.WriteString("\n")

	m.torchBar.Width = max(w-40, 10)
	line(labelStyle.Render("torch") + m.torchBar.ViewAs(float64(m.snap.Torch.Intensity)) + " " +
		statusStyle.Render(renderTorchCaption(m.snap)))
	line(labelStyle.Render("level") + statusStyle.Render(util.FormatDecibels(m.snap.Volume, torch.MinVolume)))
	line(renderHueLine(m.snap))

	if m.status != "" {
		line(errorStyle.Render(m.status))
	}
	b.WriteString("\n")
	line(m.help.View(m.keys))
	return b.String()
}

func (m Model) subtitle() string {
	switch {
	case m.metadata.Artist != "" && m.metadata.Album != "":
		return m.metadata.Artist + " - " + m.metadata.Album
	case m.metadata.Artist != "":
		return m.metadata.Artist
	}
	return m.metadata.Album
}

func (m Model) statusLine(w int) string {
	left := "▶  playing"
	if m.paused {
		left = "❚❚ paused"
	}
	if m.queue.Shuffled() {
		left += "  shuffle"
	}
	if m.repeat {
		left += "  repeat"
	}
	vol := renderVolumePercent(m.volume)
	gap := max(w-len([]rune(left))-len(vol), 2)
	return statusStyle.Render(left) + spaces(gap) + statusStyle.Render(vol)
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " · flashlight"
	}
	return "▶ " + title + " · flashlight"
}
