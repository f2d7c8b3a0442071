package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ivlev/path2video/internal/playback"
	"github.com/ivlev/path2video/internal/project"
	"github.com/ivlev/path2video/internal/timeline"
)

// ProjectChangedMsg is sent by the file watcher when the project file
// changes on disk.
type ProjectChangedMsg struct{}

type tickMsg time.Time

const tickRate = time.Second / 30

// Model is the Bubble Tea model for the schedule player.
type Model struct {
	keys  KeyMap
	path  string
	proj  *project.Project
	cache *timeline.Cache
	sched timeline.Schedule
	flash playback.Flash

	session float64
	elapsed float64
	playing bool
	looping bool

	width  int
	height int
	prog   progress.Model

	statusMsg     string
	statusTimeout time.Time
}

// NewModel loads a project file and prepares the player.
func NewModel(path string) (Model, error) {
	proj, err := project.Read(path)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		keys:    DefaultKeyMap(),
		path:    path,
		proj:    proj,
		cache:   &timeline.Cache{},
		playing: true,
		prog:    progress.New(progress.WithDefaultGradient()),
	}
	m.rebuild()
	return m, nil
}

// WithLoop presets the loop toggle
func (m Model) WithLoop(on bool) Model {
	m.looping = on
	return m
}

// rebuild refreshes the schedule after a load or reload
func (m *Model) rebuild() {
	m.sched = m.cache.Schedule(m.proj.Metrics(), m.proj.Items, m.proj.Defaults())
	m.flash = m.proj.Flash()
	m.session = playback.SessionLength(m.sched, m.flash)

	if m.elapsed > m.session {
		m.elapsed = m.session
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prog.Width = msg.Width - 8
		if m.prog.Width < 10 {
			m.prog.Width = 10
		}
		return m, nil

	case tickMsg:
		if m.playing {
			m.elapsed += tickRate.Seconds()
			if m.elapsed >= m.session {
				if m.looping {
					m.elapsed -= m.session
				} else {
					m.elapsed = m.session
					m.playing = false
				}
			}
		}
		return m, tick()

	case ProjectChangedMsg:
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.PlayPause):
		if !m.playing && m.elapsed >= m.session {
			m.elapsed = 0
		}
		m.playing = !m.playing

	case key.Matches(msg, m.keys.Back):
		m.seek(-1)

	case key.Matches(msg, m.keys.Forward):
		m.seek(1)

	case key.Matches(msg, m.keys.BigBack):
		m.seek(-5)

	case key.Matches(msg, m.keys.BigForward):
		m.seek(5)

	case key.Matches(msg, m.keys.Restart):
		m.elapsed = 0
		m.playing = true

	case key.Matches(msg, m.keys.Loop):
		m.looping = !m.looping
		if m.looping {
			m.setStatus("Loop on")
		} else {
			m.setStatus("Loop off")
		}
	}

	return m, nil
}

// seek moves the playhead by delta seconds, clamped to the session
func (m *Model) seek(delta float64) {
	m.elapsed += delta
	if m.elapsed < 0 {
		m.elapsed = 0
	}
	if m.elapsed > m.session {
		m.elapsed = m.session
	}
}

// reload re-reads the project file, keeping the playhead position
func (m *Model) reload() {
	proj, err := project.Read(m.path)
	if err != nil {
		m.setStatus("Reload error: " + err.Error())
		return
	}

	m.proj = proj
	m.cache.Invalidate()
	m.rebuild()
	m.setStatus("Project reloaded")
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}
