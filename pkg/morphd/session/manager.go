package session

import (
	"context"
	"sync"

	"github.com/filemorph/morph/pkg/morphd/catalog"
)

// View is a read-only copy of the session handed to controllers for
// rendering. It never aliases the session's mutable state.
type View struct {
	UUID           string                `json:"uuid,omitempty"`
	State          State                 `json:"state"`
	FileName       string                `json:"file_name,omitempty"`
	FileSize       int64                 `json:"file_size,omitempty"`
	MimeType       string                `json:"mime_type,omitempty"`
	Category       *catalog.CategoryName `json:"category,omitempty"`
	Icon           string                `json:"icon,omitempty"`
	Color          string                `json:"color,omitempty"`
	Targets        []string              `json:"targets,omitempty"`
	SelectedFormat string                `json:"selected_format,omitempty"`
	DownloadURL    string                `json:"download_url,omitempty"`
}

// Work is what the conversion driver needs from a session: a copy of the
// file and the chosen format.
type Work struct {
	File   ActiveFile
	Format string
}

// Manager owns the single process-wide session. HTTP handlers run on
// multiple goroutines, so every transition goes through the manager's lock;
// the single-active-session invariant is enforced here by construction.
type Manager struct {
	mu      sync.Mutex
	session *Session
	cancel  context.CancelFunc
}

func NewManager() *Manager {
	return &Manager{session: NewSession()}
}

func (m *Manager) Load(files ...ActiveFile) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.session.Load(files...); err != nil {
		return m.viewLocked(), err
	}

	return m.viewLocked(), nil
}

func (m *Manager) SelectFormat(format string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.session.SelectFormat(format); err != nil {
		return m.viewLocked(), err
	}

	return m.viewLocked(), nil
}

// BeginConvert transitions to Converting and returns a context that Reset
// cancels, so an in-flight conversion halts instead of running to completion
// in the background.
func (m *Manager) BeginConvert(parent context.Context) (context.Context, Work, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.session.BeginConvert(); err != nil {
		return nil, Work{}, err
	}

	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel

	return ctx, Work{File: *m.session.File(), Format: m.session.SelectedFormat()}, nil
}

// Complete records the conversion outcome. An empty downloadURL means the
// bucket upload was skipped or failed; the conversion still completed.
func (m *Manager) Complete(downloadURL string) (View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearCancelLocked()

	if err := m.session.Complete(downloadURL); err != nil {
		return m.viewLocked(), err
	}

	return m.viewLocked(), nil
}

// Fail abandons a Converting session and returns to Idle.
func (m *Manager) Fail() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearCancelLocked()
	m.session.Reset()
}

// Reset returns to Idle from any state, cancelling an in-flight conversion.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.clearCancelLocked()
	m.session.Reset()
}

// Download returns what the download action should serve: the bucket URL
// when the upload succeeded, otherwise the original bytes under the
// converted name.
func (m *Manager) Download() (url string, file *ActiveFile, format string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session.State() != StateCompleted {
		return "", nil, "", ErrMissingSelection
	}

	if m.session.DownloadURL() != "" {
		return m.session.DownloadURL(), nil, "", nil
	}

	f := *m.session.File()
	return "", &f, m.session.SelectedFormat(), nil
}

func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

func (m *Manager) clearCancelLocked() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Manager) viewLocked() View {
	v := View{
		UUID:           m.session.UUID,
		State:          m.session.State(),
		SelectedFormat: m.session.SelectedFormat(),
		DownloadURL:    m.session.DownloadURL(),
	}

	if f := m.session.File(); f != nil {
		v.FileName = f.Name
		v.FileSize = f.SizeBytes
		v.MimeType = f.MimeType
	}

	if c := m.session.Category(); c != nil {
		name := c.Name
		v.Category = &name
		v.Icon = c.Icon
		v.Color = c.Color
	}

	if targets := m.session.Targets(); len(targets) > 0 {
		v.Targets = append([]string{}, targets...)
	}

	return v
}
