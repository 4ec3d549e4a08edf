// Package session tracks the lifecycle of a single file from load through
// conversion. Only one session exists per process and only one conversion
// may be in flight at a time.
package session

import (
	"github.com/filemorph/morph/pkg/morphd/catalog"
	"github.com/hashicorp/go-uuid"
	"github.com/pkg/errors"
)

type State string

const (
	StateIdle           State = "idle"
	StateFileLoaded     State = "file_loaded"
	StateFormatSelected State = "format_selected"
	StateConverting     State = "converting"
	StateCompleted      State = "completed"
)

var (
	ErrNoFile           = errors.New("no file provided")
	ErrUnsupportedType  = errors.New("file type not supported")
	ErrBusy             = errors.New("a conversion is already in progress")
	ErrInvalidTarget    = errors.New("format is not an offered conversion target")
	ErrMissingSelection = errors.New("file and target format must be selected")
	ErrNotConverting    = errors.New("no conversion in progress")
)

// ActiveFile is the file a session is working on. It exists only while the
// session is in progress; history records keep copies of its name and size,
// never the bytes.
type ActiveFile struct {
	Name      string
	SizeBytes int64
	MimeType  string
	Bytes     []byte
}

func (f ActiveFile) Extension() string {
	return catalog.DeriveExtension(f.Name)
}

// Session is the conversion state machine:
//
//	Idle -> FileLoaded -> FormatSelected -> Converting -> Completed
//
// with Reset returning to Idle from any state.
type Session struct {
	UUID           string
	state          State
	file           *ActiveFile
	category       *catalog.Category
	targets        []string
	selectedFormat string
	downloadURL    string
}

func NewSession() *Session {
	return &Session{state: StateIdle}
}

// Load accepts a dropped or picked file list. Only the first file is used;
// the rest are discarded. A file whose extension resolves to no catalog
// category aborts the load and the session stays Idle.
func (s *Session) Load(files ...ActiveFile) error {
	if s.state == StateConverting {
		return ErrBusy
	}

	if len(files) == 0 {
		return ErrNoFile
	}

	s.Reset()

	file := files[0]
	category, ok := catalog.Classify(file.Extension())
	if !ok {
		return ErrUnsupportedType
	}

	sessionUUID, err := uuid.GenerateUUID()
	if err != nil {
		return err
	}

	s.UUID = sessionUUID
	s.file = &file
	s.category = category
	s.targets = catalog.AvailableTargets(category, file.Extension())
	s.state = StateFileLoaded

	return nil
}

// SelectFormat picks one of the offered target formats. Selecting again
// while FormatSelected replaces the earlier choice.
func (s *Session) SelectFormat(format string) error {
	switch s.state {
	case StateFileLoaded, StateFormatSelected:
	default:
		return ErrMissingSelection
	}

	for _, target := range s.targets {
		if target == format {
			s.selectedFormat = format
			s.state = StateFormatSelected
			return nil
		}
	}

	return ErrInvalidTarget
}

// BeginConvert moves the session into Converting. Invoked without a loaded
// file and a selected format it signals a missing selection and leaves the
// state untouched.
func (s *Session) BeginConvert() error {
	if s.state == StateConverting {
		return ErrBusy
	}

	if s.file == nil || s.selectedFormat == "" {
		return ErrMissingSelection
	}

	s.state = StateConverting
	return nil
}

// Complete records a successful conversion. downloadURL is empty when the
// storage bucket was unavailable or the upload failed; the conversion still
// completed.
func (s *Session) Complete(downloadURL string) error {
	if s.state != StateConverting {
		return ErrNotConverting
	}

	s.downloadURL = downloadURL
	s.state = StateCompleted
	return nil
}

// Reset discards the active file and selection and returns to Idle.
func (s *Session) Reset() {
	s.UUID = ""
	s.file = nil
	s.category = nil
	s.targets = nil
	s.selectedFormat = ""
	s.downloadURL = ""
	s.state = StateIdle
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) File() *ActiveFile {
	return s.file
}

func (s *Session) Category() *catalog.Category {
	return s.category
}

func (s *Session) Targets() []string {
	return s.targets
}

func (s *Session) SelectedFormat() string {
	return s.selectedFormat
}

func (s *Session) DownloadURL() string {
	return s.downloadURL
}
