package stor

// FakeSnapshotStor is a SnapshotStor whose calls fail with a settable error.
// Used to exercise the history log's degraded persistence paths.
type FakeSnapshotStor struct {
	err error
}

func NewFakeSnapshotStor() *FakeSnapshotStor {
	return &FakeSnapshotStor{}
}

func (s *FakeSnapshotStor) SetError(err error) {
	s.err = err
}

func (s *FakeSnapshotStor) Save(key string, data []byte) error {
	return s.err
}

func (s *FakeSnapshotStor) Load(key string) ([]byte, error) {
	return nil, s.err
}
