package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/filemorph/morph/pkg/morphdb/model"
	"github.com/filemorph/morph/pkg/morphdb/stor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id int64, name, format string) model.HistoryRecord {
	return model.HistoryRecord{
		ID:              id,
		OriginalName:    name,
		ConvertedFormat: format,
		Size:            5242880,
		Timestamp:       time.UnixMilli(id),
	}
}

func TestAppendThenReloadRoundTrips(t *testing.T) {
	snapshots := stor.NewInMemorySnapshotStor()

	l := NewLog(snapshots)
	l.Load()
	require.Empty(t, l.All())

	l.Append(record(1, "photo.PNG", "webp"))
	l.Append(record(2, "song.mp3", "wav"))

	// a fresh log over the same snapshot store sees the same sequence
	reloaded := NewLog(snapshots)
	reloaded.Load()

	records := reloaded.All()
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID)
	assert.Equal(t, int64(1), records[1].ID)
}

func TestAppendPrependsMostRecentFirst(t *testing.T) {
	l := NewLog(stor.NewInMemorySnapshotStor())

	for i := int64(1); i <= 3; i++ {
		l.Append(record(i, fmt.Sprintf("file%d.png", i), "jpg"))
	}

	records := l.All()
	require.Len(t, records, 3)
	assert.Equal(t, int64(3), records[0].ID)
	assert.Equal(t, int64(2), records[1].ID)
	assert.Equal(t, int64(1), records[2].ID)
}

func TestAppendSurvivesSnapshotWriteFailure(t *testing.T) {
	snapshots := stor.NewFakeSnapshotStor()
	snapshots.SetError(fmt.Errorf("disk full"))

	l := NewLog(snapshots)
	l.Append(record(1, "photo.PNG", "webp"))

	// the in-memory prepend is still visible for the rest of the process
	require.Len(t, l.All(), 1)
}

func TestLoadMalformedSnapshot(t *testing.T) {
	snapshots := stor.NewInMemorySnapshotStor()
	require.NoError(t, snapshots.Save(SnapshotKey, []byte("{not json")))

	l := NewLog(snapshots)
	l.Load()
	require.Empty(t, l.All())
}

func TestFindByID(t *testing.T) {
	l := NewLog(stor.NewInMemorySnapshotStor())
	l.Append(record(10, "photo.PNG", "webp"))
	l.Append(record(20, "doc.pdf", "txt"))

	r, ok := l.FindByID(10)
	require.True(t, ok)
	assert.Equal(t, "photo.PNG", r.OriginalName)

	_, ok = l.FindByID(99)
	assert.False(t, ok)
}

func TestSnapshotWireFormat(t *testing.T) {
	snapshots := stor.NewInMemorySnapshotStor()
	l := NewLog(snapshots)

	url := "https://bucket.test/conversions/photo_converted_1700000000000.webp"
	r := model.NewHistoryRecord("photo.PNG", "webp", 5242880, url, time.UnixMilli(1700000000000).UTC())
	l.Append(r)
	l.Append(model.NewHistoryRecord("doc.pdf", "txt", 1024, "", time.UnixMilli(1700000001000).UTC()))

	data, err := snapshots.Load(SnapshotKey)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"id":1700000000000`)
	assert.Contains(t, string(data), `"originalName":"photo.PNG"`)
	assert.Contains(t, string(data), `"convertedFormat":"webp"`)
	assert.Contains(t, string(data), `"size":5242880`)
	assert.Contains(t, string(data), `"downloadURL":null`)
	assert.Contains(t, string(data), fmt.Sprintf(`"downloadURL":%q`, url))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	var tests = []struct {
		name     string
		ts       time.Time
		expected string
	}{
		{name: "30 seconds ago", ts: now.Add(-30 * time.Second), expected: "just now"},
		{name: "10 minutes ago", ts: now.Add(-10 * time.Minute), expected: "10 min ago"},
		{name: "1 hour ago", ts: now.Add(-time.Hour), expected: "1 hour ago"},
		{name: "5 hours ago", ts: now.Add(-5 * time.Hour), expected: "5 hours ago"},
		{name: "1 day ago", ts: now.Add(-25 * time.Hour), expected: "1 day ago"},
		{name: "3 days ago", ts: now.Add(-3 * 24 * time.Hour), expected: "3 days ago"},
		{name: "10 days ago", ts: now.Add(-10 * 24 * time.Hour), expected: "6/5/2024"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, RelativeTime(test.ts, now))
		})
	}
}
