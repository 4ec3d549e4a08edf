package model

import "time"

// HistoryRecord is one completed conversion. Records are immutable once
// created; the json field names are the history snapshot wire format.
type HistoryRecord struct {
	ID              int64     `json:"id"`
	OriginalName    string    `json:"originalName"`
	ConvertedFormat string    `json:"convertedFormat"`
	Size            int64     `json:"size"`
	Timestamp       time.Time `json:"timestamp"`
	DownloadURL     *string   `json:"downloadURL"`
}

// NewHistoryRecord captures a completed conversion at the given time. The id
// is derived from the timestamp so newer records always sort higher.
func NewHistoryRecord(originalName, convertedFormat string, size int64, downloadURL string, now time.Time) HistoryRecord {
	r := HistoryRecord{
		ID:              now.UnixMilli(),
		OriginalName:    originalName,
		ConvertedFormat: convertedFormat,
		Size:            size,
		Timestamp:       now,
	}

	if downloadURL != "" {
		r.DownloadURL = &downloadURL
	}

	return r
}

// HasDownloadURL reports whether the conversion artifact was persisted to
// the storage bucket.
func (r HistoryRecord) HasDownloadURL() bool {
	return r.DownloadURL != nil && *r.DownloadURL != ""
}
