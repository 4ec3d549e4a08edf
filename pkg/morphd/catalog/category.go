// Package catalog holds the static format catalog and classifies files into
// its categories based on their extension.
package catalog

import "strings"

type CategoryName string

const (
	CategoryImage    CategoryName = "image"
	CategoryDocument CategoryName = "document"
	CategoryAudio    CategoryName = "audio"
	CategoryVideo    CategoryName = "video"
)

// Category groups the extensions a file can be converted between, along with
// the presentation hints the UI renders them with. Extensions are lower-case
// and declaration-ordered; the order is part of the contract for offered
// target formats.
type Category struct {
	Name       CategoryName
	Extensions []string
	Icon       string
	Color      string
}

// categories partitions the recognized extension vocabulary. No extension
// appears in more than one category.
var categories = []Category{
	{
		Name:       CategoryImage,
		Extensions: []string{"jpg", "jpeg", "png", "gif", "webp", "bmp", "svg", "ico", "tiff"},
		Icon:       "🖼️",
		Color:      "#667EEA",
	},
	{
		Name:       CategoryDocument,
		Extensions: []string{"pdf", "doc", "docx", "txt", "rtf", "odt", "xls", "xlsx", "ppt", "pptx"},
		Icon:       "📄",
		Color:      "#F093FB",
	},
	{
		Name:       CategoryAudio,
		Extensions: []string{"mp3", "wav", "ogg", "m4a", "flac", "aac", "wma"},
		Icon:       "🎵",
		Color:      "#10B981",
	},
	{
		Name:       CategoryVideo,
		Extensions: []string{"mp4", "avi", "mov", "wmv", "flv", "mkv", "webm"},
		Icon:       "🎬",
		Color:      "#F5576C",
	},
}

// Categories returns the catalog in declaration order.
func Categories() []Category {
	return categories
}

// Classify resolves an extension to its category. Matching is
// case-insensitive. Returns nil, false for an unrecognized extension.
func Classify(extension string) (*Category, bool) {
	extension = strings.ToLower(extension)

	for i := range categories {
		for _, ext := range categories[i].Extensions {
			if ext == extension {
				return &categories[i], true
			}
		}
	}

	return nil, false
}
