package webapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/filemorph/morph/pkg/morphd/catalog"
	"github.com/filemorph/morph/pkg/morphd/history"
	"github.com/filemorph/morph/pkg/morphdb/model"
	"github.com/labstack/echo/v4"
)

type HistoryController struct {
	historyLog *history.Log
}

func NewHistoryController(historyLog *history.Log) *HistoryController {
	return &HistoryController{historyLog: historyLog}
}

// HistoryEntry is a history record decorated with the presentation fields
// the list renders: the relative time bucket and the category hints of the
// converted format.
type HistoryEntry struct {
	model.HistoryRecord
	RelativeTime string `json:"relativeTime"`
	Icon         string `json:"icon,omitempty"`
	Color        string `json:"color,omitempty"`
}

func (c *HistoryController) ListHistory(ctx echo.Context) error {
	now := time.Now()

	records := c.historyLog.All()
	entries := make([]HistoryEntry, 0, len(records))

	for _, r := range records {
		entry := HistoryEntry{
			HistoryRecord: r,
			RelativeTime:  history.RelativeTime(r.Timestamp, now),
		}

		if category, ok := catalog.Classify(r.ConvertedFormat); ok {
			entry.Icon = category.Icon
			entry.Color = category.Color
		}

		entries = append(entries, entry)
	}

	return ctx.JSON(http.StatusOK, entries)
}

func (c *HistoryController) DownloadHistoryItem(ctx echo.Context) error {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return errorNotice(ctx, http.StatusBadRequest, "Invalid history id")
	}

	record, ok := c.historyLog.FindByID(id)
	if !ok {
		return errorNotice(ctx, http.StatusNotFound, "No such conversion")
	}

	if !record.HasDownloadURL() {
		return errorNotice(ctx, http.StatusNotFound, "Download URL not available")
	}

	return ctx.Redirect(http.StatusFound, *record.DownloadURL)
}
