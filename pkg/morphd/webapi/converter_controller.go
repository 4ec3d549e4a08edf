package webapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/filemorph/morph/pkg/morphd/convert"
	"github.com/filemorph/morph/pkg/morphd/history"
	"github.com/filemorph/morph/pkg/morphd/session"
	"github.com/filemorph/morph/pkg/morphdb/model"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type ConverterController struct {
	manager    *session.Manager
	driver     *convert.Driver
	historyLog *history.Log
}

func NewConverterController(manager *session.Manager, driver *convert.Driver, historyLog *history.Log) *ConverterController {
	return &ConverterController{manager: manager, driver: driver, historyLog: historyLog}
}

// LoadFile accepts the multipart upload that starts a session. When the form
// carries multiple files, only the first is used.
func (c *ConverterController) LoadFile(ctx echo.Context) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return errorNotice(ctx, http.StatusBadRequest, "No file provided")
	}

	headers := form.File["file"]
	if len(headers) == 0 {
		return errorNotice(ctx, http.StatusBadRequest, "No file provided")
	}

	header := headers[0]

	src, err := header.Open()
	if err != nil {
		return errorNotice(ctx, http.StatusBadRequest, "Unable to read uploaded file")
	}
	defer func() {
		_ = src.Close()
	}()

	data, err := io.ReadAll(src)
	if err != nil {
		return errorNotice(ctx, http.StatusBadRequest, "Unable to read uploaded file")
	}

	file := session.ActiveFile{
		Name:      header.Filename,
		SizeBytes: header.Size,
		MimeType:  header.Header.Get("Content-Type"),
		Bytes:     data,
	}

	view, err := c.manager.Load(file)
	switch {
	case errors.Is(err, session.ErrBusy):
		return errorNotice(ctx, http.StatusConflict, "A conversion is already in progress")
	case errors.Is(err, session.ErrUnsupportedType):
		return errorNotice(ctx, http.StatusUnsupportedMediaType, "File type not supported")
	case err != nil:
		return err
	}

	return ctx.JSON(http.StatusOK, view)
}

func (c *ConverterController) GetCurrent(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.manager.View())
}

func (c *ConverterController) SelectFormat(ctx echo.Context) error {
	var req struct {
		Format string `json:"format"`
	}

	if err := ctx.Bind(&req); err != nil {
		return err
	}

	view, err := c.manager.SelectFormat(req.Format)
	switch {
	case errors.Is(err, session.ErrInvalidTarget):
		return errorNotice(ctx, http.StatusBadRequest, fmt.Sprintf("Cannot convert to '%s'", req.Format))
	case errors.Is(err, session.ErrMissingSelection):
		return errorNotice(ctx, http.StatusBadRequest, "Load a file before selecting a format")
	case err != nil:
		return err
	}

	return ctx.JSON(http.StatusOK, view)
}

// ConvertResponse reports a finished conversion along with its history
// record. DownloadURL inside the record is null when the bucket upload
// failed or no bucket is configured.
type ConvertResponse struct {
	Session session.View        `json:"session"`
	Record  model.HistoryRecord `json:"record"`
}

// Convert runs the conversion synchronously; progress is observable over the
// websocket while this request is in flight.
func (c *ConverterController) Convert(ctx echo.Context) error {
	runCtx, work, err := c.manager.BeginConvert(ctx.Request().Context())
	switch {
	case errors.Is(err, session.ErrMissingSelection):
		return errorNotice(ctx, http.StatusBadRequest, "Please select a format")
	case errors.Is(err, session.ErrBusy):
		return errorNotice(ctx, http.StatusConflict, "A conversion is already in progress")
	case err != nil:
		return err
	}

	completed, err := c.driver.Run(runCtx, work)
	if err != nil {
		c.manager.Fail()
		if errors.Is(err, context.Canceled) {
			return errorNotice(ctx, http.StatusConflict, "Conversion cancelled")
		}

		log.Errorf("Conversion of %s failed: %s", work.File.Name, err)
		return errorNotice(ctx, http.StatusInternalServerError, "Conversion failed. Please try again.")
	}

	view, err := c.manager.Complete(completed.DownloadURL)
	if err != nil {
		// the session was reset while the driver was finishing up
		return errorNotice(ctx, http.StatusConflict, "Conversion cancelled")
	}

	record := model.NewHistoryRecord(work.File.Name, work.Format, work.File.SizeBytes, completed.DownloadURL, time.Now())
	c.historyLog.Append(record)

	return ctx.JSON(http.StatusOK, ConvertResponse{Session: view, Record: record})
}

// Download serves the completed conversion: a redirect to the bucket URL
// when the upload succeeded, otherwise the original bytes under the
// converted name.
func (c *ConverterController) Download(ctx echo.Context) error {
	url, file, format, err := c.manager.Download()
	if err != nil {
		return errorNotice(ctx, http.StatusBadRequest, "Nothing to download")
	}

	if url != "" {
		return ctx.Redirect(http.StatusFound, url)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="converted.%s"`, format))
	return ctx.Blob(http.StatusOK, file.MimeType, file.Bytes)
}

func (c *ConverterController) Reset(ctx echo.Context) error {
	c.manager.Reset()
	return ctx.NoContent(http.StatusNoContent)
}
