package webapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/filemorph/morph/pkg/bucket"
	"github.com/filemorph/morph/pkg/morphd/convert"
	"github.com/filemorph/morph/pkg/morphd/history"
	"github.com/filemorph/morph/pkg/morphd/session"
	"github.com/filemorph/morph/pkg/morphdb/stor"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	e          *echo.Echo
	controller *ConverterController
	historyCtl *HistoryController
	manager    *session.Manager
	historyLog *history.Log
	mock       *bucket.MockClient
}

func newTestEnv(t *testing.T, withBucket bool) *testEnv {
	t.Helper()

	manager := session.NewManager()
	historyLog := history.NewLog(stor.NewInMemorySnapshotStor())
	historyLog.Load()

	var mock *bucket.MockClient
	opts := []convert.Option{convert.WithStepDelay(time.Millisecond)}
	if withBucket {
		mock = bucket.NewMockClient()
		opts = append(opts, convert.WithObjClient(mock))
	}

	driver := convert.NewDriver(opts...)

	return &testEnv{
		e:          echo.New(),
		controller: NewConverterController(manager, driver, historyLog),
		historyCtl: NewHistoryController(historyLog),
		manager:    manager,
		historyLog: historyLog,
		mock:       mock,
	}
}

func multipartUpload(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/conversions", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())

	return req
}

func (env *testEnv) loadFile(t *testing.T, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := multipartUpload(t, filename, data)
	rec := httptest.NewRecorder()
	require.NoError(t, env.controller.LoadFile(env.e.NewContext(req, rec)))

	return rec
}

func (env *testEnv) selectFormat(t *testing.T, format string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/conversions/format",
		strings.NewReader(fmt.Sprintf(`{"format":%q}`, format)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, env.controller.SelectFormat(env.e.NewContext(req, rec)))

	return rec
}

func (env *testEnv) convert(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/conversions/convert", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, env.controller.Convert(env.e.NewContext(req, rec)))

	return rec
}

func TestLoadFileOffersSiblingFormats(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.loadFile(t, "photo.PNG", make([]byte, 64))
	require.Equal(t, http.StatusOK, rec.Code)

	var view session.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, session.StateFileLoaded, view.State)
	assert.Equal(t, []string{"jpg", "jpeg", "gif", "webp", "bmp", "svg", "ico", "tiff"}, view.Targets)
	assert.NotContains(t, view.Targets, "png")
}

func TestLoadFileUnsupportedType(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.loadFile(t, "archive.zip", []byte("zip-bytes"))
	require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Contains(t, rec.Body.String(), "File type not supported")

	assert.Equal(t, session.StateIdle, env.manager.View().State)
	assert.Empty(t, env.historyLog.All())
}

func TestConvertAppendsHistoryRecord(t *testing.T) {
	env := newTestEnv(t, true)

	fileBytes := bytes.Repeat([]byte("x"), 5242880)
	env.loadFile(t, "photo.PNG", fileBytes)
	require.Equal(t, http.StatusOK, env.selectFormat(t, "webp").Code)

	rec := env.convert(t)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, session.StateCompleted, resp.Session.State)
	assert.Equal(t, "webp", resp.Record.ConvertedFormat)
	assert.Equal(t, int64(5242880), resp.Record.Size)
	assert.Equal(t, "photo.PNG", resp.Record.OriginalName)
	require.True(t, resp.Record.HasDownloadURL())

	records := env.historyLog.All()
	require.Len(t, records, 1)
	assert.Equal(t, resp.Record.ID, records[0].ID)
}

func TestConvertWithoutSelection(t *testing.T) {
	env := newTestEnv(t, false)
	env.loadFile(t, "photo.PNG", []byte("bytes"))

	rec := env.convert(t)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please select a format")
	assert.Equal(t, session.StateFileLoaded, env.manager.View().State)
}

func TestSelectFormatRejectsOwnFormat(t *testing.T) {
	env := newTestEnv(t, false)
	env.loadFile(t, "photo.png", []byte("bytes"))

	rec := env.selectFormat(t, "png")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvertSurvivesBucketFailure(t *testing.T) {
	env := newTestEnv(t, true)
	env.mock.SetError(fmt.Errorf("bucket down"))

	env.loadFile(t, "photo.PNG", []byte("png-bytes"))
	env.selectFormat(t, "webp")

	rec := env.convert(t)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ConvertResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, session.StateCompleted, resp.Session.State)
	assert.False(t, resp.Record.HasDownloadURL())
	assert.Contains(t, rec.Body.String(), `"downloadURL":null`)
}

func TestDownloadFallsBackToOriginalBytes(t *testing.T) {
	env := newTestEnv(t, true)
	env.mock.SetError(fmt.Errorf("bucket down"))

	env.loadFile(t, "photo.PNG", []byte("png-bytes"))
	env.selectFormat(t, "webp")
	env.convert(t)

	req := httptest.NewRequest(http.MethodGet, "/api/conversions/download", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, env.controller.Download(env.e.NewContext(req, rec)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), `converted.webp`)
}

func TestDownloadRedirectsToBucketURL(t *testing.T) {
	env := newTestEnv(t, true)
	env.mock.SetRetrievalURL("https://bucket.test/conversions/photo.webp")

	env.loadFile(t, "photo.PNG", []byte("png-bytes"))
	env.selectFormat(t, "webp")
	env.convert(t)

	req := httptest.NewRequest(http.MethodGet, "/api/conversions/download", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, env.controller.Download(env.e.NewContext(req, rec)))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://bucket.test/conversions/photo.webp", rec.Header().Get(echo.HeaderLocation))
}

func TestResetReturnsToIdle(t *testing.T) {
	env := newTestEnv(t, false)
	env.loadFile(t, "photo.PNG", []byte("bytes"))

	req := httptest.NewRequest(http.MethodDelete, "/api/conversions", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, env.controller.Reset(env.e.NewContext(req, rec)))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, session.StateIdle, env.manager.View().State)
}
