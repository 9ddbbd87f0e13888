package importsms_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/paisa/internal/http/importsms"
	"github.com/MrJamesThe3rd/paisa/internal/ingest"
	"github.com/MrJamesThe3rd/paisa/internal/smsimport"
)

type fakeImporter struct {
	body   string
	source string
	err    error
}

func (f *fakeImporter) Import(_ context.Context, r io.Reader, source string) (*smsimport.Summary, error) {
	b, _ := io.ReadAll(r)
	f.body = string(b)
	f.source = source

	if f.err != nil {
		return nil, f.err
	}

	return &smsimport.Summary{
		Format:   "android",
		Messages: 1,
		Outcomes: map[ingest.Outcome]int{ingest.OutcomeCreated: 1},
	}, nil
}

func upload(t *testing.T, imp *fakeImporter, withFile bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("source", "pixel"))

	if withFile {
		fw, err := mw.CreateFormFile("file", "sms.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte("address,body,date,type\n"))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	r := chi.NewRouter()
	r.Route("/import", importsms.NewHandler(imp, zap.NewNop()).Routes)

	req := httptest.NewRequest(http.MethodPost, "/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	return rec
}

func TestImport(t *testing.T) {
	imp := &fakeImporter{}

	rec := upload(t, imp, true)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "pixel", imp.source)
	assert.Equal(t, "address,body,date,type\n", imp.body)
	assert.JSONEq(t, `{"format": "android", "messages": 1, "outcomes": {"created": 1}}`, rec.Body.String())
}

func TestImport_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, upload(t, &fakeImporter{}, false).Code)
	assert.Equal(t, http.StatusBadRequest, upload(t, &fakeImporter{err: smsimport.ErrUnknownFormat}, true).Code)
}
