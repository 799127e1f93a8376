package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"cropeda/adapters/charts"
	"cropeda/adapters/tabular"
	"cropeda/app/dashboard"
	"cropeda/domain/session"
	"cropeda/internal/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cropCSV = `N,P,K,temperature,humidity,ph,rainfall,label
90,42,43,20.87974371,82.00274423,6.502985292,202.9355362,rice
85,58,41,21.77046169,80.31964408,7.038096361,226.6555374,rice
60,55,44,23.00445915,82.3207629,7.840207144,263.9642476,rice
71,54,16,22.61359953,63.69070564,5.749914421,87.75953857,maize
61,44,17,26.10018422,71.57476937,6.931756558,102.2662445,maize
91,21,26,26.33377975,57.36469987,6.2,95.0205625,coffee
107,21,26,26.45288528,55.32222708,7.231325217,144.6863294,coffee
`

func newTestServer(t *testing.T, csv string) *Server {
	t.Helper()
	tbl, err := tabular.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	dispatcher := dashboard.NewDispatcher(charts.NewRenderer(charts.DefaultOptions()), 5)
	srv, err := NewServer(dashboard.NewSession(tbl, dispatcher), gin.TestMode)
	require.NoError(t, err)
	return srv
}

func get(srv *Server, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func post(srv *Server, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["code"]
}

func TestIndexShowsOverview(t *testing.T) {
	srv := newTestServer(t, cropCSV)

	w := get(srv, "/")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, dashboard.AppTitle)
	assert.Contains(t, body, `value="Overview" checked`)
	assert.Contains(t, body, "Show dataset preview")
	assert.NotContains(t, body, "<table>")
}

func TestCheckboxShowsTableOnActiveView(t *testing.T) {
	srv := newTestServer(t, cropCSV)

	w := post(srv, url.Values{"activity": {string(session.ViewOverview)}, dashboard.KeyPreview: {"on"}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<table>")
	assert.Contains(t, w.Body.String(), `name="overview_preview" checked`)
}

func TestViewSwitchDropsSubmittedSelections(t *testing.T) {
	srv := newTestServer(t, cropCSV)
	stats := string(session.ViewStatistics)

	w := post(srv, url.Values{"activity": {stats}, dashboard.KeyDescribe: {"on"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Dataset Statistics" checked`)
	assert.NotContains(t, w.Body.String(), "<table>")

	w = post(srv, url.Values{"activity": {stats}, dashboard.KeyDescribe: {"on"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<table>")
}

func TestButtonRendersChart(t *testing.T) {
	srv := newTestServer(t, cropCSV)
	viz := string(session.ViewVisualize)
	require.Equal(t, http.StatusOK, post(srv, url.Values{"activity": {viz}}).Code)

	w := post(srv, url.Values{
		"activity":               {viz},
		"trigger":                {dashboard.KeyHistogram},
		dashboard.KeyHistFeature: {"ph"},
		dashboard.KeyScatterX:    {"not-a-feature"},
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "data:image/png;base64,")
	assert.Contains(t, body, `<option value="ph" selected>`)
	assert.Equal(t, 1, strings.Count(body, "<img"))
}

func TestFilterSelectsSubmitTheForm(t *testing.T) {
	srv := newTestServer(t, cropCSV)
	filter := string(session.ViewFilter)
	require.Equal(t, http.StatusOK, post(srv, url.Values{"activity": {filter}}).Code)

	w := post(srv, url.Values{"activity": {filter}})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	selects := strings.Count(body, "<select ")
	assert.Equal(t, 3, selects, "crop, plot kind and feature")
	submitting := regexp.MustCompile(`<select name="[a-z_]+" onchange="this\.form\.submit\(\)">`)
	assert.Len(t, submitting.FindAllString(body, -1), selects)
	assert.NotContains(t, body, "<noscript>")
	assert.Contains(t, body, `<button type="submit" class="apply">Apply</button>`)

	// choosing Scatterplot is enough to bring up its x and y selects
	w = post(srv, url.Values{
		"activity":            {filter},
		dashboard.KeyCrop:     {"maize"},
		dashboard.KeyPlotKind: {dashboard.PlotScatter},
	})
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, `name="filter_x"`)
	assert.Contains(t, body, `name="filter_y"`)
	assert.NotContains(t, body, `name="filter_feature"`)
	assert.Contains(t, body, `<option value="maize" selected>`)
	assert.Equal(t, 1, strings.Count(body, "<img"))
}

func TestUnknownActivityRejected(t *testing.T) {
	srv := newTestServer(t, cropCSV)

	w := get(srv, "/?activity=Mystery")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, errors.CodeInvalidInput, errorCode(t, w))
}

func TestDownloadCSV(t *testing.T) {
	srv := newTestServer(t, cropCSV)

	w := get(srv, "/download/csv")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tabular.CSVMIMEType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), tabular.ExportCSVName)
	header := strings.SplitN(w.Body.String(), "\n", 2)[0]
	assert.Contains(t, header, "rainfall")
	assert.NotContains(t, header, "label")

	// exporting never moves the session off its view
	assert.Contains(t, get(srv, "/").Body.String(), `value="Overview" checked`)
}

func TestDownloadXLSX(t *testing.T) {
	srv := newTestServer(t, cropCSV)

	w := get(srv, "/download/xlsx")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tabular.XLSXMIMEType, w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}

func TestDownloadUnknownFormat(t *testing.T) {
	srv := newTestServer(t, cropCSV)

	w := get(srv, "/download/pdf")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, errors.CodeNotFound, errorCode(t, w))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, cropCSV)

	w := get(srv, "/healthz")

	require.Equal(t, http.StatusOK, w.Code)
	var status dashboard.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, 7, status.Rows)
	assert.Equal(t, 8, status.Columns)
	assert.Equal(t, session.ViewOverview, status.Active)
	assert.NotEmpty(t, status.SessionID)
}

func TestMissingLabelHaltsEveryRoute(t *testing.T) {
	srv := newTestServer(t, "N,P\n1,2\n3,4\n")

	w := get(srv, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "column is missing from the dataset")
	assert.NotContains(t, w.Body.String(), "Select Activity")

	for _, target := range []string{"/?activity=Mystery", "/?activity=Download+Dataset"} {
		w = get(srv, target)
		require.Equal(t, http.StatusOK, w.Code, target)
		assert.Contains(t, w.Body.String(), "column is missing from the dataset", target)
	}

	assert.Equal(t, http.StatusServiceUnavailable, get(srv, "/healthz").Code)

	w = get(srv, "/download/csv")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, errors.CodeMissingColumn, errorCode(t, w))
}

func TestStaticStylesheet(t *testing.T) {
	srv := newTestServer(t, cropCSV)

	w := get(srv, "/static/style.css")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "font-family")
}

func TestFormControls(t *testing.T) {
	f := newFormControls(url.Values{
		"ticked":  {"on"},
		"trigger": {"go"},
		"pick":    {"b"},
		"bogus":   {"z"},
	})

	assert.True(t, f.Checkbox("ticked", ""))
	assert.False(t, f.Checkbox("unticked", ""))
	assert.True(t, f.Button("go", ""))
	assert.False(t, f.Button("stop", ""))
	assert.Equal(t, "b", f.Select("pick", "", []string{"a", "b"}))
	assert.Equal(t, "a", f.Select("bogus", "", []string{"a", "b"}))
	assert.Equal(t, "a", f.Select("absent", "", []string{"a", "b"}))
	assert.Equal(t, "", f.Select("pick", "", nil))
}
