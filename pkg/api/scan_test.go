package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inonelg/housecheck/pkg/checklist"
)

var errFakeClassify = errors.New("classify failed")

func imageServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte(strings.Repeat("x", 200)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func failingServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func scanRequestBody(t *testing.T, roomImageURLs map[string][]string) []byte {
	t.Helper()
	req := ScanRunRequest{}
	for roomID, urls := range roomImageURLs {
		req.Rooms = append(req.Rooms, ScanRoomRequest{RoomID: roomID, ImageURLs: urls})
	}
	req.HouseChecklist.Default.Items = []checklist.Item{{ID: "roof_leak", Kind: checklist.KindBoolean}}
	req.RoomsChecklist.Default.Items = []checklist.Item{{ID: "grout", Kind: checklist.KindBoolean}}
	req.ProductsChecklist.Items = []checklist.Item{{ID: "fridge", Kind: checklist.KindBoolean}}

	body, err := json.Marshal(req)
	require.NoError(t, err)
	return body
}

func TestHandleScanRunAssemblesReport(t *testing.T) {
	img := imageServer(t)

	body := scanRequestBody(t, map[string][]string{
		"kitchen": {img.URL},
		"bath":    {img.URL},
	})

	router := newTestRouter(t, &fakeInferencer{})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/scan/run", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Result.Rooms, 2)
	assert.Equal(t, 2, resp.Metadata.RoomCount)
	assert.NotEmpty(t, resp.Metadata.RequestID)
}

func TestHandleScanRunSkipsRoomWithNoFetchableImages(t *testing.T) {
	img := imageServer(t)
	fail := failingServer(t)

	body := scanRequestBody(t, map[string][]string{
		"kitchen": {img.URL},
		"bath":    {fail.URL},
	})

	router := newTestRouter(t, &fakeInferencer{})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/scan/run", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp RunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Result.Rooms, 1)
	assert.Equal(t, "kitchen", resp.Result.Rooms[0].RoomID)
}

func TestHandleScanRunRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t, &fakeInferencer{})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/scan/run", bytes.NewReader([]byte("not json")))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleScanRunPropagatesInferenceFailureAsServerError(t *testing.T) {
	img := imageServer(t)
	body := scanRequestBody(t, map[string][]string{"kitchen": {img.URL}})

	router := newTestRouter(t, &fakeInferencer{classifyErr: errFakeClassify})
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/v1/scan/run", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
