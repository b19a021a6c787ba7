package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"signin/internal/models"
	"signin/internal/remote"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignIn_Created(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Delivered})
	seedProfile(t, e, models.Profile{Nickname: "Ms. Li"})
	sc := e.signInController()
	staleKey := sc.recordsKey()
	e.cache.Set(staleKey, []byte(`{"records":[],"count":0}`))

	rr := postJSON(sc.SignIn, "/sign-in", `{"studentName":" Alice ","course":"Piano","remark":"first lesson"}`)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	resp := decode(t, rr)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "delivered", resp["sync"])
	assert.Equal(t, float64(1), resp["total"])
	assert.NotContains(t, resp, "warning")

	rec := resp["record"].(map[string]any)
	assert.Equal(t, "Alice", rec["studentName"])
	assert.Equal(t, "Ms. Li", rec["operator"])
	assert.Equal(t, "first lesson", rec["remark"])

	_, cached := e.cache.Get(staleKey)
	assert.False(t, cached)
	assert.NotEqual(t, staleKey, sc.recordsKey())
}

func TestSignIn_PartialSuccess(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Failed, Reason: "unexpected status 503"})

	rr := postJSON(e.signInController().SignIn, "/sign-in", `{"studentName":"Alice","course":"Piano"}`)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, "partial_success", resp["status"])
	assert.Equal(t, "failed", resp["sync"])
	assert.Equal(t, "saved locally, remote sync failed", resp["warning"])
	assert.Equal(t, "unexpected status 503", resp["reason"])
	assert.Len(t, e.recordsKV.Data, 1)
}

func TestSignIn_ValidationError(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Delivered})

	rr := postJSON(e.signInController().SignIn, "/sign-in", `{"studentName":"   ","course":"Piano"}`)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode(t, rr)
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	assert.Empty(t, e.recordsKV.Data)
	assert.Equal(t, 0, e.forwarder.CallCount())
}

func TestSignIn_MalformedJSON(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Delivered})

	rr := postJSON(e.signInController().SignIn, "/sign-in", `{"studentName":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSignIn_BodyTooLarge(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Delivered})

	body := `{"studentName":"Alice","remark":"` + strings.Repeat("x", maxRequestBodySize) + `"}`
	rr := postJSON(e.signInController().SignIn, "/sign-in", body)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, e.recordsKV.Data)
}

func TestSignIn_PersistenceError(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Delivered})
	e.recordsKV.SetErr = errors.New("no space left on device")

	rr := postJSON(e.signInController().SignIn, "/sign-in", `{"studentName":"Alice","course":"Piano"}`)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decode(t, rr)
	errBody := resp["error"].(map[string]any)
	assert.Equal(t, "PERSISTENCE_ERROR", errBody["code"])
	assert.Equal(t, 0, e.forwarder.CallCount())
}

func TestSignIn_ProfileUnavailableUsesPlaceholder(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Disabled})
	e.profileKV.GetErr = errors.New("i/o error")

	rr := postJSON(e.signInController().SignIn, "/sign-in", `{"studentName":"Alice"}`)

	require.Equal(t, http.StatusCreated, rr.Code)
	rec := decode(t, rr)["record"].(map[string]any)
	assert.Equal(t, models.OperatorPlaceholder, rec["operator"])
	assert.Equal(t, "Piano", rec["course"])
	assert.Equal(t, 1, e.logger.Count("warn"))
}

func TestListRecords_NewestFirstAndCached(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Disabled})
	sc := e.signInController()

	postJSON(sc.SignIn, "/sign-in", `{"studentName":"Alice"}`)
	postJSON(sc.SignIn, "/sign-in", `{"studentName":"Bob"}`)

	rr := get(sc.ListRecords, "/records")
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, float64(2), resp["count"])
	records := resp["records"].([]any)
	assert.Equal(t, "Bob", records[0].(map[string]any)["studentName"])

	cached, ok := e.cache.Get(sc.recordsKey())
	require.True(t, ok)
	assert.JSONEq(t, rr.Body.String(), string(cached))

	// served from cache even though the store is now unreadable
	e.recordsKV.GetErr = errors.New("i/o error")
	rr = get(sc.ListRecords, "/records")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestListRecords_Empty(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Disabled})

	rr := get(e.signInController().ListRecords, "/records")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"records":[],"count":0}`, rr.Body.String())
}

func TestListRecords_StoreError(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Disabled})
	e.recordsKV.GetErr = errors.New("i/o error")

	rr := get(e.signInController().ListRecords, "/records")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, 1, e.logger.Count("error"))
}

func TestClearRecords(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Disabled})
	sc := e.signInController()
	postJSON(sc.SignIn, "/sign-in", `{"studentName":"Alice"}`)
	get(sc.ListRecords, "/records")
	cachedKey := sc.recordsKey()

	req := httptest.NewRequest(http.MethodDelete, "/records", nil)
	rr := httptest.NewRecorder()
	sc.ClearRecords(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"cleared"}`, rr.Body.String())
	_, cached := e.cache.Get(cachedKey)
	assert.False(t, cached)

	rr = get(sc.ListRecords, "/records")
	assert.JSONEq(t, `{"records":[],"count":0}`, rr.Body.String())
}

func TestClearRecords_Error(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Disabled})
	e.recordsKV.DeleteErr = errors.New("read-only file system")

	req := httptest.NewRequest(http.MethodDelete, "/records", nil)
	rr := httptest.NewRecorder()
	e.signInController().ClearRecords(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestListRecords_StaleComputationNotServed(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Disabled})
	sc := e.signInController()

	// a list computed under an old generation lands in the cache late
	oldKey := sc.recordsKey()
	postJSON(sc.SignIn, "/sign-in", `{"studentName":"Alice"}`)
	e.cache.Set(oldKey, []byte(`{"records":[],"count":0}`))

	rr := get(sc.ListRecords, "/records")
	assert.Equal(t, float64(1), decode(t, rr)["count"])
}

func TestListRecords_SeesRecordWhileForwardInFlight(t *testing.T) {
	e := newEnv(remote.Outcome{Status: remote.Delivered})
	sc := e.signInController()

	warm := get(sc.ListRecords, "/records")
	require.Equal(t, float64(0), decode(t, warm)["count"])

	forwarding := make(chan struct{})
	release := make(chan struct{})
	e.forwarder.OnSend = func() {
		close(forwarding)
		<-release
	}

	done := make(chan *httptest.ResponseRecorder)
	go func() { done <- postJSON(sc.SignIn, "/sign-in", `{"studentName":"Alice","course":"Piano"}`) }()

	<-forwarding
	rr := get(sc.ListRecords, "/records")
	assert.Equal(t, float64(1), decode(t, rr)["count"])

	close(release)
	assert.Equal(t, http.StatusCreated, (<-done).Code)
}
