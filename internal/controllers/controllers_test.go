package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"signin/internal/clock"
	"signin/internal/models"
	"signin/internal/remote"
	"signin/internal/services"
	"signin/internal/structures"
	"signin/internal/testutil"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type env struct {
	recordsKV *testutil.MockKVStore
	profileKV *testutil.MockKVStore
	forwarder *testutil.MockForwarder
	cache     *testutil.MockCache
	logger    *testutil.MockLogger
	service   *services.SignInService
	profiles  *models.ProfileStore
	conf      *structures.Config
}

func newEnv(outcome remote.Outcome) *env {
	e := &env{
		recordsKV: testutil.NewMockKVStore(),
		profileKV: testutil.NewMockKVStore(),
		forwarder: &testutil.MockForwarder{Outcome: outcome},
		cache:     testutil.NewMockCache(),
		logger:    &testutil.MockLogger{},
		conf: &structures.Config{
			Remote: structures.RemoteConfig{Enabled: true, BaseURL: "https://scheduler.example.com", Key: "abcd1234567890wxyz"},
			SignIn: structures.SignInConfig{Courses: []string{"Piano", "Guzheng"}},
		},
	}
	clk := clock.New(clock.NewTimestampGenerator(nil), time.UTC, nil)
	e.service = services.NewSignInService(models.NewRecordStore(e.recordsKV), e.forwarder, clk, e.conf.SignIn.Courses, testutil.NewMockMetrics(), e.logger)
	e.profiles = models.NewProfileStore(e.profileKV)
	return e
}

func (e *env) signInController() *SignInController {
	return NewSignInController(e.logger, e.service, e.profiles, e.cache)
}

func (e *env) profileController() *ProfileController {
	return NewProfileController(e.logger, e.profiles, e.service, e.conf)
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	return out
}

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func get(handler http.HandlerFunc, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func seedProfile(t *testing.T, e *env, p models.Profile) {
	t.Helper()
	_, err := e.profiles.Save(context.Background(), p)
	require.NoError(t, err)
}
