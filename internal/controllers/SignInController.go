package controllers

import (
	"net/http"
	"signin/internal/models"
	"signin/internal/providers"
	"signin/internal/services"
	"strconv"
	"sync/atomic"

	json "github.com/goccy/go-json"
)

const recordsCachePrefix = "records:"

type SignInController struct {
	logger   providers.Logger
	service  services.SignInServiceInterface
	profiles services.ProfileStoreInterface
	cache    providers.CacheProviderInterface
	// generation is bumped as soon as a mutation reaches the store; cached
	// lists are keyed by it so a list computed before a write is never served
	// after it.
	generation atomic.Uint64
}

type signInResponse struct {
	Status  string        `json:"status"`
	Record  models.Record `json:"record"`
	Sync    string        `json:"sync"`
	Total   int           `json:"total"`
	Warning string        `json:"warning,omitempty"`
	Reason  string        `json:"reason,omitempty"`
}

type recordsResponse struct {
	Records models.RecordCollection `json:"records"`
	Count   int                     `json:"count"`
}

func NewSignInController(logger providers.Logger, service services.SignInServiceInterface, profiles services.ProfileStoreInterface, cache providers.CacheProviderInterface) *SignInController {
	sc := &SignInController{
		logger:   logger,
		service:  service,
		profiles: profiles,
		cache:    cache,
	}
	service.OnRecordsChanged(sc.invalidate)
	return sc
}

// SignIn answers 201 when the record is stored and forwarded (or forwarding
// is off) and 202 when it is stored but forwarding failed.
func (sc *SignInController) SignIn(w http.ResponseWriter, r *http.Request) {
	var req services.SignInRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, sc.logger, r, err)
		return
	}

	profile, err := sc.profiles.Load(r.Context())
	if err != nil {
		sc.logger.Warnf(providers.TypeApp, "Profile unavailable, signing in with placeholder operator: %v", err)
		profile = models.Profile{}
	}

	res, err := sc.service.SignIn(r.Context(), req, profile)
	if err != nil {
		writeError(w, sc.logger, r, err)
		return
	}

	resp := signInResponse{
		Status: res.Status.String(),
		Record: res.Record,
		Sync:   res.Sync.Status.String(),
		Total:  res.Total,
	}
	status := http.StatusCreated
	if res.Status == services.ResultPartialSuccess {
		status = http.StatusAccepted
		resp.Warning = res.Notice.Message
		resp.Reason = res.Sync.Reason
	}
	writeJSON(w, status, resp)
}

func (sc *SignInController) ListRecords(w http.ResponseWriter, r *http.Request) {
	key := sc.recordsKey()
	if data, ok := sc.cache.Get(key); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	records, err := sc.service.Records(r.Context())
	if err != nil {
		writeError(w, sc.logger, r, err)
		return
	}

	gson, err := json.Marshal(recordsResponse{Records: records, Count: records.Len()})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	sc.cache.Set(key, gson)
	writeRaw(w, http.StatusOK, gson)
}

func (sc *SignInController) ClearRecords(w http.ResponseWriter, r *http.Request) {
	if err := sc.service.ClearRecords(r.Context()); err != nil {
		writeError(w, sc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (sc *SignInController) recordsKey() string {
	return recordsCachePrefix + strconv.FormatUint(sc.generation.Load(), 10)
}

func (sc *SignInController) invalidate() {
	stale := sc.recordsKey()
	sc.generation.Add(1)
	sc.cache.Del(stale)
}
