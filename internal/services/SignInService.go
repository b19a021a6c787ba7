package services

import (
	"context"
	"signin/internal/apperrors"
	"signin/internal/clock"
	"signin/internal/models"
	"signin/internal/providers"
	"signin/internal/remote"
	"signin/internal/structures"
	"strings"
	"sync"
	"time"

	"github.com/gookit/validate"
	"golang.org/x/text/unicode/norm"
)

type State int

const (
	StateIdle State = iota
	StateValidating
	StatePersistingLocal
	StateForwardingRemote
	StateDone
	StateLocalFailure
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StatePersistingLocal:
		return "persisting_local"
	case StateForwardingRemote:
		return "forwarding_remote"
	case StateDone:
		return "done"
	case StateLocalFailure:
		return "local_failure"
	default:
		return "idle"
	}
}

type ResultStatus int

const (
	ResultSuccess ResultStatus = iota
	// ResultPartialSuccess means the record is stored locally but forwarding failed.
	ResultPartialSuccess
)

func (r ResultStatus) String() string {
	if r == ResultPartialSuccess {
		return "partial_success"
	}
	return "success"
}

type SignInRequest struct {
	StudentName string `json:"studentName"`
	Course      string `json:"course"`
	Remark      string `json:"remark"`
}

type SignInResult struct {
	Record models.Record
	Status ResultStatus
	Sync   remote.Outcome
	// Notice is set for partial success and wraps apperrors.ErrRemoteFailure.
	Notice *apperrors.Error
	Total  int
}

type RecordStoreInterface interface {
	Append(ctx context.Context, rec models.Record) (models.RecordCollection, error)
	List(ctx context.Context) (models.RecordCollection, error)
	Clear(ctx context.Context) error
}

type ForwarderInterface interface {
	Send(ctx context.Context, path string, payload any) remote.Outcome
}

type IdentifierClock interface {
	NextID() string
	Timestamp() string
}

type SignInServiceInterface interface {
	SignIn(ctx context.Context, req SignInRequest, profile models.Profile) (*SignInResult, error)
	Records(ctx context.Context) (models.RecordCollection, error)
	ClearRecords(ctx context.Context) error
	Courses() []string
	OnRecordsChanged(fn func())
}

// SignInService writes every sign-in locally before making one attempt to
// forward it. A failed forward never undoes or annotates the local record.
type SignInService struct {
	records   RecordStoreInterface
	forwarder ForwarderInterface
	clock     IdentifierClock
	courses   []string
	metrics   providers.MetricsProviderInterface
	logger    providers.Logger

	hooksMu   sync.RWMutex
	onChanged []func()
}

func NewSignInService(
	records RecordStoreInterface,
	forwarder ForwarderInterface,
	clock IdentifierClock,
	courses []string,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) *SignInService {
	return &SignInService{
		records:   records,
		forwarder: forwarder,
		clock:     clock,
		courses:   courses,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *SignInService) Courses() []string {
	out := make([]string, len(s.courses))
	copy(out, s.courses)
	return out
}

// OnRecordsChanged registers fn to run right after an append or clear reaches
// the store, before any forwarding starts.
func (s *SignInService) OnRecordsChanged(fn func()) {
	s.hooksMu.Lock()
	defer s.hooksMu.Unlock()
	s.onChanged = append(s.onChanged, fn)
}

func (s *SignInService) recordsChanged() {
	s.hooksMu.RLock()
	hooks := s.onChanged
	s.hooksMu.RUnlock()
	for _, fn := range hooks {
		fn()
	}
}

// SignIn validates req, persists a new record and forwards it. profile
// supplies the operator name and is never written.
func (s *SignInService) SignIn(ctx context.Context, req SignInRequest, profile models.Profile) (*SignInResult, error) {
	state := StateIdle
	s.transition(&state, StateValidating)

	name := clean(req.StudentName)
	course := clean(req.Course)
	if course == "" && len(s.courses) > 0 {
		course = s.courses[0]
	}
	if err := s.validate(name, course); err != nil {
		s.metrics.IncSignIns("invalid")
		s.transition(&state, StateIdle)
		return nil, err
	}

	s.transition(&state, StatePersistingLocal)
	rec := models.Record{
		ID:          s.clock.NextID(),
		Course:      course,
		StudentName: name,
		Remark:      clean(req.Remark),
		CreatedAt:   s.clock.Timestamp(),
		Operator:    profile.OperatorName(),
	}

	start := time.Now()
	collection, err := s.records.Append(ctx, rec)
	s.metrics.ObservePersistenceDuration(time.Since(start))
	if err != nil {
		s.transition(&state, StateLocalFailure)
		s.metrics.IncSignIns("local_failure")
		s.logger.Errorf(providers.TypeApp, "Sign-in %s for %q not persisted: %v", rec.ID, rec.StudentName, err)
		if !apperrors.IsPersistence(err) {
			err = apperrors.Wrap(err, apperrors.ErrPersistence, "")
		}
		return nil, err
	}
	s.metrics.SetRecordsTotal(collection.Len())
	s.recordsChanged()

	// Once started, the forward is bounded only by the forwarder timeout.
	s.transition(&state, StateForwardingRemote)
	start = time.Now()
	outcome := s.forwarder.Send(context.WithoutCancel(ctx), remote.SignInPath, rec)
	s.metrics.ObserveSyncDuration(time.Since(start))
	s.metrics.IncSyncOutcomes(outcome.Status.String())

	result := &SignInResult{
		Record: rec,
		Status: ResultSuccess,
		Sync:   outcome,
		Total:  collection.Len(),
	}
	if outcome.Status == remote.Failed {
		result.Status = ResultPartialSuccess
		result.Notice = apperrors.Wrap(remoteError(outcome.Reason), apperrors.ErrRemoteFailure, "")
		s.logger.Warnf(providers.TypeApp, "Sign-in %s saved locally, remote sync failed: %s", rec.ID, outcome.Reason)
	}
	s.transition(&state, StateDone)
	s.metrics.IncSignIns(result.Status.String())
	s.logger.Infof(providers.TypeApp, "Sign-in %s recorded: student=%q course=%q sync=%s", rec.ID, rec.StudentName, rec.Course, outcome.Status)

	return result, nil
}

func (s *SignInService) Records(ctx context.Context) (models.RecordCollection, error) {
	records, err := s.records.List(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.SetRecordsTotal(records.Len())
	return records, nil
}

func (s *SignInService) ClearRecords(ctx context.Context) error {
	if err := s.records.Clear(ctx); err != nil {
		s.logger.Errorf(providers.TypeApp, "Clearing records failed: %v", err)
		return err
	}
	s.metrics.SetRecordsTotal(0)
	s.recordsChanged()
	s.logger.Infof(providers.TypeApp, "All sign-in records cleared")
	return nil
}

func (s *SignInService) validate(name, course string) error {
	v := validate.Map(map[string]any{
		"studentName": name,
		"course":      course,
	})
	v.StopOnError = true
	v.StringRule("studentName", "required")
	v.StringRule("course", "required")
	if len(s.courses) > 0 {
		v.AddRule("course", "in", s.courses)
	}
	v.AddMessages(map[string]string{
		"studentName.required": "student name is required",
		"course.required":      "course is required",
		"course.in":            "unknown course",
	})

	if v.Validate() {
		return nil
	}
	return apperrors.Wrap(nil, apperrors.ErrValidation, v.Errors.One())
}

func (s *SignInService) transition(state *State, next State) {
	s.logger.Debugf(providers.TypeApp, "sign-in state %s -> %s", *state, next)
	*state = next
}

// clean trims surrounding whitespace and folds the text to NFC so visually
// identical names are stored identically.
func clean(v string) string {
	return norm.NFC.String(strings.TrimSpace(v))
}

type remoteError string

func (e remoteError) Error() string { return string(e) }

// ProvideSignInService wires the service with the configured course list.
func ProvideSignInService(
	records RecordStoreInterface,
	forwarder ForwarderInterface,
	clk IdentifierClock,
	conf *structures.Config,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) *SignInService {
	return NewSignInService(records, forwarder, clk, conf.SignIn.Courses, metrics, logger)
}

// NewIdentifierClock builds the configured clock and resumes it from the
// newest stored record so ids keep increasing across restarts.
func NewIdentifierClock(conf *structures.Config, records RecordStoreInterface, logger providers.Logger) (IdentifierClock, error) {
	clk, err := clock.NewClockProvider(conf)
	if err != nil {
		return nil, err
	}
	existing, err := records.List(context.Background())
	if err != nil {
		logger.Warnf(providers.TypeApp, "Could not read records to seed the id clock: %v", err)
		return clk, nil
	}
	if newest, ok := existing.Newest(); ok {
		clk.Seed(newest.ID)
		logger.Debugf(providers.TypeApp, "Id clock resumed after %s", newest.ID)
	}
	return clk, nil
}
