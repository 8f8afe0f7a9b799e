package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"workflow-runchart/internal/chart/adapter"
	"workflow-runchart/internal/chart/pagination"
	"workflow-runchart/internal/chart/parser"
	"workflow-runchart/internal/chart/repository"
	"workflow-runchart/pkg/logger"
	"workflow-runchart/pkg/metrics"
)

// Navigation is a single pagination step requested by the viewer.
type Navigation string

const (
	NavNone     Navigation = ""
	NavBackward Navigation = "prev"
	NavForward  Navigation = "next"
)

// PageRequest identifies the page a viewer wants. A nil Cursor means "latest page".
type PageRequest struct {
	LoadID string
	Cursor *int
	Nav    Navigation
}

// Page is a rendered window plus the load it came from.
type Page struct {
	LoadID  string
	View    *adapter.View
	Summary parser.Summary
	// FetchError is set when the feed could not be loaded; the view is then empty.
	FetchError string
}

// ChartService loads the run history feed and serves paginated chart views.
type ChartService interface {
	Load(ctx context.Context) (*repository.Session, error)
	Page(ctx context.Context, req PageRequest) (*Page, error)
}

// NewChartService creates a new chart service.
func NewChartService(feedRepo repository.FeedRepository, sessionRepo repository.SessionRepository, logger *logger.Logger, pageSize int, loc *time.Location) ChartService {
	return &chartService{
		feedRepo:    feedRepo,
		sessionRepo: sessionRepo,
		logger:      logger,
		pageSize:    pageSize,
		opts:        adapter.Options{Location: loc},
		now:         time.Now,
	}
}

type chartService struct {
	feedRepo    repository.FeedRepository
	sessionRepo repository.SessionRepository
	logger      *logger.Logger
	pageSize    int
	opts        adapter.Options
	now         func() time.Time
}

// Load fetches and parses the feed once and stores the result under a new load ID.
func (s *chartService) Load(ctx context.Context) (*repository.Session, error) {
	start := s.now()
	raw, err := s.feedRepo.Fetch(ctx)
	if err != nil {
		metrics.ObserveFeedFetch(time.Since(start), 0, err)
		s.logger.Error("Error fetching data", logger.ErrorField(err))
		return nil, err
	}

	records := parser.Parse(raw)
	for _, r := range records {
		if !r.HasTimestamp() {
			s.logger.Warn("Run has an unparsable timestamp", logger.StringField("run_number", r.RunNumber))
		}
	}
	metrics.ObserveFeedFetch(time.Since(start), len(records), nil)

	session := &repository.Session{
		ID:       uuid.NewString(),
		LoadedAt: start,
		Records:  records,
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		s.logger.Error("Failed to store chart session", logger.ErrorField(err), logger.StringField("load_id", session.ID))
		return nil, err
	}

	s.logger.Info("Run history loaded", logger.StringField("load_id", session.ID), logger.IntField("records", len(records)))
	return session, nil
}

// Page resolves the requested load (loading a fresh one when it is missing), moves
// the cursor and builds the view. A failed fetch is not an error: the page is empty.
func (s *chartService) Page(ctx context.Context, req PageRequest) (*Page, error) {
	session, err := s.session(ctx, req.LoadID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		empty := pagination.New(0, s.pageSize)
		return &Page{
			View:       adapter.Build(nil, empty, s.opts),
			FetchError: err.Error(),
		}, nil
	}

	p := pagination.New(len(session.Records), s.pageSize)
	if req.Cursor != nil && session.ID == req.LoadID {
		p.Seek(*req.Cursor)
	}
	switch req.Nav {
	case NavBackward:
		p.Backward()
	case NavForward:
		p.Forward()
	}

	return &Page{
		LoadID:  session.ID,
		View:    adapter.Build(session.Records, p, s.opts),
		Summary: parser.Summarize(session.Records),
	}, nil
}

func (s *chartService) session(ctx context.Context, loadID string) (*repository.Session, error) {
	if loadID == "" {
		return s.Load(ctx)
	}
	session, err := s.sessionRepo.Get(ctx, loadID)
	if err == nil {
		return session, nil
	}
	if errors.Is(err, repository.ErrSessionNotFound) {
		s.logger.Info("Chart session expired, reloading feed", logger.StringField("load_id", loadID))
	} else {
		s.logger.Error("Failed to read chart session", logger.ErrorField(err), logger.StringField("load_id", loadID))
	}
	return s.Load(ctx)
}
