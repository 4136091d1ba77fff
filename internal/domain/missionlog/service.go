package missionlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionreport"
	apperrors "github.com/yanqian/cosmo-uplink/pkg/errors"
	"github.com/yanqian/cosmo-uplink/pkg/metrics"
	"github.com/yanqian/cosmo-uplink/pkg/util"
)

const maxRecentLimit = 100

// Service implements the "Save to Log" flow and log browsing.
type Service interface {
	SaveCurrent(ctx context.Context) (Entry, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Get(ctx context.Context, id string) (Entry, error)
	Transcript(ctx context.Context, id string) (io.ReadCloser, error)
}

type service struct {
	cfg     Config
	source  ReportSource
	store   Store
	archive Archive
	counter TokenCounter
	logger  *slog.Logger
	now     func() time.Time
	newID   func() uuid.UUID
}

// NewService wires the mission log domain.
func NewService(cfg Config, source ReportSource, store Store, archive Archive, counter TokenCounter, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		source:  source,
		store:   store,
		archive: archive,
		counter: counter,
		logger:  logger.With("component", "missionlog.service"),
		now:     util.NowUTC,
		newID:   uuid.New,
	}
}

// SaveCurrent stores the ready report and then returns the view to idle.
// The view is left untouched when nothing could be saved.
func (s *service) SaveCurrent(ctx context.Context) (Entry, error) {
	state := s.source.State()
	if state.Status != missionreport.StatusReady {
		return Entry{}, apperrors.Wrap(apperrors.CodeNoReport, "no report is ready to be saved", nil)
	}

	entry := s.buildEntry(state)
	if s.archive != nil {
		key := fmt.Sprintf("transmissions/%s/%s.txt", entry.CreatedAt.Format("2006-01-02"), entry.ID)
		obj, err := s.archive.Put(ctx, key, []byte(entry.Report), "text/plain; charset=utf-8")
		if err != nil {
			s.logger.Warn("transmission archive failed", "id", entry.ID, "error", err)
		} else {
			entry.ArchiveKey = obj.Key
		}
	}

	if err := s.store.Save(ctx, entry); err != nil {
		return Entry{}, apperrors.Wrap(apperrors.CodeLogError, "failed to save transmission", err)
	}
	s.logger.Info("transmission saved", "id", entry.ID, "zone", entry.Zone, "outcome", entry.Outcome)

	if _, ok := s.source.Acknowledge(state.Version); !ok {
		s.logger.Info("view state moved on before acknowledgement", "id", entry.ID)
	}
	return entry, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.cfg.RecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	entries, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLogError, "failed to list transmissions", err)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

func (s *service) Get(ctx context.Context, id string) (Entry, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return Entry{}, apperrors.Wrap(apperrors.CodeInvalidInput, "id must be a uuid", err)
	}
	entry, found, err := s.store.Get(ctx, parsed)
	if err != nil {
		return Entry{}, apperrors.Wrap(apperrors.CodeLogError, "failed to load transmission", err)
	}
	if !found {
		return Entry{}, apperrors.Wrap(apperrors.CodeNotFound, "transmission not found", nil)
	}
	return entry, nil
}

// Transcript opens the archived copy of a saved transmission.
func (s *service) Transcript(ctx context.Context, id string) (io.ReadCloser, error) {
	entry, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.archive == nil || entry.ArchiveKey == "" {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "transmission was not archived", nil)
	}
	rc, err := s.archive.Open(ctx, entry.ArchiveKey)
	if errors.Is(err, ErrObjectNotFound) {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "archived transmission missing", err)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeArchiveError, "failed to open archived transmission", err)
	}
	return rc, nil
}

func (s *service) buildEntry(state missionreport.State) Entry {
	entry := Entry{
		ID:        s.newID(),
		Report:    state.Report,
		Outcome:   missionreport.ClassifyResult(state.Report),
		CreatedAt: s.now(),
	}
	if state.Request != nil {
		entry.Zone = state.Request.Zone
		entry.Weather = state.Request.Weather
		entry.Minerals = append([]string(nil), state.Request.Minerals...)
	}
	if entry.Minerals == nil {
		entry.Minerals = []string{}
	}
	if s.counter != nil && state.Request != nil && entry.Outcome == missionreport.OutcomeGenerated {
		prompt := s.counter.Count(missionreport.BuildPrompt(*state.Request))
		completion := s.counter.Count(state.Report)
		entry.TokenUsage = metrics.Usage(prompt, completion).OrNil()
	}
	return entry
}
