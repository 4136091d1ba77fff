package telemetry

import (
	"context"
	"log/slog"
	"strings"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionreport"
	apperrors "github.com/yanqian/cosmo-uplink/pkg/errors"
	"github.com/yanqian/cosmo-uplink/pkg/util"
)

// Service exposes the simulated dashboard readings and the specimen catalog.
type Service interface {
	Snapshot(ctx context.Context) Snapshot
	DefaultReportRequest(ctx context.Context) missionreport.ReportRequest
	Specimens(ctx context.Context, rarity string) ([]Specimen, error)
	Specimen(ctx context.Context, id string) (Specimen, error)
}

type service struct {
	cfg       Config
	specimens []Specimen
	logger    *slog.Logger
}

// NewService wires the telemetry domain.
func NewService(cfg Config, logger *slog.Logger) Service {
	return &service{
		cfg:       cfg,
		specimens: specimens,
		logger:    logger.With("component", "telemetry.service"),
	}
}

func (s *service) Snapshot(_ context.Context) Snapshot {
	return Snapshot{
		Zone:              s.cfg.Zone,
		Weather:           s.weather(),
		RadiationCategory: radiationCategory(s.cfg.Radiation),
		Purity:            s.cfg.Purity,
		Solar: SolarActivity{
			FlarePercent: s.cfg.SolarFlares,
			Class:        s.cfg.SolarClass,
		},
		Density: DensityRange{
			Min:     s.cfg.DensityMin,
			Current: s.cfg.DensityNow,
			Max:     s.cfg.DensityMax,
		},
		MineralRatio: s.cfg.MineralRatio,
		Minerals:     s.minerals(),
	}
}

// DefaultReportRequest is the request issued when the operator does not
// supply their own readings.
func (s *service) DefaultReportRequest(_ context.Context) missionreport.ReportRequest {
	return missionreport.ReportRequest{
		Zone:     s.cfg.Zone,
		Weather:  s.weather(),
		Minerals: s.minerals(),
	}
}

func (s *service) Specimens(_ context.Context, rarity string) ([]Specimen, error) {
	filter := strings.TrimSpace(rarity)
	if filter == "" {
		out := make([]Specimen, len(s.specimens))
		copy(out, s.specimens)
		return out, nil
	}
	want, ok := parseRarity(filter)
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "rarity must be one of Common, Rare, Exotic", nil)
	}
	out := make([]Specimen, 0, len(s.specimens))
	for _, sp := range s.specimens {
		if sp.Rarity == want {
			out = append(out, sp)
		}
	}
	return out, nil
}

func (s *service) Specimen(_ context.Context, id string) (Specimen, error) {
	needle := strings.TrimSpace(id)
	for _, sp := range s.specimens {
		if strings.EqualFold(sp.ID, needle) {
			return sp, nil
		}
	}
	s.logger.Debug("specimen lookup missed", "id", needle)
	return Specimen{}, apperrors.Wrap(apperrors.CodeNotFound, "specimen not found", nil)
}

func (s *service) weather() missionreport.WeatherReading {
	return missionreport.WeatherReading{
		Wind:        s.cfg.Wind,
		Temperature: s.cfg.Temperature,
		Radiation:   s.cfg.Radiation,
	}
}

func (s *service) minerals() []string {
	return util.CleanList(s.cfg.Minerals)
}

func parseRarity(value string) (Rarity, bool) {
	for _, r := range []Rarity{RarityCommon, RarityRare, RarityExotic} {
		if strings.EqualFold(string(r), value) {
			return r, true
		}
	}
	return "", false
}

// radiationCategory buckets a dose rate in µSv/h.
func radiationCategory(usv float64) string {
	switch {
	case usv < 0.3:
		return "nominal"
	case usv < 1:
		return "elevated"
	case usv < 10:
		return "high"
	default:
		return "severe"
	}
}
