package logstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionlog"
	"github.com/yanqian/cosmo-uplink/internal/domain/missionreport"
	"github.com/yanqian/cosmo-uplink/pkg/metrics"
)

// entryRow is the flat shape shared by the SQL backends.
type entryRow struct {
	ID               string    `db:"id"`
	Zone             string    `db:"zone"`
	Wind             float64   `db:"wind"`
	Temperature      float64   `db:"temperature"`
	Radiation        float64   `db:"radiation"`
	MineralsJSON     string    `db:"minerals_json"`
	Report           string    `db:"report"`
	Outcome          string    `db:"outcome"`
	PromptTokens     int       `db:"prompt_tokens"`
	CompletionTokens int       `db:"completion_tokens"`
	ArchiveKey       string    `db:"archive_key"`
	CreatedAt        time.Time `db:"-"`
}

func toRow(entry missionlog.Entry) (entryRow, error) {
	minerals := entry.Minerals
	if minerals == nil {
		minerals = []string{}
	}
	payload, err := json.Marshal(minerals)
	if err != nil {
		return entryRow{}, fmt.Errorf("encode minerals: %w", err)
	}
	row := entryRow{
		ID:           entry.ID.String(),
		Zone:         entry.Zone,
		Wind:         entry.Weather.Wind,
		Temperature:  entry.Weather.Temperature,
		Radiation:    entry.Weather.Radiation,
		MineralsJSON: string(payload),
		Report:       entry.Report,
		Outcome:      string(entry.Outcome),
		ArchiveKey:   entry.ArchiveKey,
		CreatedAt:    entry.CreatedAt.UTC(),
	}
	if entry.TokenUsage != nil {
		row.PromptTokens = entry.TokenUsage.PromptTokens
		row.CompletionTokens = entry.TokenUsage.CompletionTokens
	}
	return row, nil
}

func (r entryRow) toEntry() (missionlog.Entry, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return missionlog.Entry{}, fmt.Errorf("parse entry id: %w", err)
	}
	minerals := []string{}
	if r.MineralsJSON != "" {
		if err := json.Unmarshal([]byte(r.MineralsJSON), &minerals); err != nil {
			return missionlog.Entry{}, fmt.Errorf("decode minerals: %w", err)
		}
	}
	entry := missionlog.Entry{
		ID:   id,
		Zone: r.Zone,
		Weather: missionreport.WeatherReading{
			Wind:        r.Wind,
			Temperature: r.Temperature,
			Radiation:   r.Radiation,
		},
		Minerals:   minerals,
		Report:     r.Report,
		Outcome:    missionreport.Outcome(r.Outcome),
		ArchiveKey: r.ArchiveKey,
		CreatedAt:  r.CreatedAt.UTC(),
	}
	entry.TokenUsage = metrics.Usage(r.PromptTokens, r.CompletionTokens).OrNil()
	return entry, nil
}
