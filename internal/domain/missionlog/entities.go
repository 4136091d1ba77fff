package missionlog

import (
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/cosmo-uplink/internal/domain/missionreport"
	"github.com/yanqian/cosmo-uplink/pkg/metrics"
)

// Entry is a transmission the operator chose to keep.
type Entry struct {
	ID         uuid.UUID                    `json:"id"`
	Zone       string                       `json:"zone"`
	Weather    missionreport.WeatherReading `json:"weather"`
	Minerals   []string                     `json:"minerals"`
	Report     string                       `json:"report"`
	Outcome    missionreport.Outcome        `json:"outcome"`
	TokenUsage *metrics.TokenUsage          `json:"tokenUsage,omitempty"`
	ArchiveKey string                       `json:"archiveKey,omitempty"`
	CreatedAt  time.Time                    `json:"createdAt"`
}

// StoredObject describes an archived transmission.
type StoredObject struct {
	Key      string
	Size     int64
	MimeType string
	ETag     string
}

// Config tunes the log service.
type Config struct {
	RecentLimit int
}
