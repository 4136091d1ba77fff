package missionreport

import "time"

// Sentinel texts shown in place of a generated report.
const (
	LinkUnavailableText    = "Unable to establish link with orbit. Report generation failed."
	CommunicationErrorText = "COMMUNICATION ERROR: Offline mode active. Cached data unavailable."
)

// WeatherReading is the environment snapshot embedded in a report request.
type WeatherReading struct {
	Wind        float64 `json:"wind"`
	Temperature float64 `json:"temperature"`
	Radiation   float64 `json:"radiation"`
}

// ReportRequest carries everything the prompt is built from.
type ReportRequest struct {
	Zone     string         `json:"zone"`
	Weather  WeatherReading `json:"weather"`
	Minerals []string       `json:"minerals"`
}

func (r ReportRequest) clone() ReportRequest {
	if r.Minerals != nil {
		r.Minerals = append([]string(nil), r.Minerals...)
	}
	return r
}

// Outcome classifies a report string without altering it.
type Outcome string

const (
	OutcomeGenerated          Outcome = "generated"
	OutcomeLinkUnavailable    Outcome = "link_unavailable"
	OutcomeCommunicationError Outcome = "communication_error"
)

// ClassifyResult reports which kind of text a generator produced.
func ClassifyResult(text string) Outcome {
	switch text {
	case LinkUnavailableText:
		return OutcomeLinkUnavailable
	case CommunicationErrorText:
		return OutcomeCommunicationError
	default:
		return OutcomeGenerated
	}
}

// Status is the view-state tag.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
)

// State is the view state exposed to the presentation surface.
// Report is only set when Status is StatusReady.
type State struct {
	Status    Status         `json:"status"`
	Report    string         `json:"report,omitempty"`
	Request   *ReportRequest `json:"request,omitempty"`
	Version   uint64         `json:"version"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Config wires runtime dependencies for report generation.
type Config struct {
	Model        string
	Temperature  float32
	SystemPrompt string
}
