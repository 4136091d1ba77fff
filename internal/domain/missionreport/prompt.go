package missionreport

import (
	"fmt"
	"strconv"
	"strings"
)

const promptTemplate = `Act as a planetary geologist AI system "COSMO".
Generate a concise, technical field report for %s.
Data:
- Wind: %s km/h
- Temp: %s °F
- Radiation: %s µSv
- Dominant Minerals: %s.

Format the response as a short scientific status update (max 100 words) focusing on safety and sample viability.
Do not use markdown formatting like **bold**, just plain text.`

// BuildPrompt renders the field-report instruction for req. It never fails:
// an empty mineral list renders as an empty segment.
func BuildPrompt(req ReportRequest) string {
	return fmt.Sprintf(promptTemplate,
		req.Zone,
		formatReading(req.Weather.Wind),
		formatReading(req.Weather.Temperature),
		formatReading(req.Weather.Radiation),
		strings.Join(req.Minerals, ", "),
	)
}

func formatReading(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
