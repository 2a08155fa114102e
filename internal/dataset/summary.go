package dataset

import (
	"strconv"
	"strings"

	"scamlab-go/internal/logger"
)

// Summary is the compact dataset digest logged at startup and served by the
// stats endpoint.
type Summary struct {
	TotalCalls    int            `json:"total_calls"`
	ByScenario    map[string]int `json:"by_scenario"`
	ByResponse    map[string]int `json:"by_response"`
	AvgCallLength float64        `json:"avg_call_length_s"`
	ShareGaveInfo float64        `json:"share_gave_information"`
}

// Summarize derives the digest from the full row set. Call lengths that do
// not parse as numbers are excluded from the average.
func Summarize(rows []Row) Summary {
	log := logger.New().WithComponent("dataset.summary")

	s := Summary{
		TotalCalls: len(rows),
		ByScenario: map[string]int{},
		ByResponse: map[string]int{},
	}
	var lengthSum float64
	var lengthN, gaveInfo int
	for _, r := range rows {
		if r.Scenario != "" {
			s.ByScenario[r.Scenario]++
		}
		if r.Response != "" {
			s.ByResponse[r.Response]++
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(r.CallLength), 64); err == nil {
			lengthSum += v
			lengthN++
		}
		if strings.EqualFold(strings.TrimSpace(r.GaveInformation), "true") {
			gaveInfo++
		}
	}
	if lengthN > 0 {
		s.AvgCallLength = lengthSum / float64(lengthN)
	}
	if len(rows) > 0 {
		s.ShareGaveInfo = float64(gaveInfo) / float64(len(rows))
	}

	log.WithFields(map[string]interface{}{
		"total_calls": s.TotalCalls,
		"scenarios":   len(s.ByScenario),
		"responses":   len(s.ByResponse),
	}).Info("dataset summarized")
	return s
}
