package metar

import (
	"encoding/xml"
	"fmt"
	"io"
	"time"
)

// XML document shapes for the aviationweather.gov METAR feed.

type feedResponse struct {
	XMLName xml.Name   `xml:"response"`
	Data    feedData   `xml:"data"`
	Errors  feedErrors `xml:"errors"`
}

type feedData struct {
	METARs []feedMETAR `xml:"METAR"`
}

type feedErrors struct {
	Errors []string `xml:"error"`
}

type feedMETAR struct {
	StationID           string `xml:"station_id"`
	ObservationTime     string `xml:"observation_time"`
	TempC               string `xml:"temp_c"`
	DewpointC           string `xml:"dewpoint_c"`
	WindDirDegrees      string `xml:"wind_dir_degrees"`
	WindSpeedKt         string `xml:"wind_speed_kt"`
	VisibilityStatuteMi string `xml:"visibility_statute_mi"`
	AltimInHg           string `xml:"altim_in_hg"`
	FlightCategory      string `xml:"flight_category"`
	RawText             string `xml:"raw_text"`
}

// Parse decodes a METAR XML feed into observations.
//
// Records without a station id or a parseable observation time are skipped
// rather than failing the whole document; a partially usable feed is still
// usable.
func Parse(r io.Reader) ([]*Observation, error) {
	var doc feedResponse
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode metar feed: %w", err)
	}

	if len(doc.Errors.Errors) > 0 {
		return nil, fmt.Errorf("metar feed error: %s", doc.Errors.Errors[0])
	}

	observations := make([]*Observation, 0, len(doc.Data.METARs))
	for i := range doc.Data.METARs {
		m := &doc.Data.METARs[i]
		if m.StationID == "" || m.ObservationTime == "" {
			continue
		}

		obsTime, err := time.Parse(time.RFC3339, m.ObservationTime)
		if err != nil {
			continue
		}

		observations = append(observations, &Observation{
			StationID:           m.StationID,
			ObservationTime:     obsTime.UTC(),
			TempC:               m.TempC,
			DewpointC:           m.DewpointC,
			WindDirDegrees:      m.WindDirDegrees,
			WindSpeedKt:         m.WindSpeedKt,
			VisibilityStatuteMi: m.VisibilityStatuteMi,
			AltimInHg:           m.AltimInHg,
			FlightCategory:      m.FlightCategory,
			RawText:             m.RawText,
		})
	}

	return observations, nil
}
