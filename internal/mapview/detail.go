package mapview

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/krople/gpsmapp/internal/models"
)

const (
	// DefaultTimeLayout is used for detail timestamps when none is configured.
	DefaultTimeLayout = "2006-01-02 15:04:05"
	// MapLinkFormat builds the external map deep link from latitude and longitude.
	MapLinkFormat = "https://www.google.com/maps?q=%.6f,%.6f"

	unknownValue = "unknown"
)

// Detail is the content of the tooltip/info panel attached to a marker.
type Detail struct {
	Title       string `json:"title,omitempty"`
	Time        string `json:"time"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	Accuracy    string `json:"accuracy,omitempty"`
	Altitude    string `json:"altitude,omitempty"`
	Address     string `json:"address,omitempty"`
	Description string `json:"description,omitempty"`
	MapURL      string `json:"map_url"`
}

// String renders the detail as plain text lines.
func (d Detail) String() string {
	var sb strings.Builder

	if d.Title != "" {
		fmt.Fprintf(&sb, "%s\n", d.Title)
	}
	fmt.Fprintf(&sb, "%s\n", d.Time)
	fmt.Fprintf(&sb, "%s, %s\n", d.Latitude, d.Longitude)
	var measures []string
	if d.Accuracy != "" {
		measures = append(measures, "accuracy: "+d.Accuracy)
	}
	if d.Altitude != "" {
		measures = append(measures, "altitude: "+d.Altitude)
	}
	if len(measures) > 0 {
		fmt.Fprintf(&sb, "%s\n", strings.Join(measures, ", "))
	}
	for _, line := range []string{d.Address, d.Description} {
		if line != "" {
			fmt.Fprintf(&sb, "%s\n", line)
		}
	}
	sb.WriteString(d.MapURL)

	return sb.String()
}

func buildDetail(record models.Location, loc *time.Location, layout string, address string) Detail {
	detail := Detail{
		Time:      record.Timestamp.In(loc).Format(layout),
		Latitude:  fmt.Sprintf("%.6f", record.Latitude),
		Longitude: fmt.Sprintf("%.6f", record.Longitude),
		Accuracy:  unknownValue,
		Address:   address,
		MapURL:    fmt.Sprintf(MapLinkFormat, record.Latitude, record.Longitude),
	}
	if record.Accuracy != nil {
		detail.Accuracy = meters(*record.Accuracy)
	}
	if record.Altitude != nil {
		detail.Altitude = meters(*record.Altitude)
	}

	return detail
}

func meters(v float64) string {
	return fmt.Sprintf("%dm", int64(math.Round(v)))
}
