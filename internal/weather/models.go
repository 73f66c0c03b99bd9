package weather

import "encoding/json"

// DailyVariables are the daily metrics requested from the archive, in the
// order their files are created.
var DailyVariables = []string{
	"temperature_2m_max",
	"temperature_2m_min",
	"temperature_2m_mean",
	"apparent_temperature_max",
	"apparent_temperature_min",
	"apparent_temperature_mean",
}

// Query identifies a location and an inclusive date range (YYYY-MM-DD).
// Values are forwarded to the archive API verbatim.
type Query struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Location is a coordinate pair tracked by the scheduler.
type Location struct {
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// Key returns a canonical string key for logging.
func (l Location) Key() string {
	return l.Latitude + ":" + l.Longitude
}

// ArchiveResponse is the raw daily payload returned by the archive API.
// Daily entries are kept undecoded until a series is built from them.
type ArchiveResponse struct {
	Daily      map[string]json.RawMessage `json:"daily"`
	DailyUnits map[string]string          `json:"daily_units"`
}

// Series maps ISO dates to value-with-unit strings for one variable.
type Series struct {
	Variable string
	Values   map[string]string
}

// FileName is the object name the series is stored under.
func (s Series) FileName() string {
	return s.Variable + ".json"
}
