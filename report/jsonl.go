package report

import (
	"io"

	json "github.com/goccy/go-json"
	"github.com/notargets/ktune/runner"
	"github.com/notargets/ktune/runner/builder"
)

type jsonRow struct {
	Type     string         `json:"type"`
	Index    int            `json:"index"`
	Config   map[string]int `json:"config"`
	Global   []int          `json:"global"`
	Local    []int          `json:"local"`
	Mean     string         `json:"mean"`
	MeanNS   int64          `json:"mean_ns"`
	MinNS    int64          `json:"min_ns"`
	MaxNS    int64          `json:"max_ns"`
	StdDevS  float64        `json:"stddev_s"`
	Runs     int            `json:"runs"`
	Failed   bool           `json:"failed,omitempty"`
	ErrorMsg string         `json:"error,omitempty"`
}

type jsonSummary struct {
	Type      string `json:"type"`
	Session   string `json:"session"`
	Kernel    string `json:"kernel"`
	Visited   int    `json:"visited"`
	Measured  int    `json:"measured"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	ElapsedNS int64  `json:"elapsed_ns"`
	Best      []int  `json:"best"`
}

// JSONLines writes one JSON object per measured configuration and a
// closing summary object
type JSONLines struct {
	enc *json.Encoder
}

// NewJSONLines creates a JSON lines sink
func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{enc: json.NewEncoder(w)}
}

// Begin writes nothing; every row carries its names
func (j *JSONLines) Begin([]builder.Dimension) error { return nil }

// Row writes one row object
func (j *JSONLines) Row(row runner.Row) error {
	m := row.Measurement
	return j.enc.Encode(jsonRow{
		Type:    "row",
		Index:   row.Index,
		Config:  row.Config.Defines(),
		Global:  row.Geometry.Global,
		Local:   row.Geometry.Local,
		Mean:    runner.FormatSeconds(m.Mean),
		MeanNS:  m.Mean.Nanoseconds(),
		MinNS:   m.Min().Nanoseconds(),
		MaxNS:   m.Max().Nanoseconds(),
		StdDevS: m.StdDev(),
		Runs:    len(m.Runs),
	})
}

// Skip writes configurations the backend failed on; constraint violations
// produce nothing
func (j *JSONLines) Skip(out runner.Outcome) error {
	if out.Status != runner.Failed {
		return nil
	}
	row := jsonRow{
		Type:   "failed",
		Index:  out.Index,
		Config: out.Config.Defines(),
		Failed: true,
	}
	if out.Err != nil {
		row.ErrorMsg = out.Err.Error()
	}
	return j.enc.Encode(row)
}

// End writes the summary; best lists row indices, fastest first
func (j *JSONLines) End(sum runner.Summary) error {
	best := make([]int, len(sum.Best))
	for i, r := range sum.Best {
		best[i] = r.Index
	}
	return j.enc.Encode(jsonSummary{
		Type:      "summary",
		Session:   sum.SessionID.String(),
		Kernel:    sum.Kernel,
		Visited:   sum.Visited,
		Measured:  sum.Measured,
		Skipped:   sum.Skipped,
		Failed:    sum.Failed,
		ElapsedNS: sum.Elapsed.Nanoseconds(),
		Best:      best,
	})
}
