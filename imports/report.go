package imports

type AcceptedRow struct {
	Row int    `json:"row"`
	Uid string `json:"uid"`
}

type RejectedRow struct {
	Row    int      `json:"row"`
	Uid    string   `json:"uid,omitempty"`
	Errors []string `json:"errors"`
}

// Report accumulates per-row outcomes across the whole run.
type Report struct {
	TotalRows int           `json:"totalRows"`
	Accepted  []AcceptedRow `json:"accepted"`
	Rejected  []RejectedRow `json:"rejected"`
}

func NewReport() *Report {
	return &Report{
		Accepted: []AcceptedRow{},
		Rejected: []RejectedRow{},
	}
}

func (r *Report) Accept(row int, uid string) {
	r.Accepted = append(r.Accepted, AcceptedRow{Row: row, Uid: uid})
}

func (r *Report) Reject(row int, uid string, errs []string) {
	r.Rejected = append(r.Rejected, RejectedRow{Row: row, Uid: uid, Errors: errs})
}

// RejectRow moves an already-accepted row to the rejected list. Used
// when a batch transaction fails after rows were provisionally accepted.
func (r *Report) RejectAccepted(row int, reason string) {
	for i, a := range r.Accepted {
		if a.Row == row {
			r.Accepted = append(r.Accepted[:i], r.Accepted[i+1:]...)
			r.Reject(row, a.Uid, []string{reason})
			return
		}
	}
}

type HeaderMappingSummary struct {
	RawHeaders        []string          `json:"rawHeaders"`
	NormalizedHeaders map[string]string `json:"normalizedHeaders"`
}

// DryRunResult is returned when the caller asked for the report without
// persistence.
type DryRunResult struct {
	DryRun        bool                 `json:"dryRun"`
	Report        *Report              `json:"report"`
	HeaderMapping HeaderMappingSummary `json:"headerMapping"`
}

type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult is the non-dry-run response shape.
type ImportResult struct {
	Success          bool       `json:"success"`
	RecordsProcessed int        `json:"recordsProcessed"`
	RecordsFailed    int        `json:"recordsFailed"`
	EntitiesDetected int        `json:"entitiesDetected"`
	Errors           []RowError `json:"errors"`
	ImportJobId      int        `json:"importJobId,omitempty"`
}

// BuildResult flattens the report into the caller-facing summary,
// carrying at most the first 10 row errors.
func BuildResult(report *Report, entitiesDetected int) ImportResult {
	result := ImportResult{
		Success:          true,
		RecordsProcessed: len(report.Accepted),
		RecordsFailed:    len(report.Rejected),
		EntitiesDetected: entitiesDetected,
		Errors:           []RowError{},
	}
	for _, rejected := range report.Rejected {
		if len(result.Errors) >= 10 {
			break
		}
		msg := ""
		if len(rejected.Errors) > 0 {
			msg = rejected.Errors[0]
		}
		result.Errors = append(result.Errors, RowError{Row: rejected.Row, Error: msg})
	}
	return result
}
