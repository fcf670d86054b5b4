package domain

// RunStatus represents the lifecycle of a queued verification run.
type RunStatus string

const (
	RunStatusQueued     RunStatus = "queued"
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// ResultStatus is the coarse status vocabulary the review UI renders.
type ResultStatus string

const (
	ResultStatusValid        ResultStatus = "valid"
	ResultStatusWarning      ResultStatus = "warning"
	ResultStatusInvalid      ResultStatus = "invalid"
	ResultStatusUnverifiable ResultStatus = "unverifiable"
)

// resultStatusByVerdict collapses engine verdicts onto ResultStatus.
var resultStatusByVerdict = map[string]ResultStatus{
	"confirmed":         ResultStatusValid,
	"minor_discrepancy": ResultStatusWarning,
	"contradicted":      ResultStatusInvalid,
	"unverifiable":      ResultStatusUnverifiable,
}

// ResultStatusFor maps an engine verdict name to its UI status.
// Unknown verdicts are reported as unverifiable.
func ResultStatusFor(verdict string) ResultStatus {
	if s, ok := resultStatusByVerdict[verdict]; ok {
		return s
	}
	return ResultStatusUnverifiable
}
