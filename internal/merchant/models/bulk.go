package models

// BulkFailure records one item that failed inside a best-effort bulk
// operation. Code is the merchant code the caller submitted, so failures
// can be matched back to input rows.
type BulkFailure struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// BulkResult is the discriminated aggregate every best-effort bulk
// operation returns. Items succeed or fail independently; the operation
// itself only fails on systemic conditions.
type BulkResult struct {
	SuccessCount int           `json:"successCount"`
	TotalCount   int           `json:"totalCount"`
	Failed       []BulkFailure `json:"failed"`
}

// PartialFailure reports whether some, but not all, items failed.
func (r BulkResult) PartialFailure() bool {
	return len(r.Failed) > 0 && r.SuccessCount > 0
}
