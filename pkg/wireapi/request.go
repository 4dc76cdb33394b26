// Package wireapi defines the JSON request/result records exchanged with
// the enqueue/dequeue transport surrounding the engine; only the shapes are
// specified here, not the queue itself (out of scope).
package wireapi

// UniquenessRequest is the inbound record describing one uniqueness check:
// where to fetch each party's encrypted share bundle and how to verify it.
type UniquenessRequest struct {
	SignupID             string    `json:"signup_id"`
	S3PresignedURL       string    `json:"s3_presigned_url"`
	IrisSharesFileHashes [3]string `json:"iris_shares_file_hashes"`
	BatchSize            *uint32   `json:"batch_size,omitempty"`
}

// UniquenessResult is the outbound record reporting the outcome of one
// UniquenessRequest: the matching database index, or none if the iris is
// unique.
type UniquenessResult struct {
	RequestID string  `json:"request_id"`
	DBIndex   *uint32 `json:"db_index,omitempty"`
}
