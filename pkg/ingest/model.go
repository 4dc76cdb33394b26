package ingest

// Eye discriminates which eye a share field belongs to, the typed
// counterpart to indexing IrisCodesJSON's left/right fields with a raw
// string.
type Eye int

const (
	EyeLeft Eye = iota
	EyeRight
)

func (e Eye) String() string {
	if e == EyeRight {
		return "right"
	}
	return "left"
}

// IrisCodesJSON is the inner plaintext of a sealed-box ingestion envelope:
// one party's share of an iris record, field names matching the wire
// format exactly so canonical JSON re-serialization reproduces the
// original bytes for hashing.
type IrisCodesJSON struct {
	IrisVersion         string `json:"iris_version"`
	IrisSharesVersion   string `json:"iris_shares_version"`
	LeftIrisCodeShares  string `json:"left_iris_code_shares"`
	RightIrisCodeShares string `json:"right_iris_code_shares"`
	LeftMaskCodeShares  string `json:"left_mask_code_shares"`
	RightMaskCodeShares string `json:"right_mask_code_shares"`
}

// CodeShares returns the base64 code-share payload for the requested eye.
func (r IrisCodesJSON) CodeShares(eye Eye) string {
	if eye == EyeRight {
		return r.RightIrisCodeShares
	}
	return r.LeftIrisCodeShares
}

// MaskShares returns the base64 mask-share payload for the requested eye.
func (r IrisCodesJSON) MaskShares(eye Eye) string {
	if eye == EyeRight {
		return r.RightMaskCodeShares
	}
	return r.LeftMaskCodeShares
}
