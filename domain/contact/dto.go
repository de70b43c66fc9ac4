package contact

import (
	"bytes"
	"encoding/json"
)

// SubmitContactRequest is the JSON body of a contact submission. Each validation
// pass reads its own tag: presence, then format, then length.
type SubmitContactRequest struct {
	Name    string `json:"name" presence:"required" length:"max=100"`
	Email   string `json:"email" presence:"required" format:"contact_email" length:"max=255"`
	Message string `json:"message" presence:"required" length:"max=2000"`
}

// UnmarshalJSON rejects a literal null body, which would otherwise decode into an
// empty request and be reported as missing fields rather than as unparsable.
func (r *SubmitContactRequest) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return ErrNullBody
	}

	type plain SubmitContactRequest
	return json.Unmarshal(data, (*plain)(r))
}

type SubmitContactResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
