package dtos

// ----------------------
// Phone Verification
// ----------------------

// Phone arrives as the buyer typed it ("(555) 123-4567" or bare
// digits); conversion to E.164 happens server-side and rejects anything
// that is not exactly ten digits.

type RequestCodeRequest struct {
	Phone string `json:"phone" validate:"required"`
}
type RequestCodeResponse struct {
	Message string `json:"message"`
}

type CheckCodeRequest struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}
type CheckCodeResponse struct {
	Verified bool   `json:"verified"`
	Status   string `json:"status"`
}
