package response

// Response is the envelope every service operation returns.
type Response struct {
	IsSuccess bool   `json:"isSuccess"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Result    any    `json:"result,omitempty"`

	status Status
}

// New builds the envelope for status with an optional result body.
func New(status Status, result ...any) Response {
	r := Response{
		IsSuccess: status.IsSuccess(),
		Code:      status.Code(),
		Message:   status.Message(),
		status:    status,
	}
	if len(result) > 0 {
		r.Result = result[0]
	}
	return r
}

// Status returns the status the envelope was built from.
func (r Response) Status() Status {
	return r.status
}
