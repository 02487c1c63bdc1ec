package server

// APIResponse is the uniform envelope for all JSON endpoints. Status is 0 on
// success and mirrors the HTTP status code on failure.
type APIResponse struct {
	Status int         `json:"status"`
	Msg    string      `json:"msg"`
	Data   interface{} `json:"data,omitempty"`
}

// SuccessResponse wraps a payload in a success envelope.
func SuccessResponse(data interface{}) APIResponse {
	return APIResponse{Status: 0, Msg: "ok", Data: data}
}

// ErrorResponse builds a failure envelope carrying the HTTP status code.
func ErrorResponse(status int, msg string) APIResponse {
	return APIResponse{Status: status, Msg: msg}
}
