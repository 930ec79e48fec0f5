package commons

// Response is the envelope for every reply this service writes. Webhook
// acknowledgements carry no data, only an outcome message.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse(message string) Response {
	return Response{
		Success: true,
		Message: message,
	}
}

func ErrorResponse(message string, errors ...string) Response {
	return Response{
		Success: false,
		Message: message,
		Errors:  errors,
	}
}
