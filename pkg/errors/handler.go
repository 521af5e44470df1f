package errors

import "net/http"

// HTTPStatus maps an error to the status the internal HTTP surface returns
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeValidation, ErrorTypeTransformation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine-readable code of err, falling back to its type
func Code(err error) string {
	if appErr := GetAppError(err); appErr != nil {
		if appErr.Code != "" {
			return appErr.Code
		}
		return string(appErr.Type)
	}
	return string(ErrorTypeInternal)
}
