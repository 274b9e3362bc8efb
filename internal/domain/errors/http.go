package errors

import (
	"net/http"
)

// ToHTTPStatus converts an error code to an HTTP status code.
func ToHTTPStatus(code string) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeRemote:
		return http.StatusBadGateway
	case CodePersistence, CodeConfiguration:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HTTPStatusOf maps err straight to an HTTP status code.
func HTTPStatusOf(err error) int {
	return ToHTTPStatus(CodeOf(err))
}
