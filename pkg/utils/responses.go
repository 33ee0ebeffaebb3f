package utils

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Status  bool   `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// ResponseJSON writes JSON response with custom status code
func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errors any) {
	writeJSON(w, code, Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errors,
	})
}

func writeJSON(w http.ResponseWriter, code int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, true, message, data, nil)
}

// ------------- Error responses -------------

// ResponseError writes a failure carrying a machine-readable code.
func ResponseError(w http.ResponseWriter, httpCode int, code, message string, errors any) {
	writeJSON(w, httpCode, Response{
		Status:  false,
		Code:    code,
		Message: message,
		Errors:  errors,
	})
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseError(w, http.StatusBadRequest, "VALIDATION_ERROR", message, errors)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// returns 409 Conflict
func ResponseConflict(w http.ResponseWriter, code, message string, errors any) {
	ResponseError(w, http.StatusConflict, code, message, errors)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}
