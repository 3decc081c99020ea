package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func init() {
	configureValidator(validate)
}

type Struct any

// Response is the envelope every endpoint answers with
type Response struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
}

// ErrorResponse keeps the same shape plus the error detail list
type ErrorResponse struct {
	Success    bool     `json:"success"`
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors"`
}

// Data renders a success envelope with the given status code
func Data(w http.ResponseWriter, code int, data any, message string) {
	jsonWithStatus(w, Response{
		Success:    true,
		StatusCode: code,
		Data:       data,
		Message:    message,
	}, code)
}

// Error renders the error envelope with the declared status code
func Error(w http.ResponseWriter, code int, message string, errs ...string) {
	if errs == nil {
		errs = []string{}
	}
	jsonWithStatus(w, ErrorResponse{
		Success:    false,
		StatusCode: code,
		Message:    message,
		Errors:     errs,
	}, code)
}

// DecodeError renders a 400 for unparseable request bodies
func DecodeError(w http.ResponseWriter, err error) {
	var message string

	// Try to provide more specific error message based on error type
	switch err := err.(type) {
	case *json.UnmarshalTypeError:
		message = fmt.Sprintf("Invalid data type for field '%s'", err.Field)
	default:
		message = fmt.Sprintf("Failed to parse JSON: %s", err.Error())
	}

	Error(w, http.StatusBadRequest, message)
}

// ValidationErrors renders a 400 listing every failed field
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	details := make([]string, 0, len(errs))

	// Create user-friendly error messages based on validation tag
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "this field is required"
		case "min":
			message = fmt.Sprintf("value is too short (minimum %s)", fieldError.Param())
		case "max":
			message = fmt.Sprintf("value is too long (maximum %s)", fieldError.Param())
		case "email":
			message = "must be a valid email address"
		default:
			message = "invalid value"
		}

		details = append(details, fmt.Sprintf("%s: %s", fieldError.Field(), message))
	}

	Error(w, http.StatusBadRequest, "Request validation failed", details...)
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	err = validate.Struct(value)
	if err != nil {
		// pretty sure cast will be ok cause expecting T is valid struct
		errs := err.(validator.ValidationErrors)
		ValidationErrors(w, errs)
		return value, err
	}

	return value, nil
}

// ValidateStruct validates an already-bound value, rendering the field
// errors on failure. Used by handlers that read multipart forms instead
// of a JSON body.
func ValidateStruct(w http.ResponseWriter, value Struct) error {
	if err := validate.Struct(value); err != nil {
		ValidationErrors(w, err.(validator.ValidationErrors))
		return err
	}
	return nil
}

// jsonWithStatus sends data as json and enforces status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
