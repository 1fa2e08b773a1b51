package httpx

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Transport-level error codes. Rule violations reuse the engine's rejection
// codes verbatim, so clients see one stable vocabulary.
const (
	codeGameNotFound      = "GAME_NOT_FOUND"
	codeInvalidRequest    = "INVALID_REQUEST"
	codeInvalidFEN        = "INVALID_FEN"
	codeMalformedSnapshot = "MALFORMED_SNAPSHOT"
	codeUndoUnavailable   = "UNDO_UNAVAILABLE"
)

// ErrorResponse is the uniform error body for every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type CreateGameRequest struct {
	FEN string `json:"fen" validate:"omitempty,min=15,max=120"`
}

type MoveRequest struct {
	From      string `json:"from" validate:"required,len=2"`
	To        string `json:"to" validate:"required,len=2"`
	Promotion string `json:"promotion" validate:"omitempty,oneof=q r b n queen rook bishop knight"`
}

type ResignRequest struct {
	Color string `json:"color" validate:"required,oneof=w b white black"`
}

type UndoRequest struct {
	Count int `json:"count" validate:"omitempty,min=1,max=64"`
}

var validate = validator.New()

// validationDetails flattens validator errors into one readable line.
func validationDetails(errs validator.ValidationErrors) string {
	var details strings.Builder
	for _, err := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch err.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", err.Field()))
		case "oneof":
			details.WriteString(fmt.Sprintf("%s must be one of [%s]", err.Field(), err.Param()))
		case "len":
			details.WriteString(fmt.Sprintf("%s must be exactly %s characters", err.Field(), err.Param()))
		case "min":
			details.WriteString(fmt.Sprintf("%s must be at least %s", err.Field(), err.Param()))
		case "max":
			details.WriteString(fmt.Sprintf("%s must be at most %s", err.Field(), err.Param()))
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", err.Field(), err.Tag()))
		}
	}
	return details.String()
}
