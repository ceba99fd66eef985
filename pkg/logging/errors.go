// hab/pkg/logging/errors.go

package logging

import (
	"fmt"

	"github.com/rs/zerolog"
)

type ErrorType string

const (
	ErrorTypeParse     ErrorType = "PARSE"
	ErrorTypeTranslate ErrorType = "TRANSLATE"
	ErrorTypeRuntime   ErrorType = "RUNTIME"
	ErrorTypeStore     ErrorType = "STORE"
)

type HabError struct {
	Type    ErrorType
	Message string
	Err     error
	Fields  map[string]interface{}
}

func (e *HabError) Error() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *HabError) Unwrap() error {
	return e.Err
}

func NewError(errType ErrorType, message string, err error, fields map[string]interface{}) *HabError {
	return &HabError{
		Type:    errType,
		Message: message,
		Err:     err,
		Fields:  fields,
	}
}

func LogError(logger zerolog.Logger, err error) {
	habErr, ok := err.(*HabError)
	if !ok {
		logger.Error().Err(err).Msg(err.Error())
		return
	}

	event := logger.Error().Err(habErr.Err).
		Str("error_type", string(habErr.Type)).
		Str("message", habErr.Message)

	for k, v := range habErr.Fields {
		event = event.Interface(k, v)
	}

	event.Msg(habErr.Message)
}
