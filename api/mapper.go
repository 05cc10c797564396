package api

import (
	"net/http"

	"github.com/quochao170402/ecommerce-aws/items-api/internal/apperror"
)

// Outcome is a transport-agnostic response: a status code and a JSON body.
type Outcome struct {
	StatusCode int
	Body       any
}

// Mapper turns results and errors into Outcomes. Debug adds raw error text
// to server error bodies and must be off in production.
type Mapper struct {
	Debug bool
}

func NewMapper(appEnv string) Mapper {
	return Mapper{Debug: appEnv != "production"}
}

func (m Mapper) Success(status int, message string, data any) Outcome {
	return Outcome{
		StatusCode: status,
		Body:       BaseResponse{Success: true, Message: message, Data: data},
	}
}

func (m Mapper) List(data any, count int) Outcome {
	return Outcome{
		StatusCode: http.StatusOK,
		Body: PaginationData{
			BaseResponse: BaseResponse{Success: true, Data: data},
			Count:        count,
		},
	}
}

func (m Mapper) Error(err error) Outcome {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)

	body := BaseResponse{Success: false, Kind: kind, Retryable: apperror.Retryable(kind)}
	if status < http.StatusInternalServerError {
		body.Message = apperror.MessageOf(err)
		return Outcome{StatusCode: status, Body: body}
	}

	body.Message = serverErrorMessage(kind)
	if m.Debug {
		body.Details = err.Error()
	}
	return Outcome{StatusCode: status, Body: body}
}

func serverErrorMessage(kind apperror.Kind) string {
	switch kind {
	case apperror.KindTranslationEngine:
		return "Translation service failed"
	case apperror.KindStorageUnavailable:
		return "Storage temporarily unavailable"
	default:
		return "Internal server error"
	}
}
