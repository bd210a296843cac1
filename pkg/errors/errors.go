package errors

import (
	"fmt"
	"net/http"
)

// HttpError — ошибка с HTTP-кодом и сообщением для клиента.
// Message уходит пользователю, Err и Context остаются в логах.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context ...map[string]interface{}) *HttpError {
	httpErr := &HttpError{Code: code, Message: message, Err: err}
	if len(context) > 0 {
		httpErr.Context = context[0]
	}
	return httpErr
}

// Общая таксономия ошибок. Репозитории и сервисы возвращают эти значения,
// utils.ErrorResponse переводит их в ответ {status, message} с нужным кодом.
var (
	// Ключи
	ErrInvalidKeyFormat = NewHttpError(http.StatusBadRequest, "Неверный формат ключа", nil)
	ErrWrongKeyKind     = NewHttpError(http.StatusBadRequest, "Ключ относится к другому типу сущности", nil)

	// Общие
	ErrNotFound       = NewHttpError(http.StatusNotFound, "Запись не найдена", nil)
	ErrBadRequest     = NewHttpError(http.StatusBadRequest, "Неверный запрос", nil)
	ErrInternalServer = NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", nil)

	// Уникальность и ссылочная целостность
	ErrDuplicateName  = NewHttpError(http.StatusConflict, "Запись с таким именем уже существует", nil)
	ErrStatusInUse    = NewHttpError(http.StatusConflict, "Статус используется и не может быть удалён", nil)
	ErrAssigneeInUse  = NewHttpError(http.StatusConflict, "Исполнитель используется и не может быть удалён", nil)
	ErrOrderHasUnits  = NewHttpError(http.StatusConflict, "Заказ содержит устройства и не может быть удалён", nil)
	ErrNoStatusExists = NewHttpError(http.StatusBadRequest, "В системе нет ни одного статуса", nil)

	// Журнал событий и перечисления
	ErrEventNotFound    = NewHttpError(http.StatusNotFound, "Событие не найдено в журнале", nil)
	ErrInvalidUnitType  = NewHttpError(http.StatusBadRequest, "Недопустимый тип устройства", nil)
	ErrInvalidEventType = NewHttpError(http.StatusBadRequest, "Недопустимый тип события", nil)
)
