package errors

import (
	"errors"

	"gorm.io/gorm"
)

// MapGormError maps gorm errors to AppError instances. The gorm connection must
// be opened with TranslateError so driver constraint errors surface as
// gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func MapGormError(err error) error {
	if err == nil {
		return nil
	}
	if mapped := mapContextError(err); mapped != nil {
		return mapped
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &AppError{Code: ErrCodeConflict, Message: "This record already exists.", Cause: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &AppError{Code: ErrCodeForeignKey, Message: "The referenced job does not exist.", Cause: err}
	case errors.Is(err, gorm.ErrCheckConstraintViolated), errors.Is(err, gorm.ErrInvalidData):
		return &AppError{Code: ErrCodeValidation, Message: "Invalid data. Please check your input.", Cause: err}
	default:
		return &AppError{Code: ErrCodeInternal, Message: "A database error occurred. Please try again.", Cause: err}
	}
}
