package repository

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/batimatch/batimatch/internal/domain"
)

// translate maps gorm storage errors onto domain errors so the usecase layer
// never imports gorm. Relies on TranslateError being enabled on the session.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NotFoundError{Resource: resource}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ConflictError{Code: domain.CodeConflict, Reason: resource + " already exists"}
	}
	return err
}
