package http

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/teerapatzza/travel-claim/internal/domain/entity"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// registerValidators adds the custom binding tags to gin's validator
func registerValidators() error {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		validatorsErr = v.RegisterValidation("vehicle_type", validateVehicleType)
	})
	return validatorsErr
}

func validateVehicleType(fl validator.FieldLevel) bool {
	_, err := entity.ParseVehicleType(fl.Field().String())
	return err == nil
}
