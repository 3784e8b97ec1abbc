package utils

import (
	"sync"

	"github.com/Innayatullahh/skydragon-test/model"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validatorOnce sync.Once

// InitValidator registers the custom binding rules on gin's validator. Safe
// to call more than once.
func InitValidator() {
	validatorOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			RegisterCustomValidators(v)
		}
	})
}

func RegisterCustomValidators(v *validator.Validate) {
	_ = v.RegisterValidation("objectid", ValidateObjectIDRule)
	_ = v.RegisterValidation("related", ValidateRelatedRule)
}

func ValidateObjectIDRule(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}

// ValidateRelatedRule accepts Contact or Lead in any casing.
func ValidateRelatedRule(fl validator.FieldLevel) bool {
	_, err := model.ParseRelated(fl.Field().String())
	return err == nil
}
