package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	RegisterCustomValidators(v)

	type input struct {
		ID      string   `validate:"objectid"`
		IDs     []string `validate:"omitempty,dive,objectid"`
		Related string   `validate:"omitempty,related"`
	}

	valid := input{
		ID:      primitive.NewObjectID().Hex(),
		IDs:     []string{primitive.NewObjectID().Hex()},
		Related: "lead",
	}
	assert.NoError(t, v.Struct(valid))

	assert.Error(t, v.Struct(input{ID: "not-an-id"}))
	assert.Error(t, v.Struct(input{ID: valid.ID, IDs: []string{"123"}}))
	assert.Error(t, v.Struct(input{ID: valid.ID, Related: "Account"}))
}
