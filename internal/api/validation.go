package api

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/zhanma666/evil-cook-project/internal/models"
)

const seasonTag = "season"

var registerOnce sync.Once

// RegisterValidators installs the custom binding tags on gin's validator.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation(seasonTag, validateSeason)
	})
}

func validateSeason(fl validator.FieldLevel) bool {
	_, err := models.ParseSeason(fl.Field().String())
	return err == nil
}
