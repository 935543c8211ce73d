// Package validation checks config structs against their `validate` tags and
// reports problems using the YAML names of the offending fields.
package validation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	validator "gopkg.in/go-playground/validator.v9"

	"github.com/signalfx/haproxy-monitor/internal/utils"
)

// Validatable should be implemented by config structs that need checks
// beyond what the struct tags can express.
type Validatable interface {
	Validate() error
}

// ValidateCustomConfig runs the Validate method of conf if it has one.
func ValidateCustomConfig(conf interface{}) error {
	if v, ok := conf.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// ValidateStruct uses the `validate` struct tags to do standard validation
func ValidateStruct(confStruct interface{}) error {
	validate := validator.New()
	err := validate.Struct(confStruct)
	if err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok {
			var msgs []string
			for _, e := range ves {
				// Errors inside lists name the element, e.g. `Sockets[1]`
				structField, index := e.StructField(), ""
				if i := strings.Index(structField, "["); i >= 0 {
					structField, index = structField[:i], structField[i:]
				}
				fieldName := utils.YAMLNameOfFieldInStruct(structField, confStruct) + index
				tag := e.Tag()
				if e.Param() != "" {
					tag += "=" + e.Param()
				}
				msgs = append(msgs, fmt.Sprintf("Validation error in field '%s': %s", fieldName, tag))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}
