// internal/app/system/inputval/inputval.go
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/crmhub/internal/app/system/apperr"
	"github.com/dalemusser/crmhub/internal/domain/models"
	"github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *validator.Validate
)

// Validator returns the shared validator with the CRM enum tags registered:
//
//	role        Admin | Agent
//	leadstatus  New | In Progress | Closed Won | Closed Lost
//	taskstatus  Open | In Progress | Done
//	priority    Low | Medium | High
//
// Field names in errors come from the json tag.
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("role", stringIs(models.ValidRole))
		_ = v.RegisterValidation("leadstatus", stringIs(models.ValidLeadStatus))
		_ = v.RegisterValidation("taskstatus", stringIs(models.ValidTaskStatus))
		_ = v.RegisterValidation("priority", stringIs(models.ValidPriority))
	})
	return v
}

func stringIs(ok func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return ok(fl.Field().String())
	}
}

// Struct validates s and returns a BadRequest error describing the first
// failing field, or nil.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperr.New(apperr.BadRequest, message(verrs[0]))
	}
	return apperr.Wrap(apperr.BadRequest, "invalid request", err)
}

func message(fe validator.FieldError) string {
	f := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", f)
	case "email":
		return fmt.Sprintf("%s must be a valid email", f)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", f, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", f, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", f, fe.Param())
	case "role":
		return fmt.Sprintf("%s must be one of: %s, %s", f, models.RoleAdmin, models.RoleAgent)
	case "leadstatus":
		return fmt.Sprintf("%s must be one of: %s", f, strings.Join(models.LeadStatuses, ", "))
	case "taskstatus":
		return fmt.Sprintf("%s must be one of: %s, %s, %s", f, models.TaskOpen, models.TaskInProgress, models.TaskDone)
	case "priority":
		return fmt.Sprintf("%s must be one of: %s, %s, %s", f, models.PriorityLow, models.PriorityMedium, models.PriorityHigh)
	default:
		return fmt.Sprintf("%s is invalid", f)
	}
}
