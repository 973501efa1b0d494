package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/thisisgagangupta/dev-kiosk/pkg/logger"
	"github.com/thisisgagangupta/dev-kiosk/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type CheckinValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCheckinValidator(log *logger.Logger) *CheckinValidator {
	return &CheckinValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *CheckinValidator) ValidateIssueRequest(req *model.IssueTokenRequest) error {
	return v.translate(v.validate.Struct(req))
}

func (v *CheckinValidator) ValidateStatusUpdate(update *model.TokenStatusUpdate) error {
	return v.translate(v.validate.Struct(update))
}

// ValidateToken checks a fully built token before persistence. A
// failure here is a bug in the issuance flow, not caller input.
func (v *CheckinValidator) ValidateToken(token *model.Token) error {
	return v.translate(v.validate.Struct(token))
}

func (v *CheckinValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var errs ValidationErrors
	for _, fe := range fieldErrors {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on the %q rule", fe.Tag()),
		})
	}
	return errs
}
