package transfer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tustockya/transfers/internal/domain/shared"
	"github.com/tustockya/transfers/internal/domain/transfer"
)

// ValidationError is a client-side, field-scoped rejection. It blocks
// submission before any service call is made.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates per-field rejections for one submission
type ValidationErrors []ValidationError

// Error implements the error interface
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "; ")
}

var validate = newValidator()

// newValidator builds the shared validator. Field names in rejections
// use the json tag so they match what the caller actually sent.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs tag validation and maps failures onto field-scoped
// validation errors
func checkStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return err
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on the %q rule", fe.Tag()),
		})
	}
	return out
}

// validateTransferInput applies the enum rules tag validation cannot see
func validateTransferInput(in CreateTransferInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	var errs ValidationErrors
	if !in.Purpose.IsValid() || in.Purpose == transfer.PurposeReturn {
		errs = append(errs, ValidationError{Field: "purpose", Message: "must be cliente, restock or pair_formation"})
	}
	if !in.PickupType.IsValid() {
		errs = append(errs, ValidationError{Field: "pickup_type", Message: "must be corredor or vendedor"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// returnErrorField maps a domain rejection onto the input field it
// concerns
func returnErrorField(err error) string {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		return "return"
	}
	switch de.Code {
	case "NOTE_REQUIRED":
		return "notes"
	case "INVALID_QUANTITY":
		return "quantity_to_return"
	case "INVALID_CONDITION":
		return "product_condition"
	default:
		return "reason"
	}
}

// validateSingleFootInput checks a pair-formation request
func validateSingleFootInput(in CreateSingleFootInput) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	var errs ValidationErrors
	if !in.Kind.IsValid() {
		errs = append(errs, ValidationError{Field: "request_kind", Message: "must be pair, left_foot, right_foot or form_pair"})
	}
	if !in.PickupType.IsValid() {
		errs = append(errs, ValidationError{Field: "pickup_type", Message: "must be corredor or vendedor"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateReturnInput checks a return request against the original unit
func validateReturnInput(in CreateReturnInput, original *transfer.TransferUnit) error {
	if err := checkStruct(in); err != nil {
		return err
	}
	var errs ValidationErrors
	if !in.PickupType.IsValid() {
		errs = append(errs, ValidationError{Field: "pickup_type", Message: "must be corredor or vendedor"})
	}
	if original == nil {
		errs = append(errs, ValidationError{Field: "original_transfer_id", Message: "no completed transfer with this id"})
		return errs
	}
	if err := transfer.ValidateReturnRequest(in.Reason, in.QuantityToReturn, original.Quantity, in.ProductCondition, in.Notes); err != nil {
		errs = append(errs, ValidationError{Field: returnErrorField(err), Message: err.Error()})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
