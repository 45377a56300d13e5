package services

import (
	"fmt"

	"messenger-lab/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// InviteRequest carries the fields of a friends-page invite action.
// The mailbox itself stores whatever it is given; validation happens here,
// at the collaborator boundary, before anything touches the store.
type InviteRequest struct {
	Recipient string `validate:"required,max=100"`
	Room      string `validate:"required,max=100"`
}

func ValidateInvite(req InviteRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidInvite, err)
	}
	return nil
}

// RegisterRequest mirrors the profile form: field limits match the lengths
// the registration page has always enforced.
type RegisterRequest struct {
	Username  string `validate:"required,max=100"`
	FirstName string `validate:"required,max=200"`
	LastName  string `validate:"required,max=200"`
	Age       int    `validate:"gte=0,lte=150"`
	Job       string `validate:"required,max=200"`
}

func ValidateRegister(req RegisterRequest) error {
	return validate.Struct(req)
}
