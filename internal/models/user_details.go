package models

type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// UserDetails holds the demographic fields of the form. Age is kept as typed.
type UserDetails struct {
	Age    string `json:"age"`
	Gender Gender `json:"gender"`
}

// ValidationErrors maps a form field to a user-facing message.
type ValidationErrors map[string]string

const (
	FieldAge           = "age"
	FieldGender        = "gender"
	FieldCustomProblem = "customProblem"
)
