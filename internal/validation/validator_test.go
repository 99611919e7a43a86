package validation

import (
	"errors"
	"strings"
	"testing"
)

type signup struct {
	Username string `json:"username" validate:"required,min=5,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      signup
		wantFields map[string]string
	}{
		{
			name:  "valid",
			input: signup{Username: "alice12", Email: "a@x.io", Birthday: "1990-01-01"},
		},
		{
			name:       "alphanum",
			input:      signup{Username: "alice_12", Email: "a@x.io"},
			wantFields: map[string]string{"username": "alphanum"},
		},
		{
			name:       "all failing",
			input:      signup{Username: "al", Email: "x", Birthday: "yesterday"},
			wantFields: map[string]string{"username": "min", "email": "email", "birthday": "datetime"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Struct() error = %v", err)
				}
				return
			}

			var verr *RequestValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Struct() error = %v, want *RequestValidationError", err)
			}
			if len(verr.Fields) != len(tt.wantFields) {
				t.Fatalf("fields = %+v, want %d", verr.Fields, len(tt.wantFields))
			}
			for _, f := range verr.Fields {
				if tag, ok := tt.wantFields[f.Field]; !ok || tag != f.Tag {
					t.Errorf("unexpected field error %+v", f)
				}
				if f.Message == "" {
					t.Errorf("field %s has no message", f.Field)
				}
			}
		})
	}
}

func TestMessages(t *testing.T) {
	err := Struct(signup{Username: "bob!!", Email: "a@x.io"})
	if err == nil || !strings.Contains(err.Error(), "username contains non alphanumeric characters") {
		t.Errorf("Error() = %v", err)
	}

	var verr RequestValidationError
	verr.Add("title", "duplicate", "title is already used")
	if verr.Error() != "title is already used" {
		t.Errorf("Error() = %q", verr.Error())
	}
}
