// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{"success", ExitSuccess, true},
		{"failure", ExitFailure, true},
		{"usage", ExitUsage, true},
		{"canceled", ExitCanceled, true},
		{"255 is valid", 255, true},
		{"negative is invalid", -1, false},
		{"256 is invalid", 256, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.value.Validate()
			if tt.wantValid {
				if err != nil {
					t.Errorf("ExitCode(%d).Validate() = %v, want nil", tt.value, err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("ExitCode(%d).Validate() = %v, want ErrInvalidExitCode", tt.value, err)
			}
			var exitErr *InvalidExitCodeError
			if !errors.As(err, &exitErr) || exitErr.Value != tt.value {
				t.Errorf("error should carry the value, got %v", err)
			}
		})
	}
}

func TestExitCode_IsSuccessAndString(t *testing.T) {
	t.Parallel()

	if !ExitSuccess.IsSuccess() || ExitFailure.IsSuccess() {
		t.Error("IsSuccess() should only hold for 0")
	}
	if ExitCanceled.String() != "130" {
		t.Errorf("String() = %q, want 130", ExitCanceled.String())
	}
}
