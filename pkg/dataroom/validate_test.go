package dataroom

import (
	"strings"
	"testing"
)

func TestValidateDataroomName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "valid", input: "Project Alpha"},
		{name: "valid with surrounding whitespace", input: "  Project Alpha  "},
		{name: "at length limit", input: strings.Repeat("a", MaxDataroomNameLength)},
		{name: "empty", input: "", wantErr: "Name is required"},
		{name: "whitespace only", input: "   ", wantErr: "Name is required"},
		{
			name:    "over length limit",
			input:   strings.Repeat("a", MaxDataroomNameLength+1),
			wantErr: "Name must be less than 100 characters",
		},
		{name: "slash", input: "a/b", wantErr: "Name contains invalid characters"},
		{name: "control character", input: "bad\x00name", wantErr: "Name contains invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDataroomName(tt.input)
			checkValidationResult(t, err, tt.wantErr)
		})
	}
}

func TestValidateFolderName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "valid", input: "Financial Reports"},
		{name: "at length limit", input: strings.Repeat("b", MaxItemNameLength)},
		{name: "empty", input: "", wantErr: "Folder name is required"},
		{
			name:    "over length limit",
			input:   strings.Repeat("b", MaxItemNameLength+1),
			wantErr: "Folder name must be less than 255 characters",
		},
		{name: "pipe", input: "a|b", wantErr: "Name contains invalid characters"},
		{name: "angle brackets", input: "<scripts>", wantErr: "Name contains invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFolderName(tt.input)
			checkValidationResult(t, err, tt.wantErr)
		})
	}
}

func TestValidateFileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "valid", input: "report.pdf"},
		{name: "dots and spaces allowed", input: "Q3 report (final).v2.pdf"},
		{name: "empty", input: "", wantErr: "File name is required"},
		{name: "backslash", input: "a\\b.pdf", wantErr: "Name contains invalid characters"},
		{name: "question mark", input: "what?.pdf", wantErr: "Name contains invalid characters"},
		{name: "colon", input: "10:30.pdf", wantErr: "Name contains invalid characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileName(tt.input)
			checkValidationResult(t, err, tt.wantErr)
		})
	}
}

func checkValidationResult(t *testing.T, err error, wantErr string) {
	t.Helper()
	if wantErr == "" {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected error %q, got nil", wantErr)
	}
	if err.Error() != wantErr {
		t.Errorf("error = %q, want %q", err.Error(), wantErr)
	}
}
