package assets

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateAssetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		// Valid names
		{name: "built-in template", input: ChapterTitleTemplate},
		{name: "name with hyphen", input: "frame-embed"},
		{name: "name with numbers", input: "title2"},
		{name: "mixed case", input: "TechnicalHelp"},
		{name: "max length", input: strings.Repeat("a", maxAssetNameLength)},

		// Invalid names
		{name: "empty name", input: "", wantErr: ErrInvalidAssetName},
		{name: "too long", input: strings.Repeat("a", maxAssetNameLength+1), wantErr: ErrInvalidAssetName},
		{name: "forward slash", input: "templates/chapter_title", wantErr: ErrInvalidAssetName},
		{name: "backslash", input: "templates\\chapter_title", wantErr: ErrInvalidAssetName},
		{name: "parent directory traversal", input: "../secret", wantErr: ErrInvalidAssetName},
		{name: "windows parent traversal", input: "..\\secret", wantErr: ErrInvalidAssetName},
		{name: "extension", input: "technical_help.yaml", wantErr: ErrInvalidAssetName},
		{name: "hidden file", input: ".hidden", wantErr: ErrInvalidAssetName},
		{name: "absolute path unix", input: "/etc/passwd", wantErr: ErrInvalidAssetName},
		{name: "two dots", input: "..", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateAssetName(tt.input)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAssetName(%q) unexpected error: %v", tt.input, err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAssetName(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAssetName_MessageIncludesName(t *testing.T) {
	t.Parallel()

	err := ValidateAssetName("../evil")
	if err == nil {
		t.Fatal("expected error for invalid name")
	}
	if !strings.Contains(err.Error(), "../evil") {
		t.Errorf("error %q should mention the rejected name", err)
	}
}
