package dataroom

import "testing"

func TestUniqueName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		existing []string
		want     string
	}{
		{
			name:     "no conflict",
			input:    "report.pdf",
			existing: nil,
			want:     "report.pdf",
		},
		{
			name:     "no conflict among others",
			input:    "report.pdf",
			existing: []string{"summary.pdf", "notes.pdf"},
			want:     "report.pdf",
		},
		{
			name:     "first conflict",
			input:    "report.pdf",
			existing: []string{"report.pdf"},
			want:     "report (1).pdf",
		},
		{
			name:     "sequential conflicts",
			input:    "report.pdf",
			existing: []string{"report.pdf", "report (1).pdf"},
			want:     "report (2).pdf",
		},
		{
			name:     "gap in counters is reused",
			input:    "doc.pdf",
			existing: []string{"doc.pdf", "doc (1).pdf", "doc (3).pdf"},
			want:     "doc (2).pdf",
		},
		{
			name:     "no extension",
			input:    "README",
			existing: []string{"README"},
			want:     "README (1)",
		},
		{
			name:     "only last extension segment preserved",
			input:    "archive.tar.gz",
			existing: []string{"archive.tar.gz"},
			want:     "archive.tar (1).gz",
		},
		{
			name:     "leading dot is not an extension",
			input:    ".gitignore",
			existing: []string{".gitignore"},
			want:     ".gitignore (1)",
		},
		{
			name:     "suffixed input collides as a whole",
			input:    "doc (1).pdf",
			existing: []string{"doc (1).pdf"},
			want:     "doc (1) (1).pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UniqueName(tt.input, tt.existing)
			if got != tt.want {
				t.Errorf("UniqueName(%q, %v) = %q, want %q", tt.input, tt.existing, got, tt.want)
			}
		})
	}
}

func TestSplitExtension(t *testing.T) {
	tests := []struct {
		input    string
		wantBase string
		wantExt  string
	}{
		{"report.pdf", "report", ".pdf"},
		{"archive.tar.gz", "archive.tar", ".gz"},
		{"README", "README", ""},
		{".gitignore", ".gitignore", ""},
		{"trailing.", "trailing", "."},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			base, ext := splitExtension(tt.input)
			if base != tt.wantBase || ext != tt.wantExt {
				t.Errorf("splitExtension(%q) = (%q, %q), want (%q, %q)",
					tt.input, base, ext, tt.wantBase, tt.wantExt)
			}
		})
	}
}
