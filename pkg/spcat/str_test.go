package spcat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/spectools/pkg/errors"
)

func strLine(freq, rtdm float64, format, upper, lower, dipole string) string {
	return fmt.Sprintf("%15.4f%15.6f%5s%12s%12s%11s", freq, rtdm, format, upper, lower, dipole)
}

func TestParseStr(t *testing.T) {
	input := strings.Join([]string{
		strLine(9098.3321, 1.234567, "303", "1 0", "0 0", "1"),
		"",
		strLine(18196.2245, 2.5, "303", "2 0", "1 0", "2"),
	}, "\n") + "\n"

	got, err := ParseStr(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseStr error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	first := got[0]
	if first.Line != 1 || first.Frequency != 9098.3321 || first.ReducedTDM != 1.234567 {
		t.Errorf("first = %+v", first)
	}
	if first.Format != "303" || first.UpperQN != "1 0" || first.LowerQN != "0 0" || first.DipoleCategory != "1" {
		t.Errorf("first passthrough columns = %+v", first)
	}

	// blank line 2 is skipped but numbering follows the file
	if got[1].Line != 3 {
		t.Errorf("second.Line = %d, want 3", got[1].Line)
	}
	if got[1].DipoleCategory != "2" {
		t.Errorf("second.DipoleCategory = %q, want %q", got[1].DipoleCategory, "2")
	}
}

func TestParseStrOptionalColumns(t *testing.T) {
	line := fmt.Sprintf("%15.4f%15.6f", 1000.0, 2.0)
	got, err := ParseStr(strings.NewReader(line))
	if err != nil {
		t.Fatalf("ParseStr error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Format != "" || got[0].UpperQN != "" || got[0].DipoleCategory != "" {
		t.Errorf("optional columns should be empty: %+v", got[0])
	}
}

func TestParseStrCRLF(t *testing.T) {
	input := strLine(1000, 2, "303", "1", "0", "1") + "\r\n"
	got, err := ParseStr(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseStr error: %v", err)
	}
	if got[0].DipoleCategory != "1" {
		t.Errorf("DipoleCategory = %q, want %q", got[0].DipoleCategory, "1")
	}
}

func TestParseStrErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"non-numeric frequency", fmt.Sprintf("%15s%15.6f", "abc", 1.0)},
		{"missing tdm", fmt.Sprintf("%15.4f", 1000.0)},
		{"blank frequency", fmt.Sprintf("%15s%15.6f", "", 1.0)},
		{"non-numeric tdm", fmt.Sprintf("%15.4f%15s", 1000.0, "x1.0")},
		{"infinite frequency", fmt.Sprintf("%15s%15.6f", "Inf", 1.0)},
		{"nan tdm", fmt.Sprintf("%15.4f%15s", 1000.0, "NaN")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strLine(500, 1, "303", "1", "0", "1") + "\n" + tt.input + "\n"
			_, err := ParseStr(strings.NewReader(input))
			if !errs.Is(err, errs.ErrCodeParse) {
				t.Fatalf("ParseStr error = %v, want PARSE_ERROR", err)
			}
			if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("error %q should name line 2", err)
			}
		})
	}
}

func TestReadStrFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mol.str")
	if err := os.WriteFile(path, []byte(strLine(1000, 2, "303", "1", "0", "1")+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadStrFile(path)
	if err != nil {
		t.Fatalf("ReadStrFile error: %v", err)
	}
	if len(got) != 1 || got[0].Frequency != 1000 || got[0].ReducedTDM != 2 {
		t.Errorf("ReadStrFile = %+v", got)
	}

	_, err = ReadStrFile(filepath.Join(t.TempDir(), "missing.str"))
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}
