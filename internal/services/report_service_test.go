package services

import (
	"context"
	"regexp"
	"testing"
)

func TestStubReportGenerator_Generate(t *testing.T) {
	gen := NewStubReportGenerator()

	report, err := gen.Generate(context.Background(), "auto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Type != "auto" {
		t.Errorf("expected type auto, got %s", report.Type)
	}
	if report.Complete {
		t.Error("stub reports start incomplete")
	}
	if ok, _ := regexp.MatchString(`^[A-Z]{2}[0-9]{2} [A-Z]{3}$`, report.Registration); !ok {
		t.Errorf("unexpected registration shape %q", report.Registration)
	}
}
