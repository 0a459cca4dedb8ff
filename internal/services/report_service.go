package services

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/you/accountsvc/domain"
)

// StubReportGenerator implements domain.ReportGenerator with synthesized
// values. The real vehicle-data integration lives outside this service; the
// stub produces a placeholder registration and an incomplete report so the
// credit linkage can be exercised end to end.
type StubReportGenerator struct{}

// NewStubReportGenerator creates a stub report generator
func NewStubReportGenerator() domain.ReportGenerator {
	return &StubReportGenerator{}
}

// Generate implements domain.ReportGenerator
func (g *StubReportGenerator) Generate(ctx context.Context, creditType string) (*domain.Report, error) {
	reg, err := placeholderRegistration()
	if err != nil {
		return nil, err
	}
	return &domain.Report{
		Type:         creditType,
		Registration: reg,
		Complete:     false,
	}, nil
}

// placeholderRegistration synthesizes a UK-plate-shaped string, e.g. "AB12 CDE"
func placeholderRegistration() (string, error) {
	const letters = "ABCDEFGHJKLMNPRSTUVWXYZ"
	b := make([]byte, 7)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to synthesize registration: %w", err)
	}
	out := []byte{
		letters[int(b[0])%len(letters)],
		letters[int(b[1])%len(letters)],
		'0' + b[2]%10,
		'0' + b[3]%10,
		' ',
		letters[int(b[4])%len(letters)],
		letters[int(b[5])%len(letters)],
		letters[int(b[6])%len(letters)],
	}
	return string(out), nil
}
