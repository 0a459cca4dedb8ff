package mocks

import (
	"context"

	"github.com/you/accountsvc/domain"
)

// MockReportGenerator implements domain.ReportGenerator interface for testing
type MockReportGenerator struct {
	GenerateFunc func(ctx context.Context, creditType string) (*domain.Report, error)
}

// NewMockReportGenerator creates a new MockReportGenerator with default behaviors
func NewMockReportGenerator() *MockReportGenerator {
	return &MockReportGenerator{}
}

// Generate produces a report for a credit purchase
func (m *MockReportGenerator) Generate(ctx context.Context, creditType string) (*domain.Report, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, creditType)
	}
	// Default behavior: placeholder report
	return &domain.Report{
		Type:         creditType,
		Registration: "AB12 CDE",
		Complete:     false,
	}, nil
}

// Compile-time interface compliance verification
var _ domain.ReportGenerator = (*MockReportGenerator)(nil)
