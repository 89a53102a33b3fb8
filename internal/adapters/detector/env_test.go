package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/hoist/internal/adapters/detector"
	"go.trai.ch/hoist/internal/core/domain"
)

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name       string
		env        detector.Environment
		configured string
		want       string
	}{
		{"auto tty", detector.Environment{TTY: true}, domain.OutputAuto, domain.OutputProgrock},
		{"auto pipe", detector.Environment{}, domain.OutputAuto, domain.OutputLinear},
		{"auto ci", detector.Environment{TTY: true, CI: true}, domain.OutputAuto, domain.OutputLinear},
		{"empty behaves as auto", detector.Environment{TTY: true}, "", domain.OutputProgrock},
		{"forced linear", detector.Environment{TTY: true}, domain.OutputLinear, domain.OutputLinear},
		{"forced progrock", detector.Environment{CI: true}, domain.OutputProgrock, domain.OutputProgrock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detector.ResolveMode(tt.env, tt.configured))
		})
	}
}

func TestDetectEnvironment_CI(t *testing.T) {
	t.Setenv("CI", "true")
	assert.True(t, detector.DetectEnvironment().CI)

	t.Setenv("CI", "1")
	assert.True(t, detector.DetectEnvironment().CI)

	t.Setenv("CI", "")
	assert.False(t, detector.DetectEnvironment().CI)
}
