package mocks

import (
	"context"

	"github.com/hbomb79/mediagate/internal/ffmpeg"
	"github.com/stretchr/testify/mock"
)

// MockRunner is a testify mock of ffmpeg.Runner. Expectations are set on
// "Run" with the arguments (ctx, name, args []string).
type MockRunner struct {
	mock.Mock
}

func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

func (m *MockRunner) Run(ctx context.Context, name string, args ...string) (*ffmpeg.Result, error) {
	ret := m.Called(ctx, name, args)

	var result *ffmpeg.Result
	if r := ret.Get(0); r != nil {
		result = r.(*ffmpeg.Result)
	}

	return result, ret.Error(1)
}
