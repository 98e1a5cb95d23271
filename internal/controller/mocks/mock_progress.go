// Package mocks provides testify mocks for the controller interfaces.
package mocks

import (
	"iter"

	"github.com/stretchr/testify/mock"

	m "nfind.dev/pkg/nfind/internal/model"
)

// MockProgress is a mock of controller.Progress.
type MockProgress struct {
	mock.Mock
}

// MockProgress_Expecter wraps MockProgress expectations.
type MockProgress_Expecter struct {
	mock *mock.Mock
}

// EXPECT starts a typed expectation.
func (_m *MockProgress) EXPECT() *MockProgress_Expecter {
	return &MockProgress_Expecter{mock: &_m.Mock}
}

// Track provides a mock function.
func (_m *MockProgress) Track(desc string, total int, units iter.Seq[m.Path]) iter.Seq[m.Path] {
	ret := _m.Called(desc, total, units)

	if rf, ok := ret.Get(0).(func(string, int, iter.Seq[m.Path]) iter.Seq[m.Path]); ok {
		return rf(desc, total, units)
	}

	if ret.Get(0) == nil {
		return nil
	}

	return ret.Get(0).(iter.Seq[m.Path])
}

// MockProgress_Track_Call is the typed call for Track.
type MockProgress_Track_Call struct {
	*mock.Call
}

// Track sets up an expectation for Track.
func (_e *MockProgress_Expecter) Track(desc interface{}, total interface{}, units interface{}) *MockProgress_Track_Call {
	return &MockProgress_Track_Call{Call: _e.mock.On("Track", desc, total, units)}
}

// RunAndReturn computes the return value from the call arguments.
func (_c *MockProgress_Track_Call) RunAndReturn(run func(string, int, iter.Seq[m.Path]) iter.Seq[m.Path]) *MockProgress_Track_Call {
	_c.Call.Return(run)
	return _c
}

// Once expects a single call.
func (_c *MockProgress_Track_Call) Once() *MockProgress_Track_Call {
	_c.Call.Once()
	return _c
}

// NewMockProgress creates a MockProgress that asserts its expectations on cleanup.
func NewMockProgress(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProgress {
	progress := &MockProgress{}
	progress.Mock.Test(t)

	t.Cleanup(func() { progress.AssertExpectations(t) })

	return progress
}
