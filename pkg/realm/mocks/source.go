package mocks

import (
	"iter"

	mock "github.com/stretchr/testify/mock"

	artifact "github.com/stackb/classworlds/pkg/artifact"
)

// Source is a mock type for the artifact.Source type.  String is not mocked;
// it returns Name.
type Source struct {
	mock.Mock
	Name string
}

// String implements fmt.Stringer
func (_m *Source) String() string {
	return _m.Name
}

// FindArtifact provides a mock function with given fields: name
func (_m *Source) FindArtifact(name string) (*artifact.Artifact, error) {
	ret := _m.Called(name)

	var r0 *artifact.Artifact
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (*artifact.Artifact, error)); ok {
		return rf(name)
	}
	if rf, ok := ret.Get(0).(func(string) *artifact.Artifact); ok {
		r0 = rf(name)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*artifact.Artifact)
	}
	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(name)
	} else {
		r1 = ret.Error(1)
	}
	return r0, r1
}

// FindResource provides a mock function with given fields: name
func (_m *Source) FindResource(name string) (*artifact.Artifact, error) {
	ret := _m.Called(name)

	var r0 *artifact.Artifact
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (*artifact.Artifact, error)); ok {
		return rf(name)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*artifact.Artifact)
	}
	r1 = ret.Error(1)
	return r0, r1
}

// FindResources provides a mock function with given fields: name
func (_m *Source) FindResources(name string) (iter.Seq[*artifact.Artifact], error) {
	ret := _m.Called(name)

	var r0 iter.Seq[*artifact.Artifact]
	var r1 error
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(iter.Seq[*artifact.Artifact])
	}
	r1 = ret.Error(1)
	return r0, r1
}

// NewSource creates a new instance of Source. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks
// expectations.
func NewSource(t interface {
	mock.TestingT
	Cleanup(func())
}, name string) *Source {
	m := &Source{Name: name}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
