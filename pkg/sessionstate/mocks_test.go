package sessionstate_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/sessionstate/pkg/sessionstate"
)

// MockDocumentStore is a mock implementation of sessionstate.DocumentStore.
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) OpenSession(ctx context.Context, opts sessionstate.SessionOptions) (sessionstate.DocumentSession, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sessionstate.DocumentSession), args.Error(1)
}

func (m *MockDocumentStore) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDocumentSession is a mock implementation of sessionstate.DocumentSession.
type MockDocumentSession struct {
	mock.Mock
}

func (m *MockDocumentSession) Load(ctx context.Context, key string) (*sessionstate.Record, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sessionstate.Record), args.Error(1)
}

func (m *MockDocumentSession) Store(rec *sessionstate.Record) {
	m.Called(rec)
}

func (m *MockDocumentSession) Delete(rec *sessionstate.Record) {
	m.Called(rec)
}

func (m *MockDocumentSession) SetExpiration(rec *sessionstate.Record, at time.Time) {
	m.Called(rec, at)
}

func (m *MockDocumentSession) SaveChanges(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocumentSession) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
