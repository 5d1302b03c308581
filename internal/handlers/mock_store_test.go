package handlers_test

import (
	"context"
	"errors"

	"github.com/serroba/community-web/internal/community"
)

var errMock = errors.New("mock error")

// mockStore is a community.Repository that fails every call.
type mockStore struct {
	err error
}

func (m *mockStore) Save(context.Context, *community.Community) error {
	return m.err
}

func (m *mockStore) GetByName(context.Context, community.Name) (*community.Community, error) {
	return nil, m.err
}

func (m *mockStore) List(context.Context) ([]*community.Community, error) {
	return nil, m.err
}
