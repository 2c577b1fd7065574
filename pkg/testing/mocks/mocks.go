package mocks

import (
	"context"
	"fmt"

	"github.com/redcap-42/runboard/pkg/domain/activity"
)

// --- Mock Storage ---

type MockBlobStore struct {
	WriteFunc  func(ctx context.Context, bucket, object string, data []byte) error
	ReadFunc   func(ctx context.Context, bucket, object string) ([]byte, error)
	RemoveFunc func(ctx context.Context, bucket string, objects []string) error
	ListFunc   func(ctx context.Context, bucket, prefix string) ([]string, error)
}

func (m *MockBlobStore) Write(ctx context.Context, bucket, object string, data []byte) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, bucket, object, data)
	}
	return nil
}

func (m *MockBlobStore) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx, bucket, object)
	}
	return []byte("mock-data"), nil
}

func (m *MockBlobStore) Remove(ctx context.Context, bucket string, objects []string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, bucket, objects)
	}
	return nil
}

func (m *MockBlobStore) List(ctx context.Context, bucket, prefix string) ([]string, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, bucket, prefix)
	}
	return nil, nil
}

// --- Mock Database ---

type MockDatabase struct {
	GetActivityFunc    func(ctx context.Context, userID, activityID string) (*activity.Activity, error)
	ListActivitiesFunc func(ctx context.Context, userID string) ([]*activity.Activity, error)
	UpdateActivityFunc func(ctx context.Context, userID, activityID string, data map[string]interface{}) error
}

func (m *MockDatabase) GetActivity(ctx context.Context, userID, activityID string) (*activity.Activity, error) {
	if m.GetActivityFunc != nil {
		return m.GetActivityFunc(ctx, userID, activityID)
	}
	return nil, fmt.Errorf("activity not found")
}

func (m *MockDatabase) ListActivities(ctx context.Context, userID string) ([]*activity.Activity, error) {
	if m.ListActivitiesFunc != nil {
		return m.ListActivitiesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockDatabase) UpdateActivity(ctx context.Context, userID, activityID string, data map[string]interface{}) error {
	if m.UpdateActivityFunc != nil {
		return m.UpdateActivityFunc(ctx, userID, activityID, data)
	}
	return nil
}
