package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockUploader is a mock implementation of upload.Uploader
type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) UploadFile(ctx context.Context, data []byte, dest string) (string, error) {
	args := m.Called(ctx, data, dest)
	return args.String(0), args.Error(1)
}
