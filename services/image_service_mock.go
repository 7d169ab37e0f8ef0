package services

import (
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/rosarios-tailoring/rosarios-tailoring-api/utils"
)

// MockImageService is a mock implementation of ImageService for testing
type MockImageService struct {
	images map[string]bool // set of stored image keys
	mu     sync.RWMutex

	// FailUploads makes every upload return an error, for testing the
	// fire-and-forget handling of storage failures.
	FailUploads bool
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{
		images: make(map[string]bool),
	}
}

// SetAsMockForTesting sets this mock as the global image service instance for testing
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// UploadImage simulates validating and uploading an image
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader, category string) (string, error) {
	if m.FailUploads {
		return "", fmt.Errorf("mock upload failure")
	}
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/mock_%s", category, fileHeader.Filename)
	m.mu.Lock()
	m.images[key] = true
	m.mu.Unlock()
	return key, nil
}

// GetImageURL simulates generating an access URL
func (m *MockImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}
	return fmt.Sprintf("https://mock.local/%s", imageKey), nil
}

// DeleteImage simulates deleting an image
func (m *MockImageService) DeleteImage(imageKey string) error {
	m.mu.Lock()
	delete(m.images, imageKey)
	m.mu.Unlock()
	return nil
}

// HasImage checks whether a key was stored (for testing assertions)
func (m *MockImageService) HasImage(imageKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.images[imageKey]
}
