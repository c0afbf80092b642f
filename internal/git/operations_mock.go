package git

// MockGitOps is a mock implementation of Operations for testing.
type MockGitOps struct {
	Repository bool
	Files      []string
	FilesError error

	// ListCalls counts ListFiles invocations.
	ListCalls int
}

// NewMockGitOps creates a mock that behaves like a directory outside git.
func NewMockGitOps() *MockGitOps {
	return &MockGitOps{Repository: false}
}

func (m *MockGitOps) IsRepository(projectPath string) bool {
	return m.Repository
}

func (m *MockGitOps) ListFiles(projectPath string) ([]string, error) {
	m.ListCalls++
	if m.FilesError != nil {
		return nil, m.FilesError
	}
	out := make([]string, len(m.Files))
	copy(out, m.Files)
	return out, nil
}

// RepoScenario returns a mock for a git repository listing the given files.
func RepoScenario(files ...string) *MockGitOps {
	m := NewMockGitOps()
	m.Repository = true
	m.Files = files
	return m
}
