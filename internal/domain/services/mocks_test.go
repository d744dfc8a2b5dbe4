package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

type MockModelFactory struct {
	mock.Mock
}

func (m *MockModelFactory) New(ctx context.Context, provider string, credential entities.Credential) (ports.CompletionModel, error) {
	args := m.Called(ctx, provider, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.CompletionModel), args.Error(1)
}

type MockCompletionModel struct {
	mock.Mock
}

func (m *MockCompletionModel) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionModel) Name() string {
	return "mock/model"
}

type MockOutlineGenerator struct {
	mock.Mock
}

func (m *MockOutlineGenerator) Generate(ctx context.Context, req entities.OutlineRequest) (entities.Outline, entities.OutlineSource) {
	args := m.Called(ctx, req)
	return args.Get(0).(entities.Outline), args.Get(1).(entities.OutlineSource)
}

type MockDeckAssembler struct {
	mock.Mock
}

func (m *MockDeckAssembler) Assemble(ctx context.Context, outline entities.Outline, templatePath, outputPath string) (*entities.DeckSummary, error) {
	args := m.Called(ctx, outline, templatePath, outputPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.DeckSummary), args.Error(1)
}

type MockWorkspaceStore struct {
	mock.Mock
}

func (m *MockWorkspaceStore) Create(ctx context.Context) (ports.Workspace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(ports.Workspace), args.Error(1)
}

func (m *MockWorkspaceStore) Sweep(ctx context.Context, maxAge time.Duration) (int, error) {
	args := m.Called(ctx, maxAge)
	return args.Int(0), args.Error(1)
}

func (m *MockWorkspaceStore) Root() string {
	return "/tmp/deckforge-test"
}

type MockWorkspace struct {
	mock.Mock
}

func (m *MockWorkspace) ID() string  { return "ws-1" }
func (m *MockWorkspace) Dir() string { return "/tmp/deckforge-test/ws-1" }

func (m *MockWorkspace) SaveTemplate(filename string, r io.Reader) (string, error) {
	args := m.Called(filename, r)
	return args.String(0), args.Error(1)
}

func (m *MockWorkspace) OutputPath() string {
	return "/tmp/deckforge-test/ws-1/output.pptx"
}

func (m *MockWorkspace) Release() error {
	args := m.Called()
	return args.Error(0)
}

// recordingLogger keeps formatted messages for assertions
type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) record(msg string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Debug(msg string, args ...interface{}) { l.record(msg, args...) }
func (l *recordingLogger) Info(msg string, args ...interface{})  { l.record(msg, args...) }
func (l *recordingLogger) Warn(msg string, args ...interface{})  { l.record(msg, args...) }
func (l *recordingLogger) Error(msg string, args ...interface{}) { l.record(msg, args...) }
