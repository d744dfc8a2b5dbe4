package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

// TemplateExtensions lists accepted template filename suffixes, compared case-insensitively
var TemplateExtensions = []string{".pptx", ".potx"}

// GenerateRequest carries one text-to-deck request
type GenerateRequest struct {
	Text         string
	Guidance     string
	Provider     string
	Credential   entities.Credential
	TemplateName string
	Template     io.Reader
}

// GenerateResult is a finished deck inside its request workspace.
// Callers deliver Path and then call Release.
type GenerateResult struct {
	Path    string
	Summary *entities.DeckSummary
	Outline entities.Outline
	Source  entities.OutlineSource

	workspace ports.Workspace
	keep      bool
}

// Release deletes the request workspace unless outputs are kept
func (r *GenerateResult) Release() error {
	if r == nil || r.workspace == nil || r.keep {
		return nil
	}
	return r.workspace.Release()
}

// DeckService runs the outline and assembly pipeline
type DeckService struct {
	generator   ports.OutlineGenerator
	assembler   ports.DeckAssembler
	store       ports.WorkspaceStore
	logger      ports.Logger
	keepOutputs bool
}

// NewDeckService creates a new deck service
func NewDeckService(
	generator ports.OutlineGenerator,
	assembler ports.DeckAssembler,
	store ports.WorkspaceStore,
	logger ports.Logger,
	keepOutputs bool,
) *DeckService {
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &DeckService{
		generator:   generator,
		assembler:   assembler,
		store:       store,
		logger:      logger,
		keepOutputs: keepOutputs,
	}
}

// ValidateTemplateName checks the template filename suffix
func ValidateTemplateName(name string) error {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, ext := range TemplateExtensions {
		if strings.HasSuffix(lower, ext) {
			return nil
		}
	}
	return entities.NewValidationError("Template must be .pptx or .potx file")
}

// ValidateOutlineRequest checks the text and credential of a request
func ValidateOutlineRequest(req entities.OutlineRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return entities.NewValidationError("input_text is required")
	}
	if req.Credential.IsEmpty() {
		return entities.NewValidationError("api_key is required")
	}
	return nil
}

// Generate validates the request, then stores the template in a fresh workspace,
// builds the outline and assembles the deck. Nothing is written before validation passes.
// On failure the workspace is removed and no partial output remains.
func (s *DeckService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	if err := ValidateTemplateName(req.TemplateName); err != nil {
		return nil, err
	}
	outlineReq := entities.OutlineRequest{
		Text:       req.Text,
		Guidance:   req.Guidance,
		Provider:   req.Provider,
		Credential: req.Credential,
	}
	if err := ValidateOutlineRequest(outlineReq); err != nil {
		return nil, err
	}
	if req.Template == nil {
		return nil, entities.NewValidationError("template_file is required")
	}

	ws, err := s.store.Create(ctx)
	if err != nil {
		return nil, entities.NewStorageError("creating workspace", err)
	}

	result, err := s.generateIn(ctx, ws, req, outlineReq)
	if err != nil {
		if releaseErr := ws.Release(); releaseErr != nil {
			s.logger.Warn("releasing workspace %s: %v", ws.ID(), releaseErr)
		}
		return nil, err
	}
	return result, nil
}

func (s *DeckService) generateIn(ctx context.Context, ws ports.Workspace, req GenerateRequest, outlineReq entities.OutlineRequest) (*GenerateResult, error) {
	templatePath, err := ws.SaveTemplate(req.TemplateName, req.Template)
	if err != nil {
		return nil, entities.NewStorageError("saving template", err)
	}

	outline, source := s.generator.Generate(ctx, outlineReq)
	s.logger.Info("workspace %s: %d slides from %s outline", ws.ID(), len(outline), source)

	summary, err := s.assembler.Assemble(ctx, outline, templatePath, ws.OutputPath())
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		Path:      summary.OutputPath,
		Summary:   summary,
		Outline:   outline,
		Source:    source,
		workspace: ws,
		keep:      s.keepOutputs,
	}, nil
}

// Preview returns the outline a request would produce without touching a template
func (s *DeckService) Preview(ctx context.Context, req entities.OutlineRequest) (entities.Outline, entities.OutlineSource, error) {
	if err := ValidateOutlineRequest(req); err != nil {
		return nil, "", err
	}
	outline, source := s.generator.Generate(ctx, req)
	return outline, source, nil
}

// Build assembles an existing outline into outputPath. Used by the offline CLI.
func (s *DeckService) Build(ctx context.Context, outline entities.Outline, templatePath, outputPath string) (*entities.DeckSummary, error) {
	if err := ValidateTemplateName(templatePath); err != nil {
		return nil, err
	}
	if err := outline.Validate(); err != nil {
		return nil, entities.NewValidationError(fmt.Sprintf("invalid outline: %v", err))
	}

	same, err := samePath(templatePath, outputPath)
	if err != nil {
		return nil, entities.NewStorageError("resolving paths", err)
	}
	if same {
		return nil, entities.NewValidationError("output path must differ from the template path")
	}

	return s.assembler.Assemble(ctx, outline, templatePath, outputPath)
}

func samePath(a, b string) (bool, error) {
	absA, err := filepath.Abs(a)
	if err != nil {
		return false, err
	}
	absB, err := filepath.Abs(b)
	if err != nil {
		return false, err
	}
	return absA == absB, nil
}
