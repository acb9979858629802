package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/SAP-F-2025/courseware-service/internal/repositories"
)

// SelectionView is the selection state plus the derived lists the view
// renders its select boxes from.
type SelectionView struct {
	State    models.SelectionState  `json:"state"`
	ModelIDs []string               `json:"model_ids"`
	Textures []models.TextureOption `json:"textures"`
	Areas    []models.TextureArea   `json:"areas"`
}

// SessionManager wires one viewer session: it loads the chapter's model set,
// bootstraps the selection cascade and keeps the viewport bridge bound to
// it. One session per open view; calls arrive from a single dispatch
// goroutine.
type SessionManager struct {
	repo           repositories.CoursewareRepository
	areaMap        AreaMapService
	selection      SelectionService
	bridge         *ViewportBridge
	logger         *slog.Logger
	noTextureLabel string

	opened bool
}

func NewSessionManager(
	repo repositories.CoursewareRepository,
	areaMap AreaMapService,
	bridge *ViewportBridge,
	noTextureLabel string,
	logger *slog.Logger,
) *SessionManager {
	selection := NewSelectionService(areaMap, bridge, logger)
	bridge.Bind(selection)

	return &SessionManager{
		repo:           repo,
		areaMap:        areaMap,
		selection:      selection,
		bridge:         bridge,
		logger:         logger,
		noTextureLabel: noTextureLabel,
	}
}

// BuildAreaMap builds a fresh area map for a chapter without touching the
// session's selection state.
func (m *SessionManager) BuildAreaMap(ctx context.Context, chapterID uint) ([]models.TextureArea, error) {
	modelSet, err := m.repo.GetModelSet(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load model set: %w", err)
	}
	return m.areaMap.BuildAreaMap(modelSet, true)
}

// Open loads a chapter's model set and bootstraps the cascade on it.
func (m *SessionManager) Open(ctx context.Context, chapterID uint) (*SelectionView, error) {
	modelSet, err := m.repo.GetModelSet(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load model set: %w", err)
	}

	if err := m.selection.Initialize(modelSet, m.noTextureLabel); err != nil {
		return nil, err
	}
	m.opened = true

	m.logger.Info("viewer session opened", "chapter_id", chapterID)
	return m.view(), nil
}

func (m *SessionManager) SelectionView() (*SelectionView, error) {
	if !m.opened {
		return nil, ErrSelectionNotReady
	}
	return m.view(), nil
}

func (m *SessionManager) SelectModel(modelID string) (*SelectionView, error) {
	if err := m.selection.SelectModel(modelID); err != nil {
		return nil, err
	}
	return m.view(), nil
}

func (m *SessionManager) SelectTexture(textureID string) (*SelectionView, error) {
	if err := m.selection.SelectTexture(textureID); err != nil {
		return nil, err
	}
	return m.view(), nil
}

func (m *SessionManager) SelectArea(hexColor *string) (*SelectionView, error) {
	if err := m.selection.SelectArea(hexColor); err != nil {
		return nil, err
	}
	return m.view(), nil
}

// Run drives the inbound half of the viewport bridge until ctx is done.
func (m *SessionManager) Run(ctx context.Context) error {
	return m.bridge.Run(ctx)
}

func (m *SessionManager) view() *SelectionView {
	return &SelectionView{
		State:    m.selection.State(),
		ModelIDs: m.selection.ModelIDs(),
		Textures: m.selection.TextureOptions(),
		Areas:    m.selection.Areas(),
	}
}
