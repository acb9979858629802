package services

import (
	"log/slog"

	"github.com/SAP-F-2025/courseware-service/internal/models"
)

// MainModelKey marks the primary model of a chapter inside a model set.
const MainModelKey = "main"

// ViewportNotifier is the outbound half of the renderer contract. All three
// commands are fire-and-forget; the viewport never acknowledges them.
type ViewportNotifier interface {
	SwitchTexture(modelID, textureID string)
	ApplyMask(textureID, hexColor string)
	RestoreTexture()
}

// SelectionService owns the model -> texture -> area cascade for one open
// viewer session. It is driven from a single dispatch goroutine; it is not
// safe for concurrent use.
type SelectionService interface {
	Initialize(modelSet map[string]*models.CourseModel, noTextureLabel string) error
	SelectModel(modelID string) error
	SelectTexture(textureID string) error
	SelectArea(hexColor *string) error

	State() models.SelectionState
	ModelIDs() []string
	TextureOptions() []models.TextureOption
	Areas() []models.TextureArea

	// ResolveArea looks a clicked color up in the full area map.
	ResolveArea(textureID, hexColor string) (models.TextureArea, bool)

	// ApplyResolvedClick applies a viewport click that the bridge resolved to
	// a known area. The whole chain runs with outbound notifications
	// suppressed so the click is not echoed back as an applyMask command.
	ApplyResolvedClick(area models.TextureArea) error
}

type selectionService struct {
	areaMap  AreaMapService
	notifier ViewportNotifier
	logger   *slog.Logger

	modelSet       map[string]*models.CourseModel
	orderedModels  []*models.CourseModel
	areas          []models.TextureArea
	noTextureLabel string

	state          models.SelectionState
	textureOptions []models.TextureOption
	currentAreas   []models.TextureArea

	initialized bool
	suppressed  bool
}

func NewSelectionService(areaMap AreaMapService, notifier ViewportNotifier, logger *slog.Logger) SelectionService {
	return &selectionService{
		areaMap:  areaMap,
		notifier: notifier,
		logger:   logger,
	}
}

// Initialize bootstraps the cascade from a model set. The model under the
// "main" key is selected when present, otherwise the first model in key
// order. Only this bootstrap auto-selects an area.
func (s *selectionService) Initialize(modelSet map[string]*models.CourseModel, noTextureLabel string) error {
	ordered := dedupeModels(modelSet)
	if len(ordered) == 0 {
		return ErrNoModelsAvailable
	}

	areas, err := s.areaMap.BuildAreaMap(modelSet, true)
	if err != nil {
		return err
	}

	s.modelSet = modelSet
	s.orderedModels = ordered
	s.areas = areas
	s.noTextureLabel = noTextureLabel
	s.initialized = true

	defaultModel := ordered[0]
	if main, ok := modelSet[MainModelKey]; ok && main != nil {
		defaultModel = main
	}

	s.applyModel(defaultModel.ID)

	// Bootstrap is the only place an area is auto-selected.
	if len(s.currentAreas) > 0 {
		color := s.currentAreas[0].HexColor
		s.state.AreaColor = &color
		s.notifyMask()
	}

	s.logger.Debug("selection initialized",
		"model_id", s.state.ModelID,
		"texture_id", s.state.TextureID,
		"areas", len(s.currentAreas))
	return nil
}

// SelectModel switches the cascade to another model, auto-selecting its
// first texture and, when that texture has areas, the first area.
func (s *selectionService) SelectModel(modelID string) error {
	if !s.initialized {
		return ErrSelectionNotReady
	}
	if s.findModel(modelID) == nil {
		return ErrModelNotFound
	}

	s.applyModel(modelID)

	if len(s.currentAreas) > 0 {
		color := s.currentAreas[0].HexColor
		s.state.AreaColor = &color
		s.notifyMask()
	}
	return nil
}

// SelectTexture switches the texture of the current model. A texture change
// never auto-selects an area: either the highlight is dropped (no areas) or
// the area selection is left empty for the user to pick.
func (s *selectionService) SelectTexture(textureID string) error {
	if !s.initialized {
		return ErrSelectionNotReady
	}
	if !s.textureBelongsToModel(textureID) {
		return ErrTextureNotInModel
	}

	s.state.TextureID = textureID
	s.state.AreaColor = nil
	s.currentAreas = s.areaMap.AreasForTexture(s.areas, textureID)
	s.notifyTexture()

	if len(s.currentAreas) == 0 {
		s.notifyRestore()
	}
	return nil
}

// SelectArea highlights one area of the current texture, or clears the
// highlight when called with nil.
func (s *selectionService) SelectArea(hexColor *string) error {
	if !s.initialized {
		return ErrSelectionNotReady
	}
	if hexColor == nil {
		s.state.AreaColor = nil
		s.notifyRestore()
		return nil
	}

	if _, ok := s.areaMap.FindArea(s.currentAreas, s.state.TextureID, *hexColor); !ok {
		return ErrAreaNotInTexture
	}

	color := *hexColor
	s.state.AreaColor = &color
	s.notifyMask()
	return nil
}

func (s *selectionService) ResolveArea(textureID, hexColor string) (models.TextureArea, bool) {
	area, ok := s.areaMap.FindArea(s.areas, textureID, hexColor)
	if !ok {
		return models.TextureArea{}, false
	}
	return *area, true
}

func (s *selectionService) ApplyResolvedClick(area models.TextureArea) error {
	if !s.initialized {
		return ErrSelectionNotReady
	}

	// Suppression covers exactly this chain; a later user action must
	// notify the viewport again.
	s.suppressed = true
	defer func() { s.suppressed = false }()

	if err := s.SelectModel(area.ModelID); err != nil {
		return err
	}
	if err := s.SelectTexture(area.TextureID); err != nil {
		return err
	}
	return s.SelectArea(&area.HexColor)
}

func (s *selectionService) State() models.SelectionState {
	return s.state
}

func (s *selectionService) ModelIDs() []string {
	ids := make([]string, 0, len(s.orderedModels))
	for _, m := range s.orderedModels {
		ids = append(ids, m.ID)
	}
	return ids
}

func (s *selectionService) TextureOptions() []models.TextureOption {
	out := make([]models.TextureOption, len(s.textureOptions))
	copy(out, s.textureOptions)
	return out
}

func (s *selectionService) Areas() []models.TextureArea {
	out := make([]models.TextureArea, len(s.currentAreas))
	copy(out, s.currentAreas)
	return out
}

// ===== INTERNAL STATE TRANSITIONS =====

// applyModel re-derives the texture list for the model, selects its first
// texture and recomputes the area list. Callers decide whether an area gets
// auto-selected afterwards.
func (s *selectionService) applyModel(modelID string) {
	model := s.findModel(modelID)

	s.state.ModelID = modelID
	s.textureOptions = s.deriveTextureOptions(model)

	first := s.textureOptions[0]
	s.state.TextureID = first.ID
	s.state.AreaColor = nil
	s.currentAreas = s.areaMap.AreasForTexture(s.areas, first.ID)
	s.notifyTexture()
}

// deriveTextureOptions lists the model's textures main-first. A model with
// no textures gets one placeholder entry so the select list never goes
// empty; the placeholder carries an empty ID and no areas.
func (s *selectionService) deriveTextureOptions(model *models.CourseModel) []models.TextureOption {
	options := make([]models.TextureOption, 0, len(model.Textures))
	for _, t := range model.Textures {
		if t.IsMain {
			options = append(options, models.TextureOption{ID: t.ID, Label: t.Name, IsMain: true})
		}
	}
	for _, t := range model.Textures {
		if !t.IsMain {
			options = append(options, models.TextureOption{ID: t.ID, Label: t.Name})
		}
	}
	if len(options) == 0 {
		options = append(options, models.TextureOption{ID: "", Label: s.noTextureLabel})
	}
	return options
}

func (s *selectionService) findModel(modelID string) *models.CourseModel {
	for _, m := range s.orderedModels {
		if m.ID == modelID {
			return m
		}
	}
	return nil
}

func (s *selectionService) textureBelongsToModel(textureID string) bool {
	for _, opt := range s.textureOptions {
		if opt.ID == textureID {
			return true
		}
	}
	return false
}

// ===== OUTBOUND NOTIFICATIONS =====

func (s *selectionService) notifyTexture() {
	if s.suppressed || s.notifier == nil {
		return
	}
	s.notifier.SwitchTexture(s.state.ModelID, s.state.TextureID)
}

func (s *selectionService) notifyMask() {
	if s.suppressed || s.notifier == nil {
		return
	}
	s.notifier.ApplyMask(s.state.TextureID, *s.state.AreaColor)
}

func (s *selectionService) notifyRestore() {
	if s.suppressed || s.notifier == nil {
		return
	}
	s.notifier.RestoreTexture()
}
