package services

import (
	"testing"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCommand struct {
	kind      string
	modelID   string
	textureID string
	hexColor  string
}

// recordingNotifier captures outbound viewport commands for assertions.
type recordingNotifier struct {
	commands []recordedCommand
}

func (n *recordingNotifier) SwitchTexture(modelID, textureID string) {
	n.commands = append(n.commands, recordedCommand{kind: "switchTexture", modelID: modelID, textureID: textureID})
}

func (n *recordingNotifier) ApplyMask(textureID, hexColor string) {
	n.commands = append(n.commands, recordedCommand{kind: "applyMask", textureID: textureID, hexColor: hexColor})
}

func (n *recordingNotifier) RestoreTexture() {
	n.commands = append(n.commands, recordedCommand{kind: "restoreTexture"})
}

func (n *recordingNotifier) reset() {
	n.commands = nil
}

func testModelSet() map[string]*models.CourseModel {
	heart := &models.CourseModel{
		ID:   "heart",
		Name: "Heart",
		Textures: []models.Texture{
			{ID: "heart-main", ModelID: "heart", Name: "Overview", IsMain: true,
				AreasCSV: strPtr("FF0000;Left ventricle\n00FF00;Right ventricle")},
			{ID: "heart-valves", ModelID: "heart", Name: "Valves",
				AreasCSV: strPtr("0000FF;Mitral valve")},
			{ID: "heart-plain", ModelID: "heart", Name: "Plain"},
		},
	}
	lung := &models.CourseModel{
		ID:   "lung",
		Name: "Lung",
		Textures: []models.Texture{
			{ID: "lung-main", ModelID: "lung", Name: "Overview", IsMain: true,
				AreasCSV: strPtr("AABB00;Upper lobe")},
		},
	}
	bare := &models.CourseModel{ID: "bare", Name: "Untextured"}

	return map[string]*models.CourseModel{
		"main": heart,
		"sub1": lung,
		"sub2": bare,
	}
}

func newTestSelection(t *testing.T) (SelectionService, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	selection := NewSelectionService(NewAreaMapService(testLogger()), notifier, testLogger())
	require.NoError(t, selection.Initialize(testModelSet(), "No texture"))
	return selection, notifier
}

func TestSelectionInitialize(t *testing.T) {
	selection, notifier := newTestSelection(t)

	state := selection.State()
	assert.Equal(t, "heart", state.ModelID, "the model under the main key is the default")
	assert.Equal(t, "heart-main", state.TextureID, "the main texture is selected first")
	require.NotNil(t, state.AreaColor)
	assert.Equal(t, "FF0000", *state.AreaColor, "bootstrap auto-selects the first area")

	assert.Equal(t, []string{"heart", "lung", "bare"}, selection.ModelIDs())

	options := selection.TextureOptions()
	require.Len(t, options, 3)
	assert.True(t, options[0].IsMain)
	assert.Equal(t, "heart-main", options[0].ID)

	require.Len(t, notifier.commands, 2)
	assert.Equal(t, "switchTexture", notifier.commands[0].kind)
	assert.Equal(t, "applyMask", notifier.commands[1].kind)
	assert.Equal(t, "FF0000", notifier.commands[1].hexColor)
}

func TestSelectionInitialize_EmptyModelSet(t *testing.T) {
	selection := NewSelectionService(NewAreaMapService(testLogger()), &recordingNotifier{}, testLogger())
	err := selection.Initialize(map[string]*models.CourseModel{}, "No texture")
	assert.ErrorIs(t, err, ErrNoModelsAvailable)
}

func TestSelectionInitialize_NoMainKeyFallsBackToFirst(t *testing.T) {
	modelSet := map[string]*models.CourseModel{
		"sub2": {ID: "b-model", Name: "B", Textures: []models.Texture{{ID: "b-tex", ModelID: "b-model", Name: "B"}}},
		"sub1": {ID: "a-model", Name: "A", Textures: []models.Texture{{ID: "a-tex", ModelID: "a-model", Name: "A"}}},
	}

	selection := NewSelectionService(NewAreaMapService(testLogger()), &recordingNotifier{}, testLogger())
	require.NoError(t, selection.Initialize(modelSet, "No texture"))
	assert.Equal(t, "a-model", selection.State().ModelID, "first model in key order when no main entry exists")
}

func TestSelectModel(t *testing.T) {
	selection, notifier := newTestSelection(t)
	notifier.reset()

	require.NoError(t, selection.SelectModel("lung"))

	state := selection.State()
	assert.Equal(t, "lung", state.ModelID)
	assert.Equal(t, "lung-main", state.TextureID)
	require.NotNil(t, state.AreaColor)
	assert.Equal(t, "AABB00", *state.AreaColor, "a model switch auto-selects the first area")

	areas := selection.Areas()
	require.Len(t, areas, 1)
	assert.Equal(t, "Upper lobe", areas[0].AreaName)

	require.Len(t, notifier.commands, 2)
	assert.Equal(t, "switchTexture", notifier.commands[0].kind)
	assert.Equal(t, "applyMask", notifier.commands[1].kind)
}

func TestSelectModel_Unknown(t *testing.T) {
	selection, _ := newTestSelection(t)

	before := selection.State()
	err := selection.SelectModel("does-not-exist")
	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.Equal(t, before, selection.State(), "a rejected switch leaves the cascade untouched")
}

func TestSelectModel_PlaceholderTexture(t *testing.T) {
	selection, notifier := newTestSelection(t)
	notifier.reset()

	require.NoError(t, selection.SelectModel("bare"))

	options := selection.TextureOptions()
	require.Len(t, options, 1)
	assert.Equal(t, "", options[0].ID)
	assert.Equal(t, "No texture", options[0].Label)

	state := selection.State()
	assert.Equal(t, "", state.TextureID)
	assert.Nil(t, state.AreaColor)
	assert.Empty(t, selection.Areas())
}

func TestSelectTexture(t *testing.T) {
	selection, notifier := newTestSelection(t)

	t.Run("no auto-selected area", func(t *testing.T) {
		notifier.reset()

		require.NoError(t, selection.SelectTexture("heart-valves"))

		state := selection.State()
		assert.Equal(t, "heart-valves", state.TextureID)
		assert.Nil(t, state.AreaColor, "a texture change never auto-selects an area")

		areas := selection.Areas()
		require.Len(t, areas, 1)
		assert.Equal(t, "Mitral valve", areas[0].AreaName)

		require.Len(t, notifier.commands, 1)
		assert.Equal(t, "switchTexture", notifier.commands[0].kind)
	})

	t.Run("texture without areas restores the viewport", func(t *testing.T) {
		notifier.reset()

		require.NoError(t, selection.SelectTexture("heart-plain"))

		assert.Empty(t, selection.Areas())
		require.Len(t, notifier.commands, 2)
		assert.Equal(t, "switchTexture", notifier.commands[0].kind)
		assert.Equal(t, "restoreTexture", notifier.commands[1].kind)
	})

	t.Run("texture of another model is rejected", func(t *testing.T) {
		err := selection.SelectTexture("lung-main")
		assert.ErrorIs(t, err, ErrTextureNotInModel)
	})
}

func TestSelectArea(t *testing.T) {
	selection, notifier := newTestSelection(t)

	t.Run("valid area", func(t *testing.T) {
		notifier.reset()

		color := "00FF00"
		require.NoError(t, selection.SelectArea(&color))

		state := selection.State()
		require.NotNil(t, state.AreaColor)
		assert.Equal(t, "00FF00", *state.AreaColor)

		require.Len(t, notifier.commands, 1)
		assert.Equal(t, "applyMask", notifier.commands[0].kind)
		assert.Equal(t, "00FF00", notifier.commands[0].hexColor)
	})

	t.Run("unknown color", func(t *testing.T) {
		color := "123456"
		err := selection.SelectArea(&color)
		assert.ErrorIs(t, err, ErrAreaNotInTexture)
	})

	t.Run("nil clears the highlight", func(t *testing.T) {
		notifier.reset()

		require.NoError(t, selection.SelectArea(nil))
		assert.Nil(t, selection.State().AreaColor)

		require.Len(t, notifier.commands, 1)
		assert.Equal(t, "restoreTexture", notifier.commands[0].kind)
	})
}

func TestSelection_NotInitialized(t *testing.T) {
	selection := NewSelectionService(NewAreaMapService(testLogger()), &recordingNotifier{}, testLogger())

	assert.ErrorIs(t, selection.SelectModel("heart"), ErrSelectionNotReady)
	assert.ErrorIs(t, selection.SelectTexture("heart-main"), ErrSelectionNotReady)
	assert.ErrorIs(t, selection.SelectArea(nil), ErrSelectionNotReady)
	assert.ErrorIs(t, selection.ApplyResolvedClick(models.TextureArea{}), ErrSelectionNotReady)
}

func TestApplyResolvedClick(t *testing.T) {
	selection, notifier := newTestSelection(t)
	notifier.reset()

	area, ok := selection.ResolveArea("heart-valves", "0000FF")
	require.True(t, ok)

	require.NoError(t, selection.ApplyResolvedClick(area))

	state := selection.State()
	assert.Equal(t, "heart", state.ModelID)
	assert.Equal(t, "heart-valves", state.TextureID)
	require.NotNil(t, state.AreaColor)
	assert.Equal(t, "0000FF", *state.AreaColor)

	assert.Empty(t, notifier.commands, "a resolved click must not be echoed back to the viewport")

	// Suppression lasts only for the resolved chain.
	require.NoError(t, selection.SelectArea(nil))
	require.Len(t, notifier.commands, 1)
	assert.Equal(t, "restoreTexture", notifier.commands[0].kind)
}

func TestSelectionCascadeScenario(t *testing.T) {
	selection, _ := newTestSelection(t)

	// Walk the full cascade and verify every level stays consistent with
	// the one above it.
	require.NoError(t, selection.SelectModel("lung"))
	require.NoError(t, selection.SelectModel("heart"))
	require.NoError(t, selection.SelectTexture("heart-valves"))

	color := "0000FF"
	require.NoError(t, selection.SelectArea(&color))

	state := selection.State()
	assert.Equal(t, "heart", state.ModelID)
	assert.Equal(t, "heart-valves", state.TextureID)
	require.NotNil(t, state.AreaColor)

	for _, area := range selection.Areas() {
		assert.Equal(t, state.TextureID, area.TextureID)
		assert.Equal(t, state.ModelID, area.ModelID)
	}
}
