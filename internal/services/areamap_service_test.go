package services

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/SAP-F-2025/courseware-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func strPtr(s string) *string {
	return &s
}

func modelWithCSV(id string, csv string) *models.CourseModel {
	return &models.CourseModel{
		ID:   id,
		Name: "Model " + id,
		Textures: []models.Texture{
			{ID: id + "-tex", ModelID: id, Name: "Texture", IsMain: true, AreasCSV: strPtr(csv)},
		},
	}
}

func TestBuildAreaMap_WellFormedCSV(t *testing.T) {
	service := NewAreaMapService(testLogger())

	modelSet := map[string]*models.CourseModel{
		"main": modelWithCSV("heart", "FF0000;Left ventricle\n00FF00;Right ventricle\n0000FF;Aorta"),
	}

	areas, err := service.BuildAreaMap(modelSet, true)
	require.NoError(t, err)
	require.Len(t, areas, 3)

	assert.Equal(t, "FF0000", areas[0].HexColor)
	assert.Equal(t, "Left ventricle", areas[0].AreaName)
	assert.Equal(t, "heart-tex", areas[0].TextureID)
	assert.Equal(t, "heart", areas[0].ModelID)
	assert.Equal(t, "Aorta", areas[2].AreaName)
}

func TestBuildAreaMap_LineEndingsAndBlanks(t *testing.T) {
	service := NewAreaMapService(testLogger())

	t.Run("CRLF", func(t *testing.T) {
		modelSet := map[string]*models.CourseModel{
			"main": modelWithCSV("m1", "AA0000;One\r\nBB0000;Two"),
		}
		areas, err := service.BuildAreaMap(modelSet, true)
		require.NoError(t, err)
		assert.Len(t, areas, 2)
	})

	t.Run("CR only", func(t *testing.T) {
		modelSet := map[string]*models.CourseModel{
			"main": modelWithCSV("m1", "AA0000;One\rBB0000;Two"),
		}
		areas, err := service.BuildAreaMap(modelSet, true)
		require.NoError(t, err)
		assert.Len(t, areas, 2)
	})

	t.Run("blank lines and padding ignored", func(t *testing.T) {
		modelSet := map[string]*models.CourseModel{
			"main": modelWithCSV("m1", "\n  AA0000 ; One \n\n\nBB0000;Two\n  \n"),
		}
		areas, err := service.BuildAreaMap(modelSet, true)
		require.NoError(t, err)
		require.Len(t, areas, 2)
		assert.Equal(t, "AA0000", areas[0].HexColor)
		assert.Equal(t, "One", areas[0].AreaName)
	})
}

func TestBuildAreaMap_MalformedRowFailsWholeBuild(t *testing.T) {
	service := NewAreaMapService(testLogger())

	t.Run("missing separator", func(t *testing.T) {
		modelSet := map[string]*models.CourseModel{
			"main": modelWithCSV("m1", "AA0000;One\nBB0000 Two\nCC0000;Three"),
		}
		areas, err := service.BuildAreaMap(modelSet, true)
		require.Error(t, err)
		assert.Nil(t, areas)
		assert.True(t, errors.Is(err, ErrAreaMapFormat))

		var fe *FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "BB0000 Two", fe.Line)
		assert.Equal(t, "m1-tex", fe.TextureID)
	})

	t.Run("too many fields", func(t *testing.T) {
		modelSet := map[string]*models.CourseModel{
			"main": modelWithCSV("m1", "AA0000;One;extra"),
		}
		_, err := service.BuildAreaMap(modelSet, true)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrAreaMapFormat))
	})

	t.Run("failure in second model aborts everything", func(t *testing.T) {
		modelSet := map[string]*models.CourseModel{
			"main": modelWithCSV("m1", "AA0000;One"),
			"sub1": modelWithCSV("m2", "broken"),
		}
		areas, err := service.BuildAreaMap(modelSet, true)
		require.Error(t, err)
		assert.Nil(t, areas)
	})
}

func TestBuildAreaMap_DeduplicatesByModelID(t *testing.T) {
	service := NewAreaMapService(testLogger())

	shared := modelWithCSV("shared", "AA0000;One\nBB0000;Two")
	modelSet := map[string]*models.CourseModel{
		"main": shared,
		"sub1": shared,
		"sub2": {ID: "shared", Name: "Same id, other entry", Textures: shared.Textures},
	}

	areas, err := service.BuildAreaMap(modelSet, true)
	require.NoError(t, err)
	assert.Len(t, areas, 2, "shared model must contribute its areas once")
}

func TestBuildAreaMap_EmptyCSVProducesNoAreas(t *testing.T) {
	service := NewAreaMapService(testLogger())

	modelSet := map[string]*models.CourseModel{
		"main": {
			ID:   "m1",
			Name: "No areas",
			Textures: []models.Texture{
				{ID: "t1", ModelID: "m1", Name: "Plain", IsMain: true},
				{ID: "t2", ModelID: "m1", Name: "Blank", AreasCSV: strPtr("   ")},
			},
		},
	}

	areas, err := service.BuildAreaMap(modelSet, true)
	require.NoError(t, err)
	assert.Empty(t, areas)
}

func TestBuildAreaMap_TextureOrdering(t *testing.T) {
	service := NewAreaMapService(testLogger())

	model := &models.CourseModel{
		ID:   "m1",
		Name: "Ordering",
		Textures: []models.Texture{
			{ID: "t-detail", ModelID: "m1", Name: "Detail", AreasCSV: strPtr("BB0000;Detail area")},
			{ID: "t-main", ModelID: "m1", Name: "Main", IsMain: true, AreasCSV: strPtr("AA0000;Main area")},
		},
	}
	modelSet := map[string]*models.CourseModel{"main": model}

	t.Run("main texture first when included", func(t *testing.T) {
		areas, err := service.BuildAreaMap(modelSet, true)
		require.NoError(t, err)
		require.Len(t, areas, 2)
		assert.Equal(t, "t-main", areas[0].TextureID)
		assert.Equal(t, "t-detail", areas[1].TextureID)
	})

	t.Run("main texture skipped when excluded", func(t *testing.T) {
		areas, err := service.BuildAreaMap(modelSet, false)
		require.NoError(t, err)
		require.Len(t, areas, 1)
		assert.Equal(t, "t-detail", areas[0].TextureID)
	})
}

func TestAreasForTextureAndFindArea(t *testing.T) {
	service := NewAreaMapService(testLogger())

	areas := []models.TextureArea{
		{TextureID: "t1", ModelID: "m1", HexColor: "AA0000", AreaName: "One"},
		{TextureID: "t2", ModelID: "m1", HexColor: "BB0000", AreaName: "Two"},
		{TextureID: "t1", ModelID: "m1", HexColor: "CC0000", AreaName: "Three"},
	}

	filtered := service.AreasForTexture(areas, "t1")
	require.Len(t, filtered, 2)
	assert.Equal(t, "One", filtered[0].AreaName)
	assert.Equal(t, "Three", filtered[1].AreaName)

	area, ok := service.FindArea(areas, "t2", "BB0000")
	require.True(t, ok)
	assert.Equal(t, "Two", area.AreaName)

	_, ok = service.FindArea(areas, "t2", "ZZ9999")
	assert.False(t, ok)
}
