package services

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/SAP-F-2025/courseware-service/internal/models"
)

// AreaMapService builds the flat list of clickable texture areas from the
// raw CSV definitions carried on each texture. Stateless: every call parses
// from scratch, so the output always reflects the current model set.
type AreaMapService interface {
	BuildAreaMap(modelSet map[string]*models.CourseModel, includeMain bool) ([]models.TextureArea, error)
	AreasForTexture(areas []models.TextureArea, textureID string) []models.TextureArea
	FindArea(areas []models.TextureArea, textureID, hexColor string) (*models.TextureArea, bool)
}

type areaMapService struct {
	logger *slog.Logger
}

func NewAreaMapService(logger *slog.Logger) AreaMapService {
	return &areaMapService{logger: logger}
}

// BuildAreaMap walks the model set in iteration order, deduplicates entries
// that point at the same model id (first occurrence wins) and parses every
// texture's CSV into TextureArea records. When includeMain is true the main
// texture's areas come first for each model; otherwise main textures are
// skipped entirely.
//
// Parsing is fail-fast: one malformed row anywhere aborts the whole build
// and no partial list is returned.
func (s *areaMapService) BuildAreaMap(modelSet map[string]*models.CourseModel, includeMain bool) ([]models.TextureArea, error) {
	uniqueModels := dedupeModels(modelSet)

	areas := make([]models.TextureArea, 0)
	for _, model := range uniqueModels {
		for _, texture := range orderedTextures(model, includeMain) {
			parsed, err := parseAreaCSV(texture, model.ID)
			if err != nil {
				s.logger.Warn("area map build aborted",
					"model_id", model.ID,
					"texture_id", texture.ID,
					"error", err)
				return nil, err
			}
			areas = append(areas, parsed...)
		}
	}

	s.logger.Debug("area map built", "models", len(uniqueModels), "areas", len(areas))
	return areas, nil
}

// AreasForTexture filters a built area map down to one texture, preserving
// build order.
func (s *areaMapService) AreasForTexture(areas []models.TextureArea, textureID string) []models.TextureArea {
	filtered := make([]models.TextureArea, 0)
	for _, area := range areas {
		if area.TextureID == textureID {
			filtered = append(filtered, area)
		}
	}
	return filtered
}

// FindArea resolves a clicked color against the area map.
func (s *areaMapService) FindArea(areas []models.TextureArea, textureID, hexColor string) (*models.TextureArea, bool) {
	for i := range areas {
		if areas[i].TextureID == textureID && areas[i].HexColor == hexColor {
			return &areas[i], true
		}
	}
	return nil, false
}

// dedupeModels collapses map entries referencing the same model id, keeping
// the first occurrence in iteration order. Go map iteration order is not
// stable, so the map keys are walked in sorted order to keep the output
// deterministic for a given model set.
func dedupeModels(modelSet map[string]*models.CourseModel) []*models.CourseModel {
	keys := sortedKeys(modelSet)

	seen := make(map[string]bool, len(modelSet))
	unique := make([]*models.CourseModel, 0, len(modelSet))
	for _, key := range keys {
		model := modelSet[key]
		if model == nil || seen[model.ID] {
			continue
		}
		seen[model.ID] = true
		unique = append(unique, model)
	}
	return unique
}

// sortedKeys orders map keys with "main" first, then lexicographically. The
// "main" key convention marks the primary model of a chapter and its areas
// lead the list.
func sortedKeys(modelSet map[string]*models.CourseModel) []string {
	keys := make([]string, 0, len(modelSet))
	hasMain := false
	for key := range modelSet {
		if key == MainModelKey {
			hasMain = true
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if hasMain {
		keys = append([]string{MainModelKey}, keys...)
	}
	return keys
}

// orderedTextures returns the model's textures in parse order: the main
// texture first when includeMain is set, then the rest in storage order.
// With includeMain unset, main textures are excluded.
func orderedTextures(model *models.CourseModel, includeMain bool) []models.Texture {
	ordered := make([]models.Texture, 0, len(model.Textures))
	if includeMain {
		for _, t := range model.Textures {
			if t.IsMain {
				ordered = append(ordered, t)
			}
		}
	}
	for _, t := range model.Textures {
		if !t.IsMain {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

// parseAreaCSV parses one texture's `<hexColor>;<areaName>` rows. Lines may
// be separated by \n, \r\n or \r; blank lines are skipped. A row that does
// not split into exactly two fields fails the whole texture.
func parseAreaCSV(texture models.Texture, modelID string) ([]models.TextureArea, error) {
	if texture.AreasCSV == nil || strings.TrimSpace(*texture.AreasCSV) == "" {
		return nil, nil
	}

	normalized := strings.ReplaceAll(*texture.AreasCSV, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	var areas []models.TextureArea
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, ";")
		if len(fields) != 2 {
			return nil, &FormatError{
				TextureID: texture.ID,
				Line:      line,
				Reason:    "expected exactly two ';'-separated fields",
			}
		}

		areas = append(areas, models.TextureArea{
			TextureID: texture.ID,
			ModelID:   modelID,
			HexColor:  strings.TrimSpace(fields[0]),
			AreaName:  strings.TrimSpace(fields[1]),
		})
	}
	return areas, nil
}
