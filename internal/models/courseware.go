package models

import (
	"time"
)

// CourseModel is a 3D model attached to course content. The interaction core
// treats it as read-only input; authoring/CRUD lives in the courseware API.
type CourseModel struct {
	ID   string `json:"id" gorm:"primaryKey;size:64"`
	Name string `json:"name" gorm:"not null;size:200" validate:"required,max=200"`

	CreatedBy string    `json:"created_by" gorm:"index;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Textures []Texture `json:"textures" gorm:"foreignKey:ModelID"`
}

func (CourseModel) TableName() string {
	return "course_models"
}

// Texture belongs to exactly one CourseModel. AreasCSV holds the raw
// `<hexColor>;<areaName>` line format; it is parsed on demand and never
// stored in parsed form.
type Texture struct {
	ID      string `json:"id" gorm:"primaryKey;size:64"`
	ModelID string `json:"model_id" gorm:"not null;index;size:64"`
	Name    string `json:"name" gorm:"not null;size:200" validate:"required,max=200"`
	IsMain  bool   `json:"is_main" gorm:"default:false"`

	AreasCSV *string `json:"areas_csv" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Texture) TableName() string {
	return "textures"
}

// TextureArea is one colored clickable region on a texture, derived from a
// row of the texture's CSV. Never persisted; rebuilt on every area-map build.
type TextureArea struct {
	TextureID string `json:"texture_id"`
	ModelID   string `json:"model_id"`
	HexColor  string `json:"hex_color"`
	AreaName  string `json:"area_name"`
}

// SelectionState is the current model -> texture -> area cascade. AreaColor
// is nil when no area is highlighted. TextureID always belongs to ModelID's
// texture set and AreaColor (when set) to TextureID's area set.
type SelectionState struct {
	ModelID   string  `json:"model_id"`
	TextureID string  `json:"texture_id"`
	AreaColor *string `json:"area_color"`
}

// TextureOption is one entry of the texture select list derived for the
// currently selected model. Placeholder entries carry an empty ID.
type TextureOption struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	IsMain bool   `json:"is_main"`
}
