package types

import "github.com/go-playground/validator/v10"

// AnalyzeRequest is the JSON body accepted by POST /analyses when the
// resume is not sent as multipart form data.
type AnalyzeRequest struct {
	FileName string `json:"file_name" validate:"required,min=1"`
	Format   string `json:"format" validate:"required,oneof=pdf docx"`
	Content  string `json:"content" validate:"required"` // base64-encoded document bytes
	Stream   bool   `json:"stream,omitempty"`
}

// SkillGapRequest is the JSON body accepted by POST /skill-gap.
type SkillGapRequest struct {
	Role         string   `json:"role" validate:"required,min=2"`
	ResumeSkills []string `json:"resume_skills" validate:"required,min=1,dive,min=1"`
	Country      string   `json:"country,omitempty" validate:"omitempty,len=2"`
}

// TokenRequest is the JSON body accepted by POST /auth/token.
type TokenRequest struct {
	Password string `json:"password" validate:"required"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SkillGapRequest using the validator.
func (r *SkillGapRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the TokenRequest using the validator.
func (r *TokenRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
