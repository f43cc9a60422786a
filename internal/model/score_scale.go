package model

// ScoreScale maps a raw score to a published scaled score. A nil SectionID
// marks a composite row.
type ScoreScale struct {
	ID          uint  `gorm:"primarykey" json:"id"`
	TestID      uint  `json:"test_id" gorm:"not null;index:idx_score_scale_lookup,priority:1"`
	SectionID   *uint `json:"section_id,omitempty" gorm:"index:idx_score_scale_lookup,priority:2"`
	RawScore    int   `json:"raw_score" gorm:"not null;index:idx_score_scale_lookup,priority:3"`
	ScaledScore int   `json:"scaled_score" gorm:"not null"`
}
