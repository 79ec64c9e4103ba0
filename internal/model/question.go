package model

// Question is one row of the question bank. List-valued fields are stored
// as JSON text; older rows may hold a bare string in CorrectAnswers, which
// the repository treats as a single accepted answer.
//
// swagger:model Question
type Question struct {
	UUIDBase
	QuestionText   string `gorm:"type:text;not null" json:"questionText"`
	QuestionType   string `gorm:"size:50;index" json:"questionType"`
	Category       string `gorm:"size:100;index" json:"category"`
	Difficulty     string `gorm:"size:20;index" json:"difficulty"`
	Explanation    string `gorm:"type:text" json:"explanation"`
	Options        string `gorm:"type:text" json:"options"`
	CorrectAnswer  string `gorm:"size:500" json:"correctAnswer"`
	CorrectAnswers string `gorm:"type:text" json:"correctAnswers"`
	Tags           string `gorm:"type:text" json:"tags"`
	Reference      string `gorm:"size:500" json:"reference"`
}

func (Question) TableName() string {
	return "questions"
}

// CategoryCount is a row of the category listing.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}
