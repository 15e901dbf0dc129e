package outline

import "trainr/models/course"

// Section is the structural listing of one module. Modules without lessons still get a Section.
type Section struct {
	ModuleID uint          `json:"module_id"`
	Title    string        `json:"title"`
	Lessons  []SectionItem `json:"lessons"`
}

type SectionItem struct {
	LessonID  uint   `json:"lesson_id"`
	Title     string `json:"title"`
	Duration  int    `json:"duration"`
	IsPreview bool   `json:"is_preview"`
	Completed bool   `json:"completed"`
	Position  int    `json:"position"` // index in Flatten's sequence
}

// Outline lists every module in order with its lessons and completion flags.
func Outline(c course.Course, completed func(lessonID uint) bool) []Section {
	sections := make([]Section, 0, len(c.Modules))
	pos := 0
	for _, m := range c.Modules {
		s := Section{ModuleID: m.ID, Title: m.Title, Lessons: make([]SectionItem, 0, len(m.Lessons))}
		for _, l := range m.Lessons {
			s.Lessons = append(s.Lessons, SectionItem{
				LessonID:  l.ID,
				Title:     l.Title,
				Duration:  l.Duration,
				IsPreview: l.IsPreview,
				Completed: completed(l.ID),
				Position:  pos,
			})
			pos++
		}
		sections = append(sections, s)
	}
	return sections
}
