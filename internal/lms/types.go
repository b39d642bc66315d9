// Package lms provides a typed, read-only client for the Moodle web-service
// API used by the compliance engine. Responses are decoded into snapshot
// structs at the fetch boundary so rule code never touches raw JSON.
package lms

// Section is a course section as returned by core_course_get_contents.
type Section struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Summary string   `json:"summary"`
	Visible int      `json:"visible"`
	Modules []Module `json:"modules"`
}

// Module is an activity or resource inside a section.
type Module struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	ModName        string          `json:"modname"`
	Instance       int             `json:"instance"`
	Description    string          `json:"description"`
	Visible        int             `json:"visible"`
	URL            string          `json:"url"`
	Availability   string          `json:"availability,omitempty"`
	CompletionData *CompletionData `json:"completiondata,omitempty"`
	Contents       []ContentFile   `json:"contents,omitempty"`
}

// ContentFile is a file entry nested in a module (folders, resources, books).
type ContentFile struct {
	Type         string `json:"type"`
	Filename     string `json:"filename"`
	Filepath     string `json:"filepath"`
	FileURL      string `json:"fileurl"`
	Content      string `json:"content,omitempty"`
	TimeModified int64  `json:"timemodified"`
}

// CompletionData describes a module's completion tracking configuration.
type CompletionData struct {
	State       int          `json:"state"`
	IsAutomatic bool         `json:"isautomatic"`
	Details     []RuleDetail `json:"details"`
}

// RuleDetail is a single completion rule, e.g. "completionview" or
// "completionpassgrade".
type RuleDetail struct {
	RuleName  string    `json:"rulename"`
	RuleValue RuleValue `json:"rulevalue"`
}

// RuleValue carries the per-rule completion status.
type RuleValue struct {
	Status      int    `json:"status"`
	Description string `json:"description"`
}

// Completion rule names used by the indicator checks.
const (
	RuleCompletionView      = "completionview"
	RuleCompletionPassGrade = "completionpassgrade"
	RuleCompletionSubmit    = "completionsubmit"
	RuleCompletionUsage     = "completionusegrade"
)

// HasCompletionRule reports whether the module declares the named
// completion rule.
func (m *Module) HasCompletionRule(rule string) bool {
	if m.CompletionData == nil {
		return false
	}
	for _, d := range m.CompletionData.Details {
		if d.RuleName == rule {
			return true
		}
	}
	return false
}

// Quiz is a quiz configuration from mod_quiz_get_quizzes_by_courses.
type Quiz struct {
	ID               int    `json:"id"`
	Course           int    `json:"course"`
	CourseModule     int    `json:"coursemodule"`
	Name             string `json:"name"`
	TimeOpen         int64  `json:"timeopen"`
	TimeClose        int64  `json:"timeclose"`
	TimeLimit        int    `json:"timelimit"`
	GracePeriod      int    `json:"graceperiod"`
	Attempts         int    `json:"attempts"`
	GradeMethod      int    `json:"grademethod"`
	QuestionsPerPage int    `json:"questionsperpage"`
	Password         string `json:"password"`
	Subnet           string `json:"subnet"`
	BrowserSecurity  string `json:"browsersecurity"`
}

// Forum is a forum from mod_forum_get_forums_by_courses. Type "news" is the
// course announcements forum.
type Forum struct {
	ID           int    `json:"id"`
	Course       int    `json:"course"`
	CourseModule int    `json:"cmid"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	Intro        string `json:"intro"`
}

// ForumTypeNews is the announcements forum type.
const ForumTypeNews = "news"

// Assignment is an assignment from mod_assign_get_assignments.
type Assignment struct {
	ID                       int    `json:"id"`
	CourseModule             int    `json:"cmid"`
	Course                   int    `json:"course"`
	Name                     string `json:"name"`
	DueDate                  int64  `json:"duedate"`
	AllowSubmissionsFromDate int64  `json:"allowsubmissionsfromdate"`
	Grade                    int    `json:"grade"`
	Intro                    string `json:"intro"`
}

// Lesson is a lesson activity from mod_lesson_get_lessons_by_courses.
type Lesson struct {
	ID           int    `json:"id"`
	Course       int    `json:"course"`
	CourseModule int    `json:"coursemodule"`
	Name         string `json:"name"`
	Retake       int    `json:"retake"`
}

// LessonPage is a page inside a lesson. QType identifies the page kind;
// PageTypeContent pages carry no question.
type LessonPage struct {
	ID       int    `json:"id"`
	LessonID int    `json:"lessonid"`
	QType    int    `json:"qtype"`
	Title    string `json:"title"`
	Contents string `json:"contents"`
}

// PageTypeContent is the qtype code for content (non-question) lesson pages.
const PageTypeContent = 20

// IsQuestion reports whether the page is an auto-graded question page.
func (p *LessonPage) IsQuestion() bool {
	return p.QType != PageTypeContent
}

// Book is a book activity from mod_book_get_books_by_courses. Chapter HTML
// is retrieved through the book module's content files.
type Book struct {
	ID           int    `json:"id"`
	Course       int    `json:"course"`
	CourseModule int    `json:"coursemodule"`
	Name         string `json:"name"`
}

// Snapshot is a read-only view of one course, fetched once per evaluation
// run and never mutated afterwards.
type Snapshot struct {
	CourseID    int
	Sections    []Section
	Quizzes     []Quiz
	Forums      []Forum
	Assignments []Assignment
	Lessons     []Lesson
	Books       []Book
}

// QuizForModule returns the quiz whose course-module id matches the given
// module, or nil when the module is not a quiz in this snapshot.
func (s *Snapshot) QuizForModule(m *Module) *Quiz {
	if m == nil {
		return nil
	}
	for i := range s.Quizzes {
		if s.Quizzes[i].CourseModule == m.ID {
			return &s.Quizzes[i]
		}
	}
	return nil
}

// LessonForModule returns the lesson backing the given module, or nil.
func (s *Snapshot) LessonForModule(m *Module) *Lesson {
	if m == nil {
		return nil
	}
	for i := range s.Lessons {
		if s.Lessons[i].CourseModule == m.ID {
			return &s.Lessons[i]
		}
	}
	return nil
}

// BookForModule returns the book activity backing the given module, or nil
// when the module is not a book in this snapshot.
func (s *Snapshot) BookForModule(m *Module) *Book {
	if m == nil {
		return nil
	}
	for i := range s.Books {
		if s.Books[i].CourseModule == m.ID {
			return &s.Books[i]
		}
	}
	return nil
}

// ModuleByID returns the module with the given course-module id, or nil.
func (s *Snapshot) ModuleByID(id int) *Module {
	for i := range s.Sections {
		for j := range s.Sections[i].Modules {
			if s.Sections[i].Modules[j].ID == id {
				return &s.Sections[i].Modules[j]
			}
		}
	}
	return nil
}

// ModulesByModName returns every module of the given modname across all
// sections, in section order.
func (s *Snapshot) ModulesByModName(modname string) []Module {
	var out []Module
	for _, sec := range s.Sections {
		for _, m := range sec.Modules {
			if m.ModName == modname {
				out = append(out, m)
			}
		}
	}
	return out
}
