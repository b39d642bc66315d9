package lms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout is the default HTTP request timeout for web-service calls.
const DefaultTimeout = 30 * time.Second

// restPath is the Moodle web-service REST endpoint, relative to the base URL.
const restPath = "/webservice/rest/server.php"

// RequestError represents a failed web-service call, either at the HTTP
// level or as a Moodle exception envelope.
type RequestError struct {
	Function  string
	ErrorCode string
	Message   string
	Cause     error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lms request %s failed: %s: %v", e.Function, e.Message, e.Cause)
	}
	if e.ErrorCode != "" {
		return fmt.Sprintf("lms request %s failed: %s (%s)", e.Function, e.Message, e.ErrorCode)
	}
	return fmt.Sprintf("lms request %s failed: %s", e.Function, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client calls the LMS web-service API. It is safe for concurrent use; it
// holds no per-course state.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for the LMS at baseURL.
func NewClient(baseURL string, opts *Options) *Client {
	timeout := DefaultTimeout
	logger := zerolog.Nop()
	if opts != nil {
		if opts.Timeout > 0 {
			timeout = opts.Timeout
		}
		logger = opts.Logger
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// moodleException is the error envelope Moodle returns with HTTP 200.
type moodleException struct {
	Exception string `json:"exception"`
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
}

// call executes a web-service function and decodes the response into out.
func (c *Client) call(ctx context.Context, token, function string, params url.Values, out interface{}) error {
	form := url.Values{}
	form.Set("wstoken", token)
	form.Set("wsfunction", function)
	form.Set("moodlewsrestformat", "json")
	for key, values := range params {
		for _, v := range values {
			form.Add(key, v)
		}
	}

	endpoint := c.baseURL + restPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return &RequestError{Function: function, Message: "failed to create request", Cause: err}
	}
	req.URL.RawQuery = form.Encode()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Function: function, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Function: function, Message: "failed to read response body", Cause: err}
	}
	c.logger.Debug().
		Str("function", function).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("lms call")

	if resp.StatusCode != http.StatusOK {
		return &RequestError{Function: function, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}

	// Moodle reports errors with HTTP 200 and an exception envelope.
	var exc moodleException
	if err := json.Unmarshal(body, &exc); err == nil && exc.Exception != "" {
		return &RequestError{Function: function, ErrorCode: exc.ErrorCode, Message: exc.Message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &RequestError{Function: function, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// CourseContents fetches the section/module/file tree for a course.
func (c *Client) CourseContents(ctx context.Context, token string, courseID int) ([]Section, error) {
	params := url.Values{}
	params.Set("courseid", strconv.Itoa(courseID))
	var sections []Section
	if err := c.call(ctx, token, "core_course_get_contents", params, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// QuizzesByCourse fetches every quiz configuration in a course.
func (c *Client) QuizzesByCourse(ctx context.Context, token string, courseID int) ([]Quiz, error) {
	params := url.Values{}
	params.Set("courseids[0]", strconv.Itoa(courseID))
	var resp struct {
		Quizzes []Quiz `json:"quizzes"`
	}
	if err := c.call(ctx, token, "mod_quiz_get_quizzes_by_courses", params, &resp); err != nil {
		return nil, err
	}
	return resp.Quizzes, nil
}

// ForumsByCourse fetches every forum in a course, including the
// announcements forum.
func (c *Client) ForumsByCourse(ctx context.Context, token string, courseID int) ([]Forum, error) {
	params := url.Values{}
	params.Set("courseids[0]", strconv.Itoa(courseID))
	var forums []Forum
	if err := c.call(ctx, token, "mod_forum_get_forums_by_courses", params, &forums); err != nil {
		return nil, err
	}
	return forums, nil
}

// AssignmentsByCourse fetches every assignment in a course.
func (c *Client) AssignmentsByCourse(ctx context.Context, token string, courseID int) ([]Assignment, error) {
	params := url.Values{}
	params.Set("courseids[0]", strconv.Itoa(courseID))
	var resp struct {
		Courses []struct {
			ID          int          `json:"id"`
			Assignments []Assignment `json:"assignments"`
		} `json:"courses"`
	}
	if err := c.call(ctx, token, "mod_assign_get_assignments", params, &resp); err != nil {
		return nil, err
	}
	var out []Assignment
	for _, course := range resp.Courses {
		if course.ID == courseID {
			out = append(out, course.Assignments...)
		}
	}
	return out, nil
}

// LessonsByCourse fetches every lesson activity in a course.
func (c *Client) LessonsByCourse(ctx context.Context, token string, courseID int) ([]Lesson, error) {
	params := url.Values{}
	params.Set("courseids[0]", strconv.Itoa(courseID))
	var resp struct {
		Lessons []Lesson `json:"lessons"`
	}
	if err := c.call(ctx, token, "mod_lesson_get_lessons_by_courses", params, &resp); err != nil {
		return nil, err
	}
	return resp.Lessons, nil
}

// LessonPages fetches the pages of a single lesson.
func (c *Client) LessonPages(ctx context.Context, token string, lessonID int) ([]LessonPage, error) {
	params := url.Values{}
	params.Set("lessonid", strconv.Itoa(lessonID))
	var resp struct {
		Pages []struct {
			Page LessonPage `json:"page"`
		} `json:"pages"`
	}
	if err := c.call(ctx, token, "mod_lesson_get_pages", params, &resp); err != nil {
		return nil, err
	}
	pages := make([]LessonPage, 0, len(resp.Pages))
	for _, p := range resp.Pages {
		pages = append(pages, p.Page)
	}
	return pages, nil
}

// BooksByCourse fetches every book activity in a course.
func (c *Client) BooksByCourse(ctx context.Context, token string, courseID int) ([]Book, error) {
	params := url.Values{}
	params.Set("courseids[0]", strconv.Itoa(courseID))
	var resp struct {
		Books []Book `json:"books"`
	}
	if err := c.call(ctx, token, "mod_book_get_books_by_courses", params, &resp); err != nil {
		return nil, err
	}
	return resp.Books, nil
}

// FileHTML downloads a content file (book chapter, page fragment) through
// the web-service file endpoint and returns its body as a string.
func (c *Client) FileHTML(ctx context.Context, token, fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", &RequestError{Function: "file", Message: "invalid file URL", Cause: err}
	}
	query := parsed.Query()
	query.Set("token", token)
	parsed.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return "", &RequestError{Function: "file", Message: "failed to create request", Cause: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RequestError{Function: "file", Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &RequestError{Function: "file", Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{Function: "file", Message: "failed to read response body", Cause: err}
	}
	return string(body), nil
}

// FetchSnapshot fetches the full course snapshot in one fan-out. Activity
// listings that are unavailable on the LMS (disabled web-service functions)
// degrade to empty lists; the section tree is mandatory.
func (c *Client) FetchSnapshot(ctx context.Context, token string, courseID int) (*Snapshot, error) {
	snapshot := &Snapshot{CourseID: courseID}

	sections, err := c.CourseContents(ctx, token, courseID)
	if err != nil {
		return nil, err
	}
	snapshot.Sections = sections

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		quizzes, err := c.QuizzesByCourse(gCtx, token, courseID)
		if err != nil {
			c.logger.Warn().Err(err).Msg("quiz listing unavailable")
			return nil
		}
		snapshot.Quizzes = quizzes
		return nil
	})
	g.Go(func() error {
		forums, err := c.ForumsByCourse(gCtx, token, courseID)
		if err != nil {
			c.logger.Warn().Err(err).Msg("forum listing unavailable")
			return nil
		}
		snapshot.Forums = forums
		return nil
	})
	g.Go(func() error {
		assignments, err := c.AssignmentsByCourse(gCtx, token, courseID)
		if err != nil {
			c.logger.Warn().Err(err).Msg("assignment listing unavailable")
			return nil
		}
		snapshot.Assignments = assignments
		return nil
	})
	g.Go(func() error {
		lessons, err := c.LessonsByCourse(gCtx, token, courseID)
		if err != nil {
			c.logger.Warn().Err(err).Msg("lesson listing unavailable")
			return nil
		}
		snapshot.Lessons = lessons
		return nil
	})
	g.Go(func() error {
		books, err := c.BooksByCourse(gCtx, token, courseID)
		if err != nil {
			c.logger.Warn().Err(err).Msg("book listing unavailable")
			return nil
		}
		snapshot.Books = books
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshot, nil
}
