package client

import (
	"context"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*DirectoryClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewDirectoryClient(config.DirectoryConfig{BaseURL: srv.URL, TimeoutSecs: 5})
	return c, srv
}

func TestFetchCourseNotFound(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := c.FetchCourse(context.Background(), "missing")
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestFetchCourseNormalizesInstructorShapes(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantID       string
		wantExpanded bool
	}{
		{
			"bare reference id",
			`{"data":{"_id":"c1","basicInfo":{"title":"T","category":"Design"},"instructor":"inst-42"}}`,
			"inst-42",
			false,
		},
		{
			"expanded object",
			`{"data":{"_id":"c1","basicInfo":{"title":"T","category":"Design"},"instructor":{"_id":"inst-42","firstname":"Ada","lastname":"Lovelace"}}}`,
			"inst-42",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			course, err := c.FetchCourse(context.Background(), "c1")
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, course.Instructor.ID)
			assert.Equal(t, tt.wantExpanded, course.Instructor.Expanded)
			if tt.wantExpanded {
				assert.Equal(t, "Ada", course.Instructor.Firstname)
			}
		})
	}
}

func TestFetchProgressNormalizesBothShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			"array of ids",
			`{"data":{"completedLectures":["L1","L2"]}}`,
			[]string{"L1", "L2"},
		},
		{
			"array of objects",
			`{"data":{"completedLectures":[{"lectureId":"L1","completedAt":"2024-05-10T12:00:00Z"},{"lectureId":"L3"}]}}`,
			[]string{"L1", "L3"},
		},
		{
			"null data",
			`{"data":null}`,
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			progress, err := c.FetchProgress(context.Background(), "token", "c1")
			require.NoError(t, err)

			ids := make([]string, 0, len(progress.Completed))
			for _, l := range progress.Completed {
				ids = append(ids, l.LectureID)
			}
			if tt.want == nil {
				assert.Empty(t, ids)
			} else {
				assert.Equal(t, tt.want, ids)
			}
		})
	}
}

func TestCheckEnrollmentShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"bare true", `{"data":true}`, true},
		{"bare false", `{"data":false}`, false},
		{"record object means enrolled", `{"data":{"_id":"e1","courseId":"c1"}}`, true},
		{"null means not enrolled", `{"data":null}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			enrolled, err := c.CheckEnrollment(context.Background(), "token", "c1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, enrolled)
		})
	}
}

func TestEnrollSurfacesUpstreamMessage(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"already enrolled in this course"}`))
	}))
	defer srv.Close()

	err := c.Enroll(context.Background(), "token", "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already enrolled in this course")
}

func TestFetchPublishedCoursesSendsQueryAndToken(t *testing.T) {
	var gotQuery, gotAuth string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"_id":"c1","basicInfo":{"title":"T","category":"Design"}}]}`))
	}))
	defer srv.Close()

	courses, err := c.FetchPublishedCourses(context.Background(), DirectoryQuery{
		Category: "Design",
		Level:    "beginner",
		Page:     1,
		Limit:    50,
	})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "c1", courses[0].ID)

	assert.Contains(t, gotQuery, "category=Design")
	assert.Contains(t, gotQuery, "level=beginner")
	assert.Contains(t, gotQuery, "limit=50")
	assert.Empty(t, gotAuth)
}

func TestDirectoryCallHonorsContextCancellation(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchCourse(ctx, "c1")
	assert.Error(t, err)
}

func TestUpdateLectureProgressPostsBody(t *testing.T) {
	var gotMethod, gotPath string
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"acknowledged":true}}`))
	}))
	defer srv.Close()

	err := c.UpdateLectureProgress(context.Background(), "token", "c1", "L2", true)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/courses/c1/progress", gotPath)
}
