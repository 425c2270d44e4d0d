package client

import (
	"bytes"
	"context"
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"coursehub_backend/pkg/monitoring"
)

// DirectoryClient 访问远程课程目录服务。课程、报名和进度的主数据都在远端，
// 本服务只消费其契约。所有调用都携带 ctx，客户端断开时在途请求随之取消。
type DirectoryClient struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
}

func NewDirectoryClient(cfg config.DirectoryConfig) *DirectoryClient {
	return &DirectoryClient{
		baseURL:      cfg.BaseURL,
		serviceToken: cfg.ServiceToken,
		httpClient:   &http.Client{Timeout: cfg.Timeout()},
	}
}

// DirectoryQuery 批量拉取已发布课程的粗过滤条件
type DirectoryQuery struct {
	Category  string
	Level     string
	MinRating float64
	Page      int
	Limit     int
}

type dataEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (c *DirectoryClient) do(ctx context.Context, operation, method, path, token string, body interface{}) (*dataEnvelope, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token == "" {
		token = c.serviceToken
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		monitoring.DirectoryRequestDuration.WithLabelValues(operation, "error").Observe(time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %v", util.ErrDirectoryUnavailable, err)
	}
	defer resp.Body.Close()
	monitoring.DirectoryRequestDuration.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, util.ErrCourseNotFound
	}
	if resp.StatusCode >= 400 {
		var envelope dataEnvelope
		if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
			// 上游失败信息可直接展示给用户
			return nil, fmt.Errorf("directory error (status %d): %s", resp.StatusCode, envelope.Message)
		}
		return nil, fmt.Errorf("directory error (status %d)", resp.StatusCode)
	}

	var envelope dataEnvelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, err
		}
	}
	return &envelope, nil
}

// Ping 目录服务探活，健康检查用
func (c *DirectoryClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, "ping", http.MethodGet, "/courses?limit=1", "", nil)
	return err
}

func (c *DirectoryClient) FetchPublishedCourses(ctx context.Context, q DirectoryQuery) ([]model.CourseSummary, error) {
	params := url.Values{}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Level != "" {
		params.Set("level", q.Level)
	}
	if q.MinRating > 0 {
		params.Set("rating", strconv.FormatFloat(q.MinRating, 'f', -1, 64))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	path := "/courses"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	envelope, err := c.do(ctx, "list_courses", http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var courses []model.CourseSummary
	if err := json.Unmarshal(envelope.Data, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *DirectoryClient) FetchCourse(ctx context.Context, id string) (*model.CourseDetail, error) {
	envelope, err := c.do(ctx, "get_course", http.MethodGet, "/courses/"+url.PathEscape(id), "", nil)
	if err != nil {
		return nil, err
	}

	var course model.CourseDetail
	if err := json.Unmarshal(envelope.Data, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// CheckEnrollment 上游两种响应形态：裸布尔或 {data: 报名记录}
func (c *DirectoryClient) CheckEnrollment(ctx context.Context, userToken, courseID string) (bool, error) {
	envelope, err := c.do(ctx, "check_enrollment", http.MethodGet, "/enrollments/"+url.PathEscape(courseID), userToken, nil)
	if err != nil {
		return false, err
	}

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return false, nil
	}

	var enrolled bool
	if err := json.Unmarshal(envelope.Data, &enrolled); err == nil {
		return enrolled, nil
	}

	// 报名记录对象，存在即已报名
	return true, nil
}

func (c *DirectoryClient) Enroll(ctx context.Context, userToken, courseID string) error {
	_, err := c.do(ctx, "enroll", http.MethodPost, "/enrollments/"+url.PathEscape(courseID), userToken, nil)
	return err
}

func (c *DirectoryClient) FetchProgress(ctx context.Context, userToken, courseID string) (*model.RemoteProgress, error) {
	envelope, err := c.do(ctx, "get_progress", http.MethodGet, "/courses/"+url.PathEscape(courseID)+"/progress", userToken, nil)
	if err != nil {
		return nil, err
	}

	var progress model.RemoteProgress
	if len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, &progress); err != nil {
			return nil, err
		}
	}
	return &progress, nil
}

type updateProgressRequest struct {
	LectureID string `json:"lectureId"`
	Completed bool   `json:"completed"`
}

func (c *DirectoryClient) UpdateLectureProgress(ctx context.Context, userToken, courseID, lectureID string, completed bool) error {
	body := updateProgressRequest{LectureID: lectureID, Completed: completed}
	_, err := c.do(ctx, "update_progress", http.MethodPost, "/courses/"+url.PathEscape(courseID)+"/progress", userToken, body)
	return err
}
