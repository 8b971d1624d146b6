// Package remote implements the authenticated HTTP client for the
// TrustedLogin SaaS and Key Vault APIs with a shared status-code taxonomy.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout 所有远端调用的统一超时，客户端内部从不自动重试。
const DefaultTimeout = 45 * time.Second

// Client 面向单个远端目标的 HTTP 客户端
// 状态码到错误种类的映射集中在这里，保证 saas 与 vault 调用的错误
// 分类完全一致，调用方不需要各自推导语义。
type Client struct {
	target        Target
	baseURL       string
	authToken     string
	exchangeToken string
	debug         bool
	httpClient    *http.Client
}

// Option 客户端可选配置
type Option func(*Client)

// WithHTTPClient 注入自定义 http.Client（测试用）
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithExchangeToken 附加一次性交换令牌头（仅 saas 目标使用）
func WithExchangeToken(token string) Option {
	return func(c *Client) {
		c.exchangeToken = token
	}
}

// WithDebug 开启调试日志（只记录路径与状态码，不记录令牌与响应体）
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// NewClient 创建面向指定目标的客户端
func NewClient(target Target, baseURL string, authToken string, opts ...Option) *Client {
	c := &Client{
		target:    target,
		baseURL:   strings.TrimSuffix(baseURL, "/") + "/",
		authToken: authToken,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// allowedMethods 不支持的方法在任何网络 I/O 之前拒绝
var allowedMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodHead:   true,
}

// Send 发送请求并按状态码表路由结果
func (c *Client) Send(ctx context.Context, path string, body interface{}, method string) (*Response, error) {
	if !allowedMethods[method] {
		return nil, NewAPIError(KindMethodNotAllowed, 0)
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	target, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request URL")
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	c.applyAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// 传输层失败不重试，重试策略（如有）属于调用方
		return nil, WrapAPIError(KindTransportError, err)
	}
	defer resp.Body.Close()

	if c.debug {
		log.Debug().
			Str("target", string(c.target)).
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("Remote API call")
	}

	return c.routeResponse(resp)
}

// VerifyAccount 校验账户状态并取回令牌集
// 账户存在但状态非 active 与传输/鉴权失败是可区分的错误种类，
// 以便界面展示具体的补救提示。
func (c *Client) VerifyAccount(ctx context.Context, accountID string) (*AccountStatus, error) {
	resp, err := c.Send(ctx, "accounts/"+url.PathEscape(accountID), nil, http.MethodPost)
	if err != nil {
		return nil, err
	}

	if resp.NoContent {
		return nil, NewAPIError(KindEmptyBody, resp.StatusCode)
	}

	raw, err := json.Marshal(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to re-encode account body")
	}

	status := &AccountStatus{}
	if err := json.Unmarshal(raw, status); err != nil {
		return nil, errors.Wrap(err, "failed to decode account status")
	}

	if !status.Active() {
		apiErr := NewAPIError(KindAccountInactive, resp.StatusCode)
		apiErr.Details = []string{"account status: " + status.Status}
		return nil, apiErr
	}

	return status, nil
}

// applyAuthHeaders 合并目标相关的认证头
func (c *Client) applyAuthHeaders(req *http.Request) {
	switch c.target {
	case TargetSaaS:
		req.Header.Set("Authorization", "Bearer "+c.authToken)
		if c.exchangeToken != "" {
			req.Header.Set("X-TL-TOKEN", c.exchangeToken)
		}
	case TargetVault:
		req.Header.Set("X-Vault-Token", c.authToken)
	}
}

// routeResponse 集中解释 HTTP 状态码
func (c *Client) routeResponse(resp *http.Response) (*Response, error) {
	if resp.StatusCode == http.StatusNoContent {
		return &Response{StatusCode: resp.StatusCode, NoContent: true}, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, WrapAPIError(KindTransportError, err)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return nil, NewAPIError(KindVerifyFailed400, resp.StatusCode)
	case http.StatusForbidden:
		return nil, NewAPIError(KindVerifyFailed403, resp.StatusCode)
	case http.StatusNotFound:
		return nil, NewAPIError(KindVerifyFailed404, resp.StatusCode)
	case http.StatusGone:
		// 密文已不在 vault 中，终态，不应重试
		return nil, NewAPIError(KindGone, resp.StatusCode)
	case http.StatusFailedDependency:
		return nil, NewAPIError(KindVerifyFailed424, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := NewAPIError(KindAPIErrors, resp.StatusCode)
		apiErr.Details = extractErrorDetails(raw)
		return nil, apiErr
	}

	body := map[string]interface{}{}
	if err := json.Unmarshal(raw, &body); err != nil || len(body) == 0 {
		// 2xx 但响应体为空或不是 JSON 对象，按失败处理
		return nil, NewAPIError(KindEmptyBody, resp.StatusCode)
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// extractErrorDetails 提取远端响应中的 errors 字段
func extractErrorDetails(raw []byte) []string {
	parsed := struct {
		Errors interface{} `json:"errors"`
	}{}

	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Errors == nil {
		return nil
	}

	switch v := parsed.Errors.(type) {
	case string:
		return []string{v}
	case []interface{}:
		details := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				details = append(details, s)
			}
		}
		return details
	case map[string]interface{}:
		details := make([]string, 0, len(v))
		for field, msg := range v {
			if s, ok := msg.(string); ok {
				details = append(details, field+": "+s)
			}
		}
		return details
	default:
		return nil
	}
}
