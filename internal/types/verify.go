package types

// GetVerifyResponse 公开许可校验端点的成功响应
type GetVerifyResponse struct {
	Verified bool `json:"verified"`
}
