package redirect

import (
	"strings"
)

// Target 重定向目标三元组
// 调用方负责执行真正的 302 跳转，并且必须把本次调用当作一次性操作。
type Target struct {
	SiteURL    string
	Endpoint   string
	Identifier string
}

// URL 拼装客户站点一次性登录地址
func (t *Target) URL() string {
	return strings.TrimSuffix(t.SiteURL, "/") + "/" + t.Endpoint + "/" + t.Identifier
}

// Envelope vault 返回的登录信封
// 四个字段齐备且格式合法才允许重定向，绝不基于残缺数据跳转。
type Envelope struct {
	SiteURL    string `json:"siteurl"`
	Endpoint   string `json:"endpoint"`
	Identifier string `json:"identifier"`
	Expiry     int64  `json:"expiry,omitempty"`
}

// tokenSetCache 令牌集的进程外缓存形态，带取回时间用于 TTL 判断
type tokenSetCache struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	ReadKey     string `json:"read_key"`
	WriteToken  string `json:"write_token"`
	DeleteToken string `json:"delete_token"`
	PublicKey   string `json:"public_key"`
	FetchedAt   int64  `json:"fetched_at"`
}
