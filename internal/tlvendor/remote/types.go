package remote

// Target 远端逻辑目标
type Target string

const (
	// TargetSaaS 供应商 SaaS 账户/令牌 API
	TargetSaaS Target = "saas"
	// TargetVault 密文存储服务
	TargetVault Target = "vault"
)

// Response 已解析的成功响应
// NoContent 表示 204：成功但无响应体，是独立的哨兵状态而非错误。
type Response struct {
	StatusCode int
	NoContent  bool
	Body       map[string]interface{}
}

// AccountStatus SaaS accounts/{id} 端点返回的账户状态与令牌集
type AccountStatus struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	ReadKey     string `json:"read_key"`
	WriteToken  string `json:"write_token"`
	DeleteToken string `json:"delete_token"`
	PublicKey   string `json:"public_key"`
}

// Active 账户是否处于可用状态
func (a *AccountStatus) Active() bool {
	return a.Status == "active"
}
