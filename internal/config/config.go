package config

import (
	"fmt"
	"time"

	"github.com/trustedlogin/go-vendor/internal/util"
)

// EchoServer HTTP 服务配置
type EchoServer struct {
	ListenAddress                  string
	HideInternalServerErrorDetails bool
}

// Database PostgreSQL 连接配置
type Database struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
	SSLMode  string
}

// ConnectionString assembles the lib/pq DSN.
func (d Database) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode)
}

// TrustedLogin 供应商账户与远端 API 配置
type TrustedLogin struct {
	AccountID     string
	APIKey        string
	SaaSBaseURL   string
	VaultBaseURL  string
	HTTPTimeout   time.Duration
	TokenCacheTTL time.Duration
	DebugEnabled  bool
}

// Auth 坐席授权配置
// AgentTokens 形如 "token=user:role1|role2"，身份来源本身是外部协作方，
// 这里只是将令牌映射为执行者身份的接缝。
type Auth struct {
	ApprovedRoles []string
	AdminRole     string
	AgentTokens   []string
}

// Helpdesk 帮助台集成配置
// LoginURL 是 widget 片段指向的本服务登录入口，必须是坐席可达的公网地址。
type Helpdesk struct {
	Provider        string
	HelpScoutSecret string
	IntercomSecret  string
	LoginURL        string
}

// Verify 许可校验端点配置
type Verify struct {
	AllowedTypes []string
}

// Logger 日志配置
type Logger struct {
	Level              string
	PrettyPrintConsole bool
}

// Server 聚合全部服务配置，单实例，构造后只读。
type Server struct {
	Echo         EchoServer
	Database     Database
	TrustedLogin TrustedLogin
	Auth         Auth
	Helpdesk     Helpdesk
	Verify       Verify
	Logger       Logger
}

// DefaultServiceConfigFromEnv returns the full server config as parsed from
// the environment, with defaults suitable for local development.
func DefaultServiceConfigFromEnv() Server {
	return Server{
		Echo: EchoServer{
			ListenAddress:                  util.GetEnv("TL_SERVER_LISTEN_ADDRESS", ":8080"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("TL_SERVER_HIDE_INTERNAL_ERROR_DETAILS", true),
		},
		Database: Database{
			Host:     util.GetEnv("TL_PGHOST", "localhost"),
			Port:     util.GetEnvAsInt("TL_PGPORT", 5432),
			Username: util.GetEnv("TL_PGUSER", "trustedlogin"),
			Password: util.GetEnv("TL_PGPASSWORD", ""),
			Database: util.GetEnv("TL_PGDATABASE", "trustedlogin_vendor"),
			SSLMode:  util.GetEnv("TL_PGSSLMODE", "disable"),
		},
		TrustedLogin: TrustedLogin{
			AccountID:     util.GetEnv("TL_ACCOUNT_ID", ""),
			APIKey:        util.GetEnv("TL_API_KEY", ""),
			SaaSBaseURL:   util.GetEnv("TL_SAAS_BASE_URL", "https://app.trustedlogin.com/api/v1/"),
			VaultBaseURL:  util.GetEnv("TL_VAULT_BASE_URL", ""),
			HTTPTimeout:   time.Duration(util.GetEnvAsInt("TL_HTTP_TIMEOUT_SEC", 45)) * time.Second,
			TokenCacheTTL: time.Duration(util.GetEnvAsInt("TL_TOKEN_CACHE_TTL_SEC", 300)) * time.Second,
			DebugEnabled:  util.GetEnvAsBool("TL_DEBUG_ENABLED", false),
		},
		Auth: Auth{
			ApprovedRoles: util.GetEnvAsStringArr("TL_APPROVED_ROLES", []string{"support"}),
			AdminRole:     util.GetEnv("TL_ADMIN_ROLE", "administrator"),
			AgentTokens:   util.GetEnvAsStringArr("TL_AGENT_TOKENS", nil),
		},
		Helpdesk: Helpdesk{
			Provider:        util.GetEnv("TL_HELPDESK_PROVIDER", "helpscout"),
			HelpScoutSecret: util.GetEnv("TL_HELPSCOUT_SECRET", ""),
			IntercomSecret:  util.GetEnv("TL_INTERCOM_SECRET", ""),
			LoginURL:        util.GetEnv("TL_HELPDESK_LOGIN_URL", ""),
		},
		Verify: Verify{
			AllowedTypes: util.GetEnvAsStringArr("TL_VERIFY_ALLOWED_TYPES", []string{"EDD", "WooCommerce"}),
		},
		Logger: Logger{
			Level:              util.GetEnv("TL_LOG_LEVEL", "info"),
			PrettyPrintConsole: util.GetEnvAsBool("TL_LOG_PRETTY", false),
		},
	}
}
