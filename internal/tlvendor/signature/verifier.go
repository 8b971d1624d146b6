// Package signature validates inbound helpdesk webhook signatures.
package signature

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is the helpdesk webhook contract, not a digest of secret data
	"encoding/base64"
)

// Verify 校验 webhook 原始请求体的 HMAC-SHA1 签名。
// 共享密钥为空或签名缺失时直接拒绝（fail closed）。
// 比较使用 hmac.Equal，避免提前退出的逐字节比较泄露时序信息。
// 共享密钥从不写入日志。
func Verify(rawBody []byte, sig string, sharedSecret string) bool {
	if sharedSecret == "" {
		return false
	}
	if sig == "" {
		return false
	}

	expected := Compute(rawBody, sharedSecret)

	return hmac.Equal([]byte(expected), []byte(sig))
}

// Compute 计算请求体的 HMAC-SHA1 并 base64 编码
func Compute(rawBody []byte, sharedSecret string) string {
	h := hmac.New(sha1.New, []byte(sharedSecret))
	h.Write(rawBody)

	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
