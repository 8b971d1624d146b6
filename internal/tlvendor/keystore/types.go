package keystore

// KeyPair 供应商长期非对称密钥对，两半 PEM 编码后整体落盘，
// 绝不单独持久化其中一半。
type KeyPair struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}
