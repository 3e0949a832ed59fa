package config

// StoreConfig selects the backend for the fraud case document store.
// JSON records (orders, leads, check-ins) always live under DataDir.
type StoreConfig struct {
	FraudBackend string `yaml:"fraud_backend"` // sqlite, redis, memory
	SQLitePath   string `yaml:"sqlite_path"`   // relative paths resolve under DataDir
	RedisAddr    string `yaml:"redis_addr"`
	RedisDB      int    `yaml:"redis_db"`
	RedisPrefix  string `yaml:"redis_prefix"`
}
