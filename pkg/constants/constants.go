package constants

type ContextKey string

const (
	PoolKey         ContextKey = "pool"
	TxKey           ContextKey = "tx"
	LoggerKey       ContextKey = "logger"
	RequestIDKey    ContextKey = "requestID"
	RequestStartKey ContextKey = "requestStart"
	UserKey         ContextKey = "user"
)
