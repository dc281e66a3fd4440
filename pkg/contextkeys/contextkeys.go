package contextkeys

type contextKey string

// DBContextKey carries the *gorm.DB handle (pool or transaction)
// through the request context. Integration tests inject a transaction
// here so an entire request runs inside one rollback.
const DBContextKey = contextKey("db")
