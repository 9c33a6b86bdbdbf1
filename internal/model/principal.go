package model

// Principal аутентифицированный пользователь текущего запроса (из токена).
type Principal struct {
	ID       int64
	Role     string
	Username string
}
