package domain

type CtxKey string

const (
	// KeyPrincipal holds the *Principal attached by the session guard.
	KeyPrincipal CtxKey = "Principal"
	KeyUserID    CtxKey = "UserID"
	KeyUserEmail CtxKey = "Email"
	KeyUserRole  CtxKey = "Role"
	KeyRequestID CtxKey = "RequestID"
)
