package gsauth

import "context"

type accountIDContextKey struct{}

// WithAccountID attaches the account identifier (the email used to sign in)
// to ctx so audit records can correlate the exchanges of one login attempt.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDContextKey{}, accountID)
}

func accountIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	accountID, _ := ctx.Value(accountIDContextKey{}).(string)
	return accountID
}
