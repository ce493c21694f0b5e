package gsauth

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventSessionStartSuccess  = "session_start_success"
	auditEventSessionStartFailure  = "session_start_failure"
	auditEventSignInAttempt        = "sign_in_attempt"
	auditEventSignInSuccess        = "sign_in_success"
	auditEventSignInFailure        = "sign_in_failure"
	auditEventSignInRedirect       = "sign_in_redirect"
	auditEventSignInRetry          = "sign_in_retry"
	auditEventVerificationRequired = "verification_required"
	auditEventAccountLocked        = "account_locked"
	auditEventPhoneEnumeration     = "phone_enumeration"
	auditEventSMSSent              = "sms_sent"
	auditEventSMSVerified          = "sms_verified"
	auditEventSMSRejected          = "sms_rejected"
	auditEventTrustTokenFetched    = "trust_token_fetched"
	auditEventTrustTokenMissed     = "trust_token_missed"
)

// AuditErrorCode defines a public type used by gsauth APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrVerificationRequired AuditErrorCode = "verification_required"
	auditErrAccountLocked        AuditErrorCode = "account_locked"
	auditErrMissingDeviceID      AuditErrorCode = "missing_device_id"
	auditErrMissingSession       AuditErrorCode = "missing_session"
	auditErrSessionHeaders       AuditErrorCode = "missing_session_headers"
	auditErrCodeRequired         AuditErrorCode = "code_required"
	auditErrPhoneNotFound        AuditErrorCode = "phone_not_found"
	auditErrStoreFailure         AuditErrorCode = "store_failure"
	auditErrTransport            AuditErrorCode = "transport_failure"
	auditErrStatus               AuditErrorCode = "unexpected_status"
	auditErrInternal             AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		AccountID: accountIDFromContext(ctx),
		SessionID: sessionID,
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	var transportErr *TransportError
	var statusErr *StatusError
	var storeErr *StoreFailure

	switch {
	case errors.Is(err, ErrAccountLocked):
		return auditErrAccountLocked
	case errors.Is(err, ErrVerificationRequired):
		return auditErrVerificationRequired
	case errors.Is(err, ErrMissingDeviceID):
		return auditErrMissingDeviceID
	case errors.Is(err, ErrMissingSession):
		return auditErrMissingSession
	case errors.Is(err, ErrSessionHeadersIncomplete):
		return auditErrSessionHeaders
	case errors.Is(err, ErrCodeRequired):
		return auditErrCodeRequired
	case errors.Is(err, ErrPhoneNotFound):
		return auditErrPhoneNotFound
	case errors.As(err, &storeErr):
		return auditErrStoreFailure
	case errors.As(err, &statusErr):
		return auditErrStatus
	case errors.As(err, &transportErr):
		return auditErrTransport
	default:
		return auditErrInternal
	}
}
