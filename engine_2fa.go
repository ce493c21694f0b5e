package gsauth

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/hexfold/gsauth/httpx"
)

type phoneEnumerationResponse struct {
	TrustedPhoneNumbers []struct {
		ID                 int64  `json:"id"`
		NumberWithDialCode string `json:"numberWithDialCode"`
		PushMode           string `json:"pushMode"`
	} `json:"trustedPhoneNumbers"`
	SecurityCode struct {
		TooManyCodesSent     bool `json:"tooManyCodesSent"`
		SecurityCodeCooldown bool `json:"securityCodeCooldown"`
		SecurityCodeLocked   bool `json:"securityCodeLocked"`
	} `json:"securityCode"`
}

func (e *Engine) sessionRequest(session *Session) error {
	if e == nil || e.transport == nil {
		return ErrEngineNotReady
	}
	if session == nil || session.ID == "" || session.SequenceToken == "" {
		return ErrMissingSession
	}
	return nil
}

// ListTrustedPhones enumerates the phone numbers enrolled for second-factor
// delivery. CooldownActive is reported as the union of the provider's
// cooldown and too-many-codes flags.
func (e *Engine) ListTrustedPhones(ctx context.Context, session *Session) (*PhoneEnumeration, error) {
	if err := e.sessionRequest(session); err != nil {
		return nil, err
	}

	headers, err := e.providerHeaders(session)
	if err != nil {
		return nil, err
	}

	resp, err := e.do(ctx, &httpx.Request{
		Host:    e.config.Provider.Host,
		Path:    e.config.Provider.AuthInfoPath,
		Method:  "GET",
		Headers: headers,
	})
	if err != nil {
		wrapped := &TransportError{Op: "phone enumeration", Err: err}
		e.emitAudit(ctx, auditEventPhoneEnumeration, false, session.ID, wrapped, nil)
		return nil, wrapped
	}
	if resp.Status != 200 {
		failed := &StatusError{Op: "phone enumeration", Status: resp.Status, Message: "auth info fetch failed"}
		e.emitAudit(ctx, auditEventPhoneEnumeration, false, session.ID, failed, nil)
		return nil, failed
	}

	var decoded phoneEnumerationResponse
	if err := json.Unmarshal(resp.Body, &decoded); err != nil {
		wrapped := &TransportError{Op: "phone enumeration decode", Err: err}
		e.emitAudit(ctx, auditEventPhoneEnumeration, false, session.ID, wrapped, nil)
		return nil, wrapped
	}

	out := &PhoneEnumeration{
		TooManyCodesSent:   decoded.SecurityCode.TooManyCodesSent,
		CodeDeliveryLocked: decoded.SecurityCode.SecurityCodeLocked,
		CooldownActive:     decoded.SecurityCode.SecurityCodeCooldown || decoded.SecurityCode.TooManyCodesSent,
	}
	for _, p := range decoded.TrustedPhoneNumbers {
		out.Phones = append(out.Phones, TrustedPhone{
			ID:           p.ID,
			DialedNumber: p.NumberWithDialCode,
			DeliveryMode: p.PushMode,
		})
	}

	e.metricInc(MetricPhoneEnumeration)
	e.emitAudit(ctx, auditEventPhoneEnumeration, true, session.ID, nil, func() map[string]string {
		return map[string]string{
			"phones":          strconv.Itoa(len(out.Phones)),
			"cooldown_active": boolString(out.CooldownActive),
		}
	})

	return out, nil
}

// SendSMS requests delivery of a security code to the given trusted phone.
// The provider answers 200 or 202 for an accepted dispatch.
func (e *Engine) SendSMS(ctx context.Context, session *Session, phoneID int64) error {
	if err := e.sessionRequest(session); err != nil {
		return err
	}

	headers, err := e.providerHeaders(session)
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]interface{}{
		"phoneNumber": map[string]interface{}{"id": phoneID},
		"mode":        "sms",
	})
	if err != nil {
		return err
	}

	resp, err := e.do(ctx, &httpx.Request{
		Host:    e.config.Provider.Host,
		Path:    e.config.Provider.PhoneVerifyPath,
		Method:  "PUT",
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		wrapped := &TransportError{Op: "sms dispatch", Err: err}
		e.emitAudit(ctx, auditEventSMSRejected, false, session.ID, wrapped, nil)
		return wrapped
	}
	if resp.Status != 200 && resp.Status != 202 {
		failed := &StatusError{Op: "sms dispatch", Status: resp.Status, Message: "sms send rejected"}
		e.metricInc(MetricSMSRejected)
		e.emitAudit(ctx, auditEventSMSRejected, false, session.ID, failed, nil)
		return failed
	}

	e.metricInc(MetricSMSSent)
	e.emitAudit(ctx, auditEventSMSSent, true, session.ID, nil, func() map[string]string {
		return map[string]string{
			"phone_id": strconv.FormatInt(phoneID, 10),
		}
	})
	return nil
}

// VerifySMSCode submits the received security code. It must succeed before
// the second-factor-satisfied sign-in path is attempted; the account service
// rejects the downstream login otherwise.
func (e *Engine) VerifySMSCode(ctx context.Context, session *Session, phoneID int64, code string) error {
	if err := e.sessionRequest(session); err != nil {
		return err
	}
	if code == "" {
		return ErrCodeRequired
	}

	headers, err := e.providerHeaders(session)
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]interface{}{
		"phoneNumber":  map[string]interface{}{"id": phoneID},
		"securityCode": map[string]interface{}{"code": code},
		"mode":         "sms",
	})
	if err != nil {
		return err
	}

	resp, err := e.do(ctx, &httpx.Request{
		Host:    e.config.Provider.Host,
		Path:    e.config.Provider.SecurityCodePath,
		Method:  "POST",
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		wrapped := &TransportError{Op: "sms verify", Err: err}
		e.emitAudit(ctx, auditEventSMSRejected, false, session.ID, wrapped, nil)
		return wrapped
	}
	if resp.Status != 200 && resp.Status != 204 {
		failed := &StatusError{Op: "sms verify", Status: resp.Status, Message: "security code rejected"}
		e.metricInc(MetricSMSRejected)
		e.emitAudit(ctx, auditEventSMSRejected, false, session.ID, failed, nil)
		return failed
	}

	e.metricInc(MetricSMSVerified)
	e.emitAudit(ctx, auditEventSMSVerified, true, session.ID, nil, func() map[string]string {
		return map[string]string{
			"phone_id": strconv.FormatInt(phoneID, 10),
		}
	})
	return nil
}

// FetchTrustToken asks the provider for a trust token after a verified
// second factor. It is best-effort: any failure is audited and swallowed,
// returning an empty token, because the token only lets a future login skip
// the second factor.
func (e *Engine) FetchTrustToken(ctx context.Context, session *Session) (string, error) {
	if err := e.sessionRequest(session); err != nil {
		return "", err
	}

	headers, err := e.providerHeaders(session)
	if err != nil {
		return "", err
	}

	resp, err := e.do(ctx, &httpx.Request{
		Host:    e.config.Provider.Host,
		Path:    e.config.Provider.TrustPath,
		Method:  "GET",
		Headers: headers,
	})
	if err != nil {
		e.metricInc(MetricTrustTokenMissed)
		e.emitAudit(ctx, auditEventTrustTokenMissed, false, session.ID, &TransportError{Op: "trust token", Err: err}, nil)
		return "", nil
	}
	if resp.Status != 200 && resp.Status != 204 {
		e.metricInc(MetricTrustTokenMissed)
		e.emitAudit(ctx, auditEventTrustTokenMissed, false, session.ID,
			&StatusError{Op: "trust token", Status: resp.Status, Message: "trust fetch rejected"}, nil)
		return "", nil
	}

	token := resp.Header(trustTokenHeader)
	if token == "" {
		e.metricInc(MetricTrustTokenMissed)
		e.emitAudit(ctx, auditEventTrustTokenMissed, false, session.ID, nil, nil)
		return "", nil
	}

	e.metricInc(MetricTrustTokenFetched)
	e.emitAudit(ctx, auditEventTrustTokenFetched, true, session.ID, nil, nil)
	return token, nil
}

// CompleteSMSVerification sequences code verification and the best-effort
// trust-token fetch in the order the provider expects. The returned token
// may be empty even on success.
func (e *Engine) CompleteSMSVerification(ctx context.Context, session *Session, phoneID int64, code string) (string, error) {
	if err := e.VerifySMSCode(ctx, session, phoneID, code); err != nil {
		return "", err
	}
	return e.FetchTrustToken(ctx, session)
}
