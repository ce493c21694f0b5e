package gsauth

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/hexfold/gsauth/httpx"
	"github.com/hexfold/gsauth/internal"
	"github.com/hexfold/gsauth/password"
	"github.com/hexfold/gsauth/srp"
)

const (
	sessionIDHeader     = "x-apple-id-session-id"
	sequenceTokenHeader = "scnt"
	trustTokenHeader    = "x-apple-twosv-trust-token"
)

type sessionInitResponse struct {
	Iteration int    `json:"iteration"`
	Salt      string `json:"salt"`
	Protocol  string `json:"protocol"`
	B         string `json:"b"`
	C         string `json:"c"`
}

// providerHeaders assembles the fixed identity-provider header set with a
// freshly generated opaque state value. The session headers are added once a
// session exists.
func (e *Engine) providerHeaders(session *Session) (map[string]string, error) {
	state, err := internal.NewStateNonce(e.random)
	if err != nil {
		return nil, err
	}

	h := map[string]string{
		"Content-Type":                "application/json",
		"Accept":                      "application/json",
		"X-Apple-Widget-Key":          e.config.Provider.ServiceKey,
		"X-Apple-OAuth-Client-Id":     e.config.Provider.OAuthClientID,
		"X-Apple-OAuth-Client-Type":   "firstPartyAuth",
		"X-Apple-OAuth-Redirect-URI":  e.config.Provider.OAuthRedirectURI,
		"X-Apple-OAuth-Response-Mode": "web_message",
		"X-Apple-OAuth-Response-Type": "code",
		"X-Apple-OAuth-State":         state,
		"X-Apple-Domain-Id":           "1",
	}
	if session != nil {
		h[sessionIDHeader] = session.ID
		h[sequenceTokenHeader] = session.SequenceToken
	}
	return h, nil
}

// StartSession performs the two-request password handshake against the
// identity provider and returns the session whose headers authorize the
// second-factor calls. A provider answer of 409 on the completion request is
// not an error; it marks the session as needing a second factor.
func (e *Engine) StartSession(ctx context.Context, email, pw string) (*Session, error) {
	if e == nil || e.transport == nil {
		return nil, ErrEngineNotReady
	}

	client, err := srp.NewClient([]byte(email), e.random)
	if err != nil {
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", err, nil)
		return nil, err
	}

	headers, err := e.providerHeaders(nil)
	if err != nil {
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", err, nil)
		return nil, err
	}

	initBody, err := json.Marshal(map[string]interface{}{
		"a":           base64.StdEncoding.EncodeToString(client.PublicEphemeral()),
		"accountName": email,
		"protocols":   []string{string(password.ProtocolS2K), string(password.ProtocolS2KFO)},
	})
	if err != nil {
		return nil, err
	}

	initResp, err := e.do(ctx, &httpx.Request{
		Host:    e.config.Provider.Host,
		Path:    e.config.Provider.InitPath,
		Method:  "POST",
		Headers: headers,
		Body:    initBody,
	})
	if err != nil {
		wrapped := &TransportError{Op: "session init", Err: err}
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", wrapped, nil)
		return nil, wrapped
	}
	if initResp.Status != 200 {
		failed := &StatusError{Op: "session init", Status: initResp.Status, Message: "init failed"}
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", failed, nil)
		return nil, failed
	}

	var init sessionInitResponse
	if err := json.Unmarshal(initResp.Body, &init); err != nil {
		wrapped := &TransportError{Op: "session init decode", Err: err}
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", wrapped, nil)
		return nil, wrapped
	}

	salt, err := base64.StdEncoding.DecodeString(init.Salt)
	if err != nil {
		wrapped := &TransportError{Op: "session init salt decode", Err: err}
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", wrapped, nil)
		return nil, wrapped
	}
	serverB, err := base64.StdEncoding.DecodeString(init.B)
	if err != nil {
		wrapped := &TransportError{Op: "session init ephemeral decode", Err: err}
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", wrapped, nil)
		return nil, wrapped
	}

	key, err := password.Derive(password.Protocol(init.Protocol), pw, salt, init.Iteration)
	if err != nil {
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", err, nil)
		return nil, err
	}
	if err := client.SetDerivedKey(key); err != nil {
		return nil, err
	}

	proofs, err := client.GenerateProofs(salt, serverB)
	if err != nil {
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", err, nil)
		return nil, err
	}

	completeBody, err := json.Marshal(map[string]interface{}{
		"accountName": email,
		"c":           init.C,
		"m1":          base64.StdEncoding.EncodeToString(proofs.M1),
		"m2":          base64.StdEncoding.EncodeToString(proofs.M2),
		"rememberMe":  false,
		"trustTokens": []string{},
	})
	if err != nil {
		return nil, err
	}

	completeResp, err := e.do(ctx, &httpx.Request{
		Host:    e.config.Provider.Host,
		Path:    e.config.Provider.CompletePath,
		Method:  "POST",
		Headers: headers,
		Body:    completeBody,
	})
	if err != nil {
		wrapped := &TransportError{Op: "session complete", Err: err}
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", wrapped, nil)
		return nil, wrapped
	}
	if completeResp.Status != 200 && completeResp.Status != 409 {
		failed := &StatusError{Op: "session complete", Status: completeResp.Status, Message: "complete failed"}
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", failed, nil)
		return nil, failed
	}

	session := &Session{
		ID:                   completeResp.Header(sessionIDHeader),
		SequenceToken:        completeResp.Header(sequenceTokenHeader),
		SecondFactorRequired: completeResp.Status == 409,
	}
	if session.ID == "" || session.SequenceToken == "" {
		e.metricInc(MetricSessionStartFailure)
		e.emitAudit(ctx, auditEventSessionStartFailure, false, "", ErrSessionHeadersIncomplete, nil)
		return nil, ErrSessionHeadersIncomplete
	}

	e.metricInc(MetricSessionStartSuccess)
	e.emitAudit(ctx, auditEventSessionStartSuccess, true, session.ID, nil, func() map[string]string {
		return map[string]string{
			"second_factor_required": boolString(session.SecondFactorRequired),
		}
	})

	return session, nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
