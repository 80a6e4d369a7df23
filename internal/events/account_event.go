package events

import (
	"context"
	"strconv"
	"time"
)

type Type string

const (
	AccountRegistered  Type = "account.registered"
	AccountLoggedIn    Type = "account.logged_in"
	AccountLoginFailed Type = "account.login_failed"
	AccountUpdated     Type = "account.updated"
	AccountDeleted     Type = "account.deleted"
)

// AccountEvent is one audit record. Passwords, hashes and tokens never appear
// in it.
type AccountEvent struct {
	Type      Type
	AccountID string
	Email     string
	IP        string
	UserAgent string
	Timestamp time.Time
}

func (e *AccountEvent) fields() map[string]interface{} {
	fields := map[string]interface{}{
		"type":      string(e.Type),
		"timestamp": e.Timestamp.UnixMilli(),
	}
	if e.AccountID != "" {
		fields["account_id"] = e.AccountID
	}
	if e.Email != "" {
		fields["email"] = e.Email
	}
	if e.IP != "" {
		fields["ip"] = e.IP
	}
	if e.UserAgent != "" {
		fields["user_agent"] = e.UserAgent
	}
	return fields
}

// FromStream rebuilds an event from the values of a stream entry.
func FromStream(values map[string]interface{}) (*AccountEvent, bool) {
	typ, ok := values["type"].(string)
	if !ok || typ == "" {
		return nil, false
	}

	e := &AccountEvent{
		Type:      Type(typ),
		AccountID: str(values["account_id"]),
		Email:     str(values["email"]),
		IP:        str(values["ip"]),
		UserAgent: str(values["user_agent"]),
	}

	var ms int64
	switch v := values["timestamp"].(type) {
	case string:
		ms, _ = strconv.ParseInt(v, 10, 64)
	case int64:
		ms = v
	}
	if ms > 0 {
		e.Timestamp = time.UnixMilli(ms).UTC()
	} else {
		e.Timestamp = time.Now().UTC()
	}

	return e, true
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

type clientKey struct{}

// Client describes the caller of a request, for audit records.
type Client struct {
	IP        string
	UserAgent string
}

func WithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

func ClientFrom(ctx context.Context) Client {
	c, _ := ctx.Value(clientKey{}).(Client)
	return c
}
