// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package registry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/linuxfoundation/lfx-v2-redfish-client/pkg/redfish/field"
)

// Severity of a message.
type Severity string

const (
	SeverityOK       Severity = "OK"
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
)

var severities = field.Enum(SeverityOK, SeverityWarning, SeverityCritical)

// UnknownText replaces whatever a message cannot provide: its text when
// nothing resolves it, or a template argument the caller did not supply.
const UnknownText = "unknown"

// Message is a message-bearing field as found in task messages, extended
// error info and event records.
type Message struct {
	MessageID         field.Value[string]
	Message           field.Value[string]
	Severity          field.Value[Severity]
	Resolution        field.Value[string]
	MessageArgs       []any
	RelatedProperties []string
}

// MessageSchema decodes a Message.
var MessageSchema = field.NewSchema(
	field.Scalar(field.P("MessageId"), field.String, func(m *Message) *field.Value[string] { return &m.MessageID }, field.Required()),
	field.Scalar(field.P("Message"), field.String, func(m *Message) *field.Value[string] { return &m.Message }),
	field.Mapped(field.P("Severity"), severities, func(m *Message) *field.Value[Severity] { return &m.Severity }),
	field.Scalar(field.P("Resolution"), field.String, func(m *Message) *field.Value[string] { return &m.Resolution }),
	field.Custom(field.P("MessageArgs"), func(c field.Context, raw any, ok bool, m *Message) error {
		m.MessageArgs = []any{}
		if !ok || raw == nil {
			return nil
		}
		args, isArray := raw.([]any)
		if !isArray {
			return field.Malformed(c, raw)
		}
		m.MessageArgs = args
		return nil
	}),
	field.Custom(field.P("RelatedProperties"), func(c field.Context, raw any, ok bool, m *Message) error {
		m.RelatedProperties = []string{}
		if !ok || raw == nil {
			return nil
		}
		props, err := field.Strings(raw)
		if err != nil {
			return field.Malformed(c, raw, err)
		}
		m.RelatedProperties = props
		return nil
	}),
)

// registryKey splits "Prefix.Major.Minor.Key" into the registry key
// "Prefix.Major.Minor" and the message key "Key".
func registryKey(messageID string) (string, string) {
	i := strings.LastIndex(messageID, ".")
	if i < 0 {
		return "", messageID
	}
	return messageID[:i], messageID[i+1:]
}

// fallbackKeys are tried, in order, after the key computed from the
// message id. Some services key their registries generically.
var fallbackKeys = []string{"Messages", "BaseMessages"}

func lookup(registries map[string]*MessageRegistry, key string) *MessageRegistry {
	if r, ok := registries[key]; ok && r != nil {
		return r
	}
	for _, k := range fallbackKeys {
		if r, ok := registries[k]; ok && r != nil {
			return r
		}
	}
	return nil
}

// ParseMessage resolves m against registries and returns the decorated
// copy. Resolution never fails: when the registry or the message key cannot
// be found m is returned as is, with UnknownText as its text if it had none.
// Severity and resolution carried by m take precedence over the registry.
func ParseMessage(registries map[string]*MessageRegistry, m Message) Message {
	out := m
	key, name := registryKey(m.MessageID.OrElse(""))

	var entry *MessageEntry
	if reg := lookup(registries, key); reg != nil {
		if e, ok := reg.Messages[name]; ok {
			entry = &e
		}
	}
	if entry == nil {
		if !out.Message.IsPresent() {
			out.Message = field.Of(UnknownText)
		}
		return out
	}

	out.Message = field.Of(Format(entry.Message.OrElse(""), m.MessageArgs))
	if !m.Severity.IsPresent() {
		out.Severity = field.Of(entry.Severity.OrElse(SeverityWarning))
	}
	if !m.Resolution.IsPresent() {
		out.Resolution = entry.Resolution
	}
	return out
}

var placeholder = regexp.MustCompile(`%(\d+)`)

// Format substitutes the %1, %2, ... placeholders of template with args.
// A placeholder without a matching argument becomes UnknownText.
func Format(template string, args []any) string {
	return placeholder.ReplaceAllStringFunc(template, func(p string) string {
		n, err := strconv.Atoi(p[1:])
		if err != nil || n < 1 || n > len(args) {
			return UnknownText
		}
		return fmt.Sprint(args[n-1])
	})
}
