package session

import (
	"encoding/json"
	"strconv"

	"fooddash/internal/domain/model"
)

// 永続化JSON: {"<role>": profile, "<role>Authenticated": bool}
func encodeRecord[P any](role model.Role, st model.AuthSession[P]) (string, error) {
	profile, err := json.Marshal(st.Profile)
	if err != nil {
		return "", err
	}

	rec := map[string]json.RawMessage{
		role.StorageKey():         profile,
		role.AuthenticatedField(): json.RawMessage(strconv.FormatBool(st.Authenticated)),
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// 壊れたデータはok=falseで返す（エラーにはしない）。
func decodeRecord[P any](role model.Role, raw string) (model.AuthSession[P], bool) {
	var zero model.AuthSession[P]

	var rec map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec == nil {
		return zero, false
	}

	rawAuth, ok := rec[role.AuthenticatedField()]
	if !ok {
		return zero, false
	}
	var authenticated bool
	if err := json.Unmarshal(rawAuth, &authenticated); err != nil {
		return zero, false
	}
	if !authenticated {
		return zero, true
	}

	var profile *P
	rawProfile, ok := rec[role.StorageKey()]
	if !ok {
		return zero, false
	}
	if err := json.Unmarshal(rawProfile, &profile); err != nil || profile == nil {
		return zero, false
	}

	return model.AuthSession[P]{Authenticated: true, Profile: profile}, true
}
